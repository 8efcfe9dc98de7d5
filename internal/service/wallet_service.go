package service

import (
	"context"
	"errors"

	"partth/internal/dto"
	"partth/internal/repository"

	"github.com/google/uuid"
)

type WalletService interface {
	ObtenerWallet(ctx context.Context, usuarioID uuid.UUID) (*dto.WalletResponse, error)
	ListarMovimientos(ctx context.Context, usuarioID uuid.UUID, filter dto.MovimientosFilter) (*dto.MovimientosListResponse, error)
}

type walletService struct {
	repo        repository.WalletRepository
	usuarioRepo repository.UsuarioRepository
}

func NewWalletService(repo repository.WalletRepository, usuarioRepo repository.UsuarioRepository) WalletService {
	return &walletService{repo: repo, usuarioRepo: usuarioRepo}
}

func (s *walletService) ObtenerWallet(ctx context.Context, usuarioID uuid.UUID) (*dto.WalletResponse, error) {
	w, err := s.repo.FindByUsuarioID(ctx, usuarioID)
	if err != nil {
		return nil, errors.New("wallet no encontrada")
	}
	nivel := ""
	if u, err := s.usuarioRepo.FindByID(ctx, usuarioID); err == nil {
		nivel = u.NivelFidelidad()
	}
	return &dto.WalletResponse{
		UsuarioID:         w.UsuarioID.String(),
		Disponible:        w.Disponible,
		EnEscrow:          w.EnEscrow,
		EnHold:            w.EnHold,
		EnDisputa:         w.EnDisputa,
		ComisionesPagadas: w.ComisionesPagadas,
		GananciasReferido: w.GananciasReferido,
		NivelFidelidad:    nivel,
	}, nil
}

func (s *walletService) ListarMovimientos(ctx context.Context, usuarioID uuid.UUID, filter dto.MovimientosFilter) (*dto.MovimientosListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	w, err := s.repo.FindByUsuarioID(ctx, usuarioID)
	if err != nil {
		return nil, errors.New("wallet no encontrada")
	}
	movs, total, err := s.repo.ListMovimientos(ctx, w.ID, filter.Page, filter.Limit)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovimientoWalletResponse, 0, len(movs))
	for _, m := range movs {
		item := dto.MovimientoWalletResponse{
			ID:          m.ID.String(),
			Tipo:        m.Tipo,
			Monto:       m.Monto,
			Descripcion: m.Descripcion,
			CreatedAt:   m.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
		if m.ReferenciaID != nil {
			ref := m.ReferenciaID.String()
			item.Referencia = &ref
		}
		items = append(items, item)
	}
	return &dto.MovimientosListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}
