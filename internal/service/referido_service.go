package service

import (
	"context"
	"crypto/rand"
	"errors"

	"partth/internal/dto"
	"partth/internal/model"
	"partth/internal/repository"

	"github.com/google/uuid"
)

type ReferidoService interface {
	// GenerarCodigo creates (or returns the existing) referral code for a user.
	GenerarCodigo(ctx context.Context, usuarioID uuid.UUID) (*dto.CodigoReferidoResponse, error)
	ObtenerStats(ctx context.Context, usuarioID uuid.UUID) (*dto.ReferidoStatsResponse, error)
}

type referidoService struct {
	repo repository.ReferidoRepository
}

func NewReferidoService(repo repository.ReferidoRepository) ReferidoService {
	return &referidoService{repo: repo}
}

// codigoAlphabet omits ambiguous characters (0/O, 1/I/L).
const codigoAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

func (s *referidoService) GenerarCodigo(ctx context.Context, usuarioID uuid.UUID) (*dto.CodigoReferidoResponse, error) {
	// One code per user: re-issue the existing one
	if existing, err := s.repo.FindCodigoByUsuario(ctx, usuarioID); err == nil {
		return codigoToResponse(existing), nil
	}

	// Retry on the (unlikely) unique collision
	for intento := 0; intento < 3; intento++ {
		codigo, err := randomCodigo(8)
		if err != nil {
			return nil, err
		}
		c := &model.CodigoReferido{Codigo: codigo, UsuarioID: usuarioID}
		if err := s.repo.CreateCodigo(ctx, c); err == nil {
			return codigoToResponse(c), nil
		}
	}
	return nil, errors.New("no se pudo generar un codigo de referido")
}

func (s *referidoService) ObtenerStats(ctx context.Context, usuarioID uuid.UUID) (*dto.ReferidoStatsResponse, error) {
	codigo, err := s.repo.FindCodigoByUsuario(ctx, usuarioID)
	if err != nil {
		return nil, errors.New("el usuario no tiene codigo de referido")
	}
	referidos, err := s.repo.ListReferidos(ctx, codigo.ID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ReferidoItemResponse, 0, len(referidos))
	for _, r := range referidos {
		items = append(items, dto.ReferidoItemResponse{
			UsuarioID:            r.UsuarioID.String(),
			BonoInmediato:        r.BonoInmediato,
			GananciasRecurrentes: r.GananciasRecurrentes,
			CreatedAt:            r.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	return &dto.ReferidoStatsResponse{
		Codigo:           codigo.Codigo,
		Usos:             codigo.Usos,
		GananciasTotales: codigo.GananciasTotales,
		Referidos:        items,
	}, nil
}

func randomCodigo(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i := range buf {
		buf[i] = codigoAlphabet[int(buf[i])%len(codigoAlphabet)]
	}
	return string(buf), nil
}

func codigoToResponse(c *model.CodigoReferido) *dto.CodigoReferidoResponse {
	return &dto.CodigoReferidoResponse{
		Codigo:           c.Codigo,
		Usos:             c.Usos,
		GananciasTotales: c.GananciasTotales,
	}
}
