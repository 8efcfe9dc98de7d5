package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"partth/internal/config"
	"partth/internal/dto"
	"partth/internal/infra"
	"partth/internal/model"
	"partth/internal/repository"
	"partth/internal/scoring"
	"partth/internal/worker"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var (
	ErrDisputaNoEncontrada = errors.New("disputa no encontrada")
	ErrDisputaNoPertenece  = errors.New("la disputa no pertenece a la sala indicada")
	ErrDisputaYaResuelta   = errors.New("la disputa ya fue resuelta")
)

// resolucionMinConfianza is the gate for applying a verdict without a human:
// below it, or on an ambiguous winner, the dispute escalates to mediation.
const resolucionMinConfianza = 70.0

type DisputaService interface {
	// ResolverAutomatica runs the scoring engine over a dispute and either
	// applies the verdict or escalates to human mediation. Idempotent: a
	// dispute already resolved (or escalated) returns its stored outcome.
	ResolverAutomatica(ctx context.Context, req dto.ResolverDisputaRequest) (*dto.ResolucionResponse, error)
	// ResolverMediacion applies a human verdict to an escalated dispute.
	ResolverMediacion(ctx context.Context, req dto.ResolverMediacionRequest) (*dto.ResolucionResponse, error)
	ObtenerDisputa(ctx context.Context, id uuid.UUID) (*dto.DisputaResponse, error)
}

type disputaService struct {
	repo        repository.DisputaRepository
	salaRepo    repository.SalaRepository
	usuarioRepo repository.UsuarioRepository
	walletRepo  repository.WalletRepository
	rdb         *redis.Client
	dispatcher  *worker.Dispatcher
	cfg         *config.Config
}

func NewDisputaService(
	repo repository.DisputaRepository,
	salaRepo repository.SalaRepository,
	usuarioRepo repository.UsuarioRepository,
	walletRepo repository.WalletRepository,
	rdb *redis.Client,
	dispatcher *worker.Dispatcher,
	cfg *config.Config,
) DisputaService {
	return &disputaService{
		repo:        repo,
		salaRepo:    salaRepo,
		usuarioRepo: usuarioRepo,
		walletRepo:  walletRepo,
		rdb:         rdb,
		dispatcher:  dispatcher,
		cfg:         cfg,
	}
}

// ── ResolverAutomatica ────────────────────────────────────────────────────────
// Pipeline:
//  1. Per-sala Redis lock — concurrent triggers fast-fail
//  2. Fetch disputa + sala (+ eventos) + both parties
//  3. Idempotency: terminal dispute returns the stored analysis
//  4. Mark the dispute en_revision, then score evidencia / historial /
//     comunicacion and combine into the verdict
//  5. confianza ≥ 70 with a clear winner → apply funds in ONE transaction
//     anything else → escalate to mediation with a 48h SLA

func (s *disputaService) ResolverAutomatica(ctx context.Context, req dto.ResolverDisputaRequest) (*dto.ResolucionResponse, error) {
	salaID, err := uuid.Parse(req.SalaID)
	if err != nil {
		return nil, ErrSalaNoEncontrada
	}
	disputaID, err := uuid.Parse(req.DisputaID)
	if err != nil {
		return nil, ErrDisputaNoEncontrada
	}

	if s.rdb != nil {
		lock := infra.NewSalaLock(s.rdb, salaID.String(), uuid.NewString())
		if err := lock.Acquire(ctx); err != nil {
			return nil, err
		}
		defer func() { _ = lock.Release(context.WithoutCancel(ctx)) }()
	}

	disputa, err := s.repo.FindByID(ctx, disputaID)
	if err != nil {
		return nil, ErrDisputaNoEncontrada
	}
	if disputa.SalaID != salaID {
		return nil, ErrDisputaNoPertenece
	}

	// Idempotency: never re-run the pipeline over a decided dispute
	if disputa.Estado.EsTerminal() {
		return resolucionFromDisputa(disputa), nil
	}

	sala, err := s.salaRepo.FindByID(ctx, salaID)
	if err != nil {
		return nil, ErrSalaNoEncontrada
	}

	// El motor toma la disputa: queda en_revision mientras corre el analisis
	disputa.Estado = model.DisputaEnRevision
	if err := s.repo.Update(ctx, disputa); err != nil {
		return nil, err
	}

	// Missing parties degrade to a neutral history score, they do not abort
	marca, errM := s.usuarioRepo.FindByID(ctx, sala.MarcaID)
	socio, errS := s.usuarioRepo.FindByID(ctx, sala.SocioID)
	if errM != nil {
		marca = nil
	}
	if errS != nil {
		socio = nil
	}

	notas := ""
	if sala.EvidenciaNotas != nil {
		notas = *sala.EvidenciaNotas
	}
	pEvidencia := scoring.Evidencia(scoring.EvidenciaInput{
		Entregada: sala.EvidenciaEntregada,
		Archivos:  sala.EvidenciaArchivos,
		Notas:     notas,
	})
	pHistorial := scoring.Historial(marca, socio)
	pComunicacion := scoring.Comunicacion(sala.Eventos)

	veredicto := scoring.Calcular(pEvidencia, pHistorial, pComunicacion)

	analisis := &model.AnalisisAutomatico{
		PuntajeEvidencia:    veredicto.Puntajes.Evidencia,
		PuntajeHistorial:    veredicto.Puntajes.Historial,
		PuntajeComunicacion: veredicto.Puntajes.Comunicacion,
		PuntajePonderado:    veredicto.Puntajes.Ponderado,
		Ganador:             veredicto.Ganador,
		Confianza:           veredicto.Confianza,
		Razon:               veredicto.Razon,
	}
	disputa.AnalisisAuto = analisis

	if veredicto.Ganador != scoring.GanadorMediacion && veredicto.Confianza >= resolucionMinConfianza {
		if err := s.aplicarVeredicto(ctx, sala, disputa, veredicto.Ganador, veredicto.Razon, model.DisputaEnRevision); err != nil {
			return nil, err
		}
	} else {
		if err := s.escalarAMediacion(ctx, sala, disputa); err != nil {
			return nil, err
		}
	}

	s.notificarResolucion(ctx, sala, disputa)
	return resolucionFromDisputa(disputa), nil
}

// aplicarVeredicto commits the full financial effect of a verdict in a single
// transaction: wallet moves, ledger rows, loser counters, sala closure and the
// resolution evento. The dispute is re-read under the transaction and must
// still be in the estado the caller saw; a concurrent verdict that committed
// first makes the re-read fail and nothing is applied twice.
func (s *disputaService) aplicarVeredicto(ctx context.Context, sala *model.Sala, disputa *model.Disputa, ganador, razon string, desde model.EstadoDisputa) error {
	return runTx(ctx, s.salaRepo.DB(), func(tx *gorm.DB) error {
		now := nowFn()

		actual, err := s.repo.FindByIDTx(tx, disputa.ID)
		if err != nil {
			return err
		}
		if actual.Estado != desde {
			return ErrDisputaYaResuelta
		}

		if err := s.moverFondosTx(tx, sala, ganador); err != nil {
			return err
		}
		if err := s.ajustarReputacionTx(tx, sala, ganador); err != nil {
			return err
		}

		resolution := model.ResolucionMarca
		if ganador == scoring.GanadorSocio {
			resolution = model.ResolucionSocio
		}
		disputa.Estado = model.DisputaResuelta
		disputa.Resolution = &resolution
		disputa.ResolvedAt = &now
		if err := s.repo.UpdateTx(tx, disputa); err != nil {
			return err
		}

		if err := cambiarEstado(sala, model.SalaCerrada); err != nil {
			return err
		}
		sala.ClosedAt = &now
		if err := s.salaRepo.UpdateTx(tx, sala); err != nil {
			return err
		}

		return s.salaRepo.CreateEventoTx(tx, &model.EventoSala{
			SalaID:      sala.ID,
			Tipo:        model.EventoResolucion,
			Descripcion: fmt.Sprintf("Disputa resuelta a favor de %s: %s", ganador, razon),
			Autor:       "sistema",
		})
	})
}

// moverFondosTx releases the frozen funds according to the winner.
//   - socio gana: cobra su ganancia, la marca recupera el remanente y paga la comision
//   - marca gana: reembolso total, el socio pierde la ganancia retenida
func (s *disputaService) moverFondosTx(tx *gorm.DB, sala *model.Sala, ganador string) error {
	salaRef := sala.ID

	marcaWallet, err := s.walletRepo.FindByUsuarioIDTx(tx, sala.MarcaID)
	if err != nil {
		return err
	}
	socioWallet, err := s.walletRepo.FindByUsuarioIDTx(tx, sala.SocioID)
	if err != nil {
		return err
	}

	switch ganador {
	case scoring.GanadorSocio:
		socioWallet.EnDisputa = socioWallet.EnDisputa.Sub(sala.GananciaSocio)
		socioWallet.Disponible = socioWallet.Disponible.Add(sala.GananciaSocio)

		remanente := sala.MontoProducto.Sub(sala.GananciaSocio).Sub(sala.ComisionPlataforma)
		marcaWallet.EnDisputa = marcaWallet.EnDisputa.Sub(sala.MontoProducto)
		marcaWallet.Disponible = marcaWallet.Disponible.Add(remanente)
		marcaWallet.ComisionesPagadas = marcaWallet.ComisionesPagadas.Add(sala.ComisionPlataforma)

		if err := s.walletRepo.CreateMovimientoTx(tx, &model.MovimientoWallet{
			WalletID: socioWallet.ID, Tipo: "disputa_resolucion",
			Monto: sala.GananciaSocio, Descripcion: "Disputa resuelta a favor del socio",
			ReferenciaID: &salaRef,
		}); err != nil {
			return err
		}
		if err := s.walletRepo.CreateMovimientoTx(tx, &model.MovimientoWallet{
			WalletID: marcaWallet.ID, Tipo: "disputa_resolucion",
			Monto: remanente.Sub(sala.MontoProducto), Descripcion: "Disputa resuelta a favor del socio",
			ReferenciaID: &salaRef,
		}); err != nil {
			return err
		}

	case scoring.GanadorMarca:
		marcaWallet.EnDisputa = marcaWallet.EnDisputa.Sub(sala.MontoProducto)
		marcaWallet.Disponible = marcaWallet.Disponible.Add(sala.MontoProducto)

		socioWallet.EnDisputa = socioWallet.EnDisputa.Sub(sala.GananciaSocio)

		if err := s.walletRepo.CreateMovimientoTx(tx, &model.MovimientoWallet{
			WalletID: marcaWallet.ID, Tipo: "disputa_resolucion",
			Monto: sala.MontoProducto, Descripcion: "Disputa resuelta a favor de la marca",
			ReferenciaID: &salaRef,
		}); err != nil {
			return err
		}
		if err := s.walletRepo.CreateMovimientoTx(tx, &model.MovimientoWallet{
			WalletID: socioWallet.ID, Tipo: "disputa_resolucion",
			Monto: sala.GananciaSocio.Neg(), Descripcion: "Ganancia perdida por disputa",
			ReferenciaID: &salaRef,
		}); err != nil {
			return err
		}

	default:
		return fmt.Errorf("ganador inválido: %s", ganador)
	}

	if err := s.walletRepo.UpdateTx(tx, marcaWallet); err != nil {
		return err
	}
	return s.walletRepo.UpdateTx(tx, socioWallet)
}

// ajustarReputacionTx increments the loser's denormalized at-fault counter and
// nudges reputacion. Both usuarios are read and written under the transaction
// so the counters commit atomically with the fund moves.
func (s *disputaService) ajustarReputacionTx(tx *gorm.DB, sala *model.Sala, ganador string) error {
	perdedorID := sala.MarcaID
	ganadorID := sala.SocioID
	if ganador == scoring.GanadorMarca {
		perdedorID = sala.SocioID
		ganadorID = sala.MarcaID
	}

	perdedor, err := s.usuarioRepo.FindByIDTx(tx, perdedorID)
	if err == nil {
		perdedor.DisputasPerdidas++
		perdedor.Reputacion -= 2
		if err := s.usuarioRepo.UpdateTx(tx, perdedor); err != nil {
			return err
		}
	}
	vencedor, err := s.usuarioRepo.FindByIDTx(tx, ganadorID)
	if err == nil {
		vencedor.Reputacion += 1
		if err := s.usuarioRepo.UpdateTx(tx, vencedor); err != nil {
			return err
		}
	}
	return nil
}

// escalarAMediacion parks the dispute for a human with the scoring breakdown
// attached. Funds stay frozen in EnDisputa.
func (s *disputaService) escalarAMediacion(ctx context.Context, sala *model.Sala, disputa *model.Disputa) error {
	now := nowFn()
	vence := now.Add(time.Duration(s.cfg.MediacionSLAHoras) * time.Hour)

	disputa.Estado = model.DisputaEnMediacion
	disputa.RequiereRevisionHumana = true
	disputa.SLAVence = &vence

	return runTx(ctx, s.salaRepo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateTx(tx, disputa); err != nil {
			return err
		}
		return s.salaRepo.CreateEventoTx(tx, &model.EventoSala{
			SalaID:      sala.ID,
			Tipo:        model.EventoActualizacion,
			Descripcion: "Disputa escalada a mediacion humana",
			Autor:       "sistema",
		})
	})
}

// ── ResolverMediacion ─────────────────────────────────────────────────────────

func (s *disputaService) ResolverMediacion(ctx context.Context, req dto.ResolverMediacionRequest) (*dto.ResolucionResponse, error) {
	disputaID, err := uuid.Parse(req.DisputaID)
	if err != nil {
		return nil, ErrDisputaNoEncontrada
	}
	disputa, err := s.repo.FindByID(ctx, disputaID)
	if err != nil {
		return nil, ErrDisputaNoEncontrada
	}
	if disputa.Estado != model.DisputaEnMediacion {
		return nil, errors.New("la disputa no esta en mediacion")
	}

	// Mismo lock que la resolucion automatica: un solo veredicto por sala a
	// la vez, sea de admin o del motor
	if s.rdb != nil {
		lock := infra.NewSalaLock(s.rdb, disputa.SalaID.String(), uuid.NewString())
		if err := lock.Acquire(ctx); err != nil {
			return nil, err
		}
		defer func() { _ = lock.Release(context.WithoutCancel(ctx)) }()
	}

	sala, err := s.salaRepo.FindByID(ctx, disputa.SalaID)
	if err != nil {
		return nil, ErrSalaNoEncontrada
	}

	razon := "Veredicto de mediacion: " + req.Notas
	if disputa.AnalisisAuto != nil {
		disputa.AnalisisAuto.Ganador = req.Ganador
		disputa.AnalisisAuto.Razon = razon
	}
	if err := s.aplicarVeredicto(ctx, sala, disputa, req.Ganador, razon, model.DisputaEnMediacion); err != nil {
		return nil, err
	}

	s.notificarResolucion(ctx, sala, disputa)
	return resolucionFromDisputa(disputa), nil
}

func (s *disputaService) ObtenerDisputa(ctx context.Context, id uuid.UUID) (*dto.DisputaResponse, error) {
	disputa, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrDisputaNoEncontrada
	}
	return disputaToResponse(disputa), nil
}

func (s *disputaService) notificarResolucion(ctx context.Context, sala *model.Sala, disputa *model.Disputa) {
	if s.dispatcher == nil {
		return
	}
	subject := "Disputa resuelta"
	body := "La disputa sobre tu sala fue resuelta automaticamente."
	if disputa.Estado == model.DisputaEnMediacion {
		subject = "Disputa en mediacion"
		body = "La disputa sobre tu sala requiere mediacion humana. Un mediador la atendera dentro de las proximas 48 horas."
	}
	for _, id := range []uuid.UUID{sala.MarcaID, sala.SocioID} {
		u, err := s.usuarioRepo.FindByID(ctx, id)
		if err != nil || u.Email == nil || *u.Email == "" {
			continue
		}
		_ = s.dispatcher.EnqueueNotificacion(ctx, worker.NotificacionJobPayload{
			ToEmail: *u.Email, Subject: subject, Body: body,
		})
	}
}

func resolucionFromDisputa(d *model.Disputa) *dto.ResolucionResponse {
	resp := &dto.ResolucionResponse{
		DisputaID:              d.ID.String(),
		SalaID:                 d.SalaID.String(),
		Estado:                 string(d.Estado),
		RequiereRevisionHumana: d.RequiereRevisionHumana,
	}
	if d.AnalisisAuto != nil {
		resp.Ganador = d.AnalisisAuto.Ganador
		resp.Confianza = d.AnalisisAuto.Confianza
		resp.Razon = d.AnalisisAuto.Razon
		resp.Puntajes = dto.PuntajesResponse{
			Evidencia:    d.AnalisisAuto.PuntajeEvidencia,
			Historial:    d.AnalisisAuto.PuntajeHistorial,
			Comunicacion: d.AnalisisAuto.PuntajeComunicacion,
			Ponderado:    d.AnalisisAuto.PuntajePonderado,
		}
	}
	if d.SLAVence != nil {
		v := d.SLAVence.Format("2006-01-02T15:04:05Z")
		resp.SLAVence = &v
	}
	return resp
}
