package worker

// mediacion_cron.go
// Background goroutine that periodically looks for escalated disputes whose
// mediation SLA has lapsed without a human verdict, notifies both parties,
// and flags the dispute so it is reported only once.

import (
	"context"
	"fmt"
	"time"

	"partth/internal/model"
	"partth/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	mediacionTickInterval = 60 * time.Second
	mediacionBatchSize    = 20
)

// MediacionCronConfig holds all dependencies for the SLA watchdog.
type MediacionCronConfig struct {
	DisputaRepo repository.DisputaRepository
	SalaRepo    repository.SalaRepository
	UsuarioRepo repository.UsuarioRepository
	Dispatcher  *Dispatcher
}

// StartMediacionCron launches a background goroutine that ticks every minute,
// queries overdue mediations, and enqueues reminder notifications.
// It respects the context for graceful shutdown.
func StartMediacionCron(ctx context.Context, cfg MediacionCronConfig) {
	go func() {
		ticker := time.NewTicker(mediacionTickInterval)
		defer ticker.Stop()

		log.Info().Msg("mediacion_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("mediacion_cron: shutting down")
				return
			case <-ticker.C:
				processVencidas(ctx, cfg)
			}
		}
	}()
}

func processVencidas(ctx context.Context, cfg MediacionCronConfig) {
	disputas, err := cfg.DisputaRepo.ListMediacionVencidas(ctx, time.Now(), mediacionBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("mediacion_cron: failed to query overdue mediations")
		return
	}
	if len(disputas) == 0 {
		return
	}

	log.Warn().Int("count", len(disputas)).Msg("mediacion_cron: mediations past SLA")

	for i := range disputas {
		d := &disputas[i]

		sala, err := cfg.SalaRepo.FindByID(ctx, d.SalaID)
		if err != nil {
			log.Error().Err(err).Str("disputa_id", d.ID.String()).Msg("mediacion_cron: sala not found")
			continue
		}

		notificarVencida(ctx, cfg, d, sala)

		// Flag so the next tick skips this dispute
		d.SLAAvisado = true
		if err := cfg.DisputaRepo.Update(ctx, d); err != nil {
			log.Error().Err(err).Str("disputa_id", d.ID.String()).Msg("mediacion_cron: failed to flag dispute")
		}
	}
}

func notificarVencida(ctx context.Context, cfg MediacionCronConfig, d *model.Disputa, sala *model.Sala) {
	subject := "Mediacion pendiente fuera de plazo"
	body := fmt.Sprintf(
		"La disputa sobre la sala %s lleva mas de 48 horas esperando mediacion.\n"+
			"Un mediador la atendera a la brevedad.", sala.ID)

	for _, usuarioID := range []uuid.UUID{sala.MarcaID, sala.SocioID} {
		u, err := cfg.UsuarioRepo.FindByID(ctx, usuarioID)
		if err != nil || u.Email == nil || *u.Email == "" {
			continue
		}
		job := NotificacionJobPayload{ToEmail: *u.Email, Subject: subject, Body: body}
		if err := cfg.Dispatcher.EnqueueNotificacion(ctx, job); err != nil {
			log.Warn().Err(err).Str("disputa_id", d.ID.String()).Msg("mediacion_cron: failed to enqueue reminder")
		}
	}
}
