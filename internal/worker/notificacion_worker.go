package worker

// notificacion_worker.go
// Processes notification jobs from QueueNotificaciones. Sends email through
// the SMTP relay behind the circuit breaker, with exponential backoff.
// Jobs that exhaust their retries land in the DLQ.

import (
	"context"
	"encoding/json"
	"time"

	"partth/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// NotificacionJobPayload is the job envelope sent to QueueNotificaciones.
type NotificacionJobPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NotificacionWorker delivers notification emails for sala and disputa events.
type NotificacionWorker struct {
	mailer *infra.Mailer
	cb     *infra.CircuitBreaker
	rdb    *redis.Client
}

func NewNotificacionWorker(mailer *infra.Mailer, cb *infra.CircuitBreaker, rdb *redis.Client) *NotificacionWorker {
	return &NotificacionWorker{mailer: mailer, cb: cb, rdb: rdb}
}

const maxNotificacionAttempts = 3

// Process handles a single notification job:
//  1. Parse NotificacionJobPayload from the job envelope
//  2. Send through the circuit breaker with exponential backoff (max 3 attempts)
//  3. On exhaustion, move the job to the DLQ
func (w *NotificacionWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload NotificacionJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("notificacion_worker: invalid payload")
		return
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("notificacion_worker: job without recipient, dropping")
		return
	}

	sendErr := withRetry(ctx, maxNotificacionAttempts, func(attempt int) error {
		err := w.cb.Execute(func() error {
			return w.mailer.SendNotificacion(payload.ToEmail, payload.Subject, payload.Body)
		})
		if err != nil {
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("to", payload.ToEmail).
				Msg("notificacion_worker: send attempt failed, retrying")
		}
		return err
	})

	if sendErr != nil {
		log.Error().Err(sendErr).Str("to", payload.ToEmail).Msg("notificacion_worker: send failed after all retries")
		SendToDLQ(ctx, w.rdb, QueueNotificaciones, "notificacion", raw,
			sendErr.Error(), maxNotificacionAttempts)
		return
	}

	log.Info().Str("to", payload.ToEmail).Str("subject", payload.Subject).Msg("notificacion_worker: email sent")
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			// 1s, 2s … (exponential backoff)
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
