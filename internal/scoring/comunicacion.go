package scoring

import (
	"partth/internal/model"
)

const (
	bonoPorEvento     = 5.0
	bonoEventosMax    = 25.0
	diasAbandono      = 30.0
	castigoAbandono   = 20.0
	horasPorDia       = 24.0
)

// Comunicacion scores the sala timeline. Active, sustained conversation
// favors a clean resolution; a long silent gap signals abandonment.
//
// Base 50. +5 per "mensaje"/"actualizacion" event, capped at +25. With more
// than one event, a first-to-last gap above 30 days subtracts 20. Clamped.
func Comunicacion(eventos []model.EventoSala) float64 {
	p := puntajeNeutral

	bono := 0.0
	for _, ev := range eventos {
		if ev.Tipo == model.EventoMensaje || ev.Tipo == model.EventoActualizacion {
			bono += bonoPorEvento
		}
	}
	if bono > bonoEventosMax {
		bono = bonoEventosMax
	}
	p += bono

	if len(eventos) > 1 {
		primero := eventos[0].CreatedAt
		ultimo := eventos[len(eventos)-1].CreatedAt
		dias := ultimo.Sub(primero).Hours() / horasPorDia
		if dias > diasAbandono {
			p -= castigoAbandono
		}
	}

	return clamp(p)
}
