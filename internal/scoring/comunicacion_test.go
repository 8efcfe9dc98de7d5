package scoring

import (
	"testing"
	"time"

	"partth/internal/model"

	"github.com/stretchr/testify/assert"
)

func eventosEn(tipos []string, timestamps []time.Time) []model.EventoSala {
	eventos := make([]model.EventoSala, len(tipos))
	for i, tipo := range tipos {
		eventos[i] = model.EventoSala{Tipo: tipo, CreatedAt: timestamps[i]}
	}
	return eventos
}

func TestComunicacion_SinEventos(t *testing.T) {
	assert.Equal(t, 50.0, Comunicacion(nil))
}

func TestComunicacion_BonoPorEventoConTope(t *testing.T) {
	base := time.Now()

	dos := eventosEn(
		[]string{model.EventoMensaje, model.EventoActualizacion},
		[]time.Time{base, base.Add(time.Hour)},
	)
	assert.Equal(t, 60.0, Comunicacion(dos))

	// 10 events would be +50 without the cap
	tipos := make([]string, 10)
	ts := make([]time.Time, 10)
	for i := range tipos {
		tipos[i] = model.EventoMensaje
		ts[i] = base.Add(time.Duration(i) * time.Hour)
	}
	assert.Equal(t, 75.0, Comunicacion(eventosEn(tipos, ts)))
}

func TestComunicacion_EventosNoConversacionalesNoSuman(t *testing.T) {
	base := time.Now()
	eventos := eventosEn(
		[]string{model.EventoEvidencia, model.EventoDisputa},
		[]time.Time{base, base.Add(time.Hour)},
	)
	assert.Equal(t, 50.0, Comunicacion(eventos))
}

func TestComunicacion_CastigoAbandono(t *testing.T) {
	base := time.Now()

	// Gap of 31 days between first and last event: -20
	eventos := eventosEn(
		[]string{model.EventoMensaje, model.EventoMensaje},
		[]time.Time{base, base.Add(31 * 24 * time.Hour)},
	)
	// 50 + 10 - 20 = 40
	assert.Equal(t, 40.0, Comunicacion(eventos))

	// Exactly 30 days is not abandonment
	eventos = eventosEn(
		[]string{model.EventoMensaje, model.EventoMensaje},
		[]time.Time{base, base.Add(30 * 24 * time.Hour)},
	)
	assert.Equal(t, 60.0, Comunicacion(eventos))
}

func TestComunicacion_UnSoloEventoViejoSinCastigo(t *testing.T) {
	base := time.Now().Add(-90 * 24 * time.Hour)
	eventos := eventosEn([]string{model.EventoMensaje}, []time.Time{base})
	assert.Equal(t, 55.0, Comunicacion(eventos))
}
