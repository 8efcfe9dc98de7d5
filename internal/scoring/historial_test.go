package scoring

import (
	"testing"

	"partth/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestHistorial_NeutralSinRegistros(t *testing.T) {
	assert.Equal(t, 50.0, Historial(nil, nil))
	assert.Equal(t, 50.0, Historial(&model.Usuario{Reputacion: 90}, nil))
	assert.Equal(t, 50.0, Historial(nil, &model.Usuario{Reputacion: 90}))
}

func TestHistorial_DiferenciaReputacion(t *testing.T) {
	marca := &model.Usuario{Reputacion: 50}
	socio := &model.Usuario{Reputacion: 70}
	// 50 + (70-50)*0.3 = 56
	assert.InDelta(t, 56.0, Historial(marca, socio), 0.001)
}

func TestHistorial_BonusDealsSocio(t *testing.T) {
	marca := &model.Usuario{Reputacion: 50, DealsCompletados: 3}
	socio := &model.Usuario{Reputacion: 50, DealsCompletados: 10}
	assert.InDelta(t, 60.0, Historial(marca, socio), 0.001)

	// Equal deal counts earn no bonus
	socio.DealsCompletados = 3
	assert.InDelta(t, 50.0, Historial(marca, socio), 0.001)
}

func TestHistorial_DisputasPerdidas(t *testing.T) {
	marca := &model.Usuario{Reputacion: 50, DisputasPerdidas: 2}
	socio := &model.Usuario{Reputacion: 50}
	// Each prior marca fault favors the socio: 50 + 2*5 = 60
	assert.InDelta(t, 60.0, Historial(marca, socio), 0.001)

	// Each prior socio fault works against them
	socio.DisputasPerdidas = 3
	assert.InDelta(t, 45.0, Historial(marca, socio), 0.001)
}

func TestHistorial_Clamped(t *testing.T) {
	marca := &model.Usuario{Reputacion: 0, DisputasPerdidas: 20}
	socio := &model.Usuario{Reputacion: 500, DealsCompletados: 100}
	assert.Equal(t, 100.0, Historial(marca, socio))

	assert.Equal(t, 0.0, Historial(socio, &model.Usuario{Reputacion: 0, DisputasPerdidas: 20}))
}
