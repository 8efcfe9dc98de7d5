package scoring

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvidencia_RangoSiempreValido(t *testing.T) {
	casos := []EvidenciaInput{
		{},
		{Entregada: false},
		{Entregada: true},
		{Entregada: true, Archivos: []string{"a", "b", "c", "d", "e"}, Notas: strings.Repeat("x", 500)},
		{Entregada: false, Archivos: []string{"a"}, Notas: strings.Repeat("x", 500)},
	}
	for _, in := range casos {
		p := Evidencia(in)
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 100.0)
	}
}

func TestEvidencia_NoEntregada(t *testing.T) {
	// 50 - 30 = 20
	assert.Equal(t, 20.0, Evidencia(EvidenciaInput{Entregada: false}))
}

func TestEvidencia_Monotonia(t *testing.T) {
	sinEntrega := Evidencia(EvidenciaInput{Entregada: false})
	entregadaSinArchivos := Evidencia(EvidenciaInput{Entregada: true})
	completa := Evidencia(EvidenciaInput{
		Entregada: true,
		Archivos:  []string{"a", "b", "c", "d"},
		Notas:     strings.Repeat("n", 150),
	})

	assert.LessOrEqual(t, sinEntrega, entregadaSinArchivos)
	assert.LessOrEqual(t, entregadaSinArchivos, completa)
}

func TestEvidencia_ArchivosCapEnTres(t *testing.T) {
	tres := Evidencia(EvidenciaInput{Entregada: true, Archivos: []string{"a", "b", "c"}})
	diez := Evidencia(EvidenciaInput{Entregada: true, Archivos: []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}})
	assert.Equal(t, tres, diez)
	assert.Equal(t, 100.0, tres) // 50+20+30
}

func TestEvidencia_BonusNotasLargas(t *testing.T) {
	cortas := Evidencia(EvidenciaInput{Entregada: true, Notas: strings.Repeat("x", 100)})
	largas := Evidencia(EvidenciaInput{Entregada: true, Notas: strings.Repeat("x", 101)})
	assert.Equal(t, 70.0, cortas)
	assert.Equal(t, 80.0, largas)
}
