// Package scoring implements the automatic dispute-resolution scoring engine:
// three independent 0–100 scorers (evidencia, historial, comunicacion) and the
// weighted verdict that combines them. All functions here are deterministic;
// the only state they see is what the caller fetched.
package scoring

const (
	puntajeNeutral = 50.0
	puntajeMin     = 0.0
	puntajeMax     = 100.0
)

// clamp bounds a score to [0, 100].
func clamp(p float64) float64 {
	if p < puntajeMin {
		return puntajeMin
	}
	if p > puntajeMax {
		return puntajeMax
	}
	return p
}

// EvidenciaInput is the slice of a sala the evidence scorer looks at.
type EvidenciaInput struct {
	Entregada bool
	Archivos  []string
	Notas     string
}

// Evidencia scores the submitted delivery evidence.
// Base 50. Entregada: +20, plus +10 per archivo capped at 3, plus +10 when
// notas exceed 100 characters. No entregada: -30. Clamped to [0,100].
func Evidencia(in EvidenciaInput) float64 {
	p := puntajeNeutral

	if in.Entregada {
		p += 20

		archivos := len(in.Archivos)
		if archivos > 3 {
			archivos = 3
		}
		p += float64(archivos) * 10

		if len(in.Notas) > 100 {
			p += 10
		}
	} else {
		p -= 30
	}

	return clamp(p)
}
