package scoring

import "fmt"

// Ganadores posibles del veredicto automatico.
const (
	GanadorSocio     = "socio"
	GanadorMarca     = "marca"
	GanadorMediacion = "mediacion"
)

// Pesos del puntaje ponderado.
const (
	pesoEvidencia    = 0.5
	pesoHistorial    = 0.3
	pesoComunicacion = 0.2

	umbralSocio = 65.0
	umbralMarca = 35.0

	confianzaMediacion = 50.0
)

// Puntajes is the per-scorer breakdown carried on the verdict.
type Puntajes struct {
	Evidencia    float64 `json:"evidencia"`
	Historial    float64 `json:"historial"`
	Comunicacion float64 `json:"comunicacion"`
	Ponderado    float64 `json:"ponderado"`
}

// Veredicto is the combined outcome of the three scorers.
type Veredicto struct {
	Ganador   string   `json:"ganador"`
	Confianza float64  `json:"confianza"`
	Razon     string   `json:"razon"`
	Puntajes  Puntajes `json:"puntajes"`
}

// Calcular combines the three scores into a winner and confidence.
//
// ponderado = evidencia×0.5 + historial×0.3 + comunicacion×0.2
//   - ponderado ≥ 65 → socio, confianza = min((p−50)×2, 100)
//   - ponderado ≤ 35 → marca, confianza = min((50−p)×2, 100)
//   - open interval (35, 65) → mediacion, confianza 50 fija
//
// The boundaries are inclusive for a named winner, but at exactly 65/35 the
// confidence comes out to 30 — below the resolution gate — so boundary sums
// still route to mediation downstream. Deliberate dead zone.
func Calcular(evidencia, historial, comunicacion float64) Veredicto {
	ponderado := evidencia*pesoEvidencia + historial*pesoHistorial + comunicacion*pesoComunicacion

	v := Veredicto{
		Puntajes: Puntajes{
			Evidencia:    evidencia,
			Historial:    historial,
			Comunicacion: comunicacion,
			Ponderado:    ponderado,
		},
	}

	switch {
	case ponderado >= umbralSocio:
		v.Ganador = GanadorSocio
		v.Confianza = minF((ponderado-puntajeNeutral)*2, 100)
		v.Razon = fmt.Sprintf("Evidencia y antecedentes favorecen al socio (ponderado %.1f)", ponderado)
	case ponderado <= umbralMarca:
		v.Ganador = GanadorMarca
		v.Confianza = minF((puntajeNeutral-ponderado)*2, 100)
		v.Razon = fmt.Sprintf("Evidencia y antecedentes favorecen a la marca (ponderado %.1f)", ponderado)
	default:
		v.Ganador = GanadorMediacion
		v.Confianza = confianzaMediacion
		v.Razon = fmt.Sprintf("Resultado ambiguo (ponderado %.1f): requiere mediacion humana", ponderado)
	}

	return v
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
