package scoring

import "partth/internal/model"

// Historial compares the counterparties' track records. A score above 50
// favors the socio, below 50 the marca.
//
// Base 50. Either usuario missing → exactly 50 (degraded, not an error).
// Then: +(reputacion socio − reputacion marca) × 0.3; +10 when the socio has
// completed more deals than the marca; −5 per prior at-fault dispute for each
// party (socio faults pull the score down, marca faults push it up). The
// at-fault counts come from the denormalized Usuario.DisputasPerdidas counter
// maintained at resolution time. Clamped to [0,100].
func Historial(marca, socio *model.Usuario) float64 {
	if marca == nil || socio == nil {
		return puntajeNeutral
	}

	p := puntajeNeutral

	p += (socio.Reputacion - marca.Reputacion) * 0.3

	if socio.DealsCompletados > marca.DealsCompletados {
		p += 10
	}

	// Prior faults count against their owner: the marca's faults make the
	// socio's case stronger and vice versa.
	p += float64(marca.DisputasPerdidas) * 5
	p -= float64(socio.DisputasPerdidas) * 5

	return clamp(p)
}
