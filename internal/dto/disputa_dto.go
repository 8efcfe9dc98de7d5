package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirDisputaRequest struct {
	SalaID string `json:"sala_id" validate:"required,uuid"`
	Motivo string `json:"motivo"  validate:"required,min=10"`
}

// ResolverDisputaRequest triggers the automatic resolution engine.
type ResolverDisputaRequest struct {
	SalaID    string `json:"sala_id"    validate:"required,uuid"`
	DisputaID string `json:"disputa_id" validate:"required,uuid"`
}

// ResolverMediacionRequest is the manual verdict an admin applies to an
// escalated dispute.
type ResolverMediacionRequest struct {
	DisputaID string `json:"disputa_id" validate:"required,uuid"`
	Ganador   string `json:"ganador"    validate:"required,oneof=marca socio"`
	Notas     string `json:"notas"      validate:"required,min=10"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PuntajesResponse struct {
	Evidencia    float64 `json:"evidencia"`
	Historial    float64 `json:"historial"`
	Comunicacion float64 `json:"comunicacion"`
	Ponderado    float64 `json:"ponderado"`
}

type ResolucionResponse struct {
	DisputaID string `json:"disputa_id"`
	SalaID    string `json:"sala_id"`
	// Estado: "resuelta" (auto-applied) | "en_mediacion" (escalated)
	Estado                 string           `json:"estado"`
	Ganador                string           `json:"ganador"`
	Confianza              float64          `json:"confianza"`
	Razon                  string           `json:"razon"`
	Puntajes               PuntajesResponse `json:"puntajes"`
	RequiereRevisionHumana bool             `json:"requiere_revision_humana"`
	SLAVence               *string          `json:"sla_vence,omitempty"`
}

type DisputaResponse struct {
	ID                     string            `json:"id"`
	SalaID                 string            `json:"sala_id"`
	IniciadaPor            string            `json:"iniciada_por"`
	Motivo                 string            `json:"motivo"`
	Estado                 string            `json:"estado"`
	Resolution             *string           `json:"resolution,omitempty"`
	RequiereRevisionHumana bool              `json:"requiere_revision_humana"`
	Puntajes               *PuntajesResponse `json:"puntajes,omitempty"`
	SLAVence               *string           `json:"sla_vence,omitempty"`
	CreatedAt              string            `json:"created_at"`
	ResolvedAt             *string           `json:"resolved_at,omitempty"`
}
