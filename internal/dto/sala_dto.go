package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearSalaRequest struct {
	SocioID       string          `json:"socio_id"       validate:"required,uuid"`
	MontoProducto decimal.Decimal `json:"monto_producto" validate:"required"`
	GananciaSocio decimal.Decimal `json:"ganancia_socio" validate:"required"`
}

type EntregarEvidenciaRequest struct {
	Archivos []string `json:"archivos"`
	Notas    *string  `json:"notas"`
}

type AgregarEventoRequest struct {
	Tipo        string `json:"tipo"        validate:"required,oneof=mensaje actualizacion"`
	Descripcion string `json:"descripcion" validate:"required,min=1"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type EventoResponse struct {
	ID          string `json:"id"`
	Tipo        string `json:"tipo"`
	Descripcion string `json:"descripcion"`
	Autor       string `json:"autor"`
	Timestamp   string `json:"timestamp"`
}

type SalaResponse struct {
	ID                 string           `json:"id"`
	MarcaID            string           `json:"marca_id"`
	SocioID            string           `json:"socio_id"`
	MontoProducto      decimal.Decimal  `json:"monto_producto"`
	GananciaSocio      decimal.Decimal  `json:"ganancia_socio"`
	ComisionPlataforma decimal.Decimal  `json:"comision_plataforma"`
	EvidenciaEntregada bool             `json:"evidencia_entregada"`
	EvidenciaArchivos  []string         `json:"evidencia_archivos,omitempty"`
	EvidenciaNotas     *string          `json:"evidencia_notas,omitempty"`
	Estado             string           `json:"estado"`
	Eventos            []EventoResponse `json:"eventos,omitempty"`
	CreatedAt          string           `json:"created_at"`
	ClosedAt           *string          `json:"closed_at,omitempty"`
}

type SalaListResponse struct {
	Data  []SalaResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

type SalaFilter struct {
	Page  int `form:"page,default=1"   validate:"min=1"`
	Limit int `form:"limit,default=50" validate:"min=1,max=200"`
}
