package dto

import "github.com/shopspring/decimal"

type CodigoReferidoResponse struct {
	Codigo           string          `json:"codigo"`
	Usos             int             `json:"usos"`
	GananciasTotales decimal.Decimal `json:"ganancias_totales"`
}

type ReferidoItemResponse struct {
	UsuarioID            string          `json:"usuario_id"`
	BonoInmediato        decimal.Decimal `json:"bono_inmediato"`
	GananciasRecurrentes decimal.Decimal `json:"ganancias_recurrentes"`
	CreatedAt            string          `json:"created_at"`
}

type ReferidoStatsResponse struct {
	Codigo           string                 `json:"codigo"`
	Usos             int                    `json:"usos"`
	GananciasTotales decimal.Decimal        `json:"ganancias_totales"`
	Referidos        []ReferidoItemResponse `json:"referidos"`
}
