package dto

import "github.com/shopspring/decimal"

type WalletResponse struct {
	UsuarioID         string          `json:"usuario_id"`
	Disponible        decimal.Decimal `json:"disponible"`
	EnEscrow          decimal.Decimal `json:"en_escrow"`
	EnHold            decimal.Decimal `json:"en_hold"`
	EnDisputa         decimal.Decimal `json:"en_disputa"`
	ComisionesPagadas decimal.Decimal `json:"comisiones_pagadas"`
	GananciasReferido decimal.Decimal `json:"ganancias_referido"`
	NivelFidelidad    string          `json:"nivel_fidelidad"`
}

type MovimientoWalletResponse struct {
	ID          string          `json:"id"`
	Tipo        string          `json:"tipo"`
	Monto       decimal.Decimal `json:"monto"`
	Descripcion string          `json:"descripcion"`
	Referencia  *string         `json:"referencia,omitempty"`
	CreatedAt   string          `json:"created_at"`
}

type MovimientosListResponse struct {
	Data  []MovimientoWalletResponse `json:"data"`
	Total int64                      `json:"total"`
	Page  int                        `json:"page"`
	Limit int                        `json:"limit"`
}

type MovimientosFilter struct {
	Page  int `form:"page,default=1"   validate:"min=1"`
	Limit int `form:"limit,default=50" validate:"min=1,max=200"`
}
