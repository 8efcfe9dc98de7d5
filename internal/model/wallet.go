package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wallet holds per-user balance buckets. Intended invariant: the sum of all
// buckets equals everything ever escrowed on behalf of the user minus payouts;
// every mutation happens inside a GORM transaction together with its
// MovimientoWallet ledger row.
type Wallet struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UsuarioID         uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null"`
	Disponible        decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	EnEscrow          decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	EnHold            decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	EnDisputa         decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	ComisionesPagadas decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	GananciasReferido decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// MovimientoWallet is an immutable entry in the wallet ledger.
// Tipo: "fondeo_escrow" | "liberacion" | "disputa_retencion" | "disputa_resolucion"
//
//	| "comision" | "bono_referido" | "ganancia_referido"
//
// Movements are NEVER modified or deleted — corrections create inverse entries.
type MovimientoWallet struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	WalletID    uuid.UUID       `gorm:"type:uuid;index;not null"`
	Tipo        string          `gorm:"type:varchar(30);not null"`
	Monto       decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Descripcion string          `gorm:"not null"`
	// ReferenciaID links to the originating Sala or Disputa
	ReferenciaID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt    time.Time
}
