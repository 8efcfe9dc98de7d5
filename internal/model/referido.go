package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CodigoReferido is a user-owned invitation code.
type CodigoReferido struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo           string          `gorm:"uniqueIndex;not null"`
	UsuarioID        uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null"`
	Usos             int             `gorm:"not null;default:0"`
	GananciasTotales decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Referidos []Referido `gorm:"foreignKey:CodigoReferidoID"`
}

// Referido records one signup through a code, with the immediate bonus paid
// at registration and the recurring share accrued from platform fees.
type Referido struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CodigoReferidoID     uuid.UUID       `gorm:"type:uuid;index;not null"`
	UsuarioID            uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null"` // the referred user
	BonoInmediato        decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	GananciasRecurrentes decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
