package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles de usuario.
const (
	RolMarca = "marca"
	RolSocio = "socio"
	RolAdmin = "admin"
)

// Usuario stores marketplace accounts with role-based access.
// Rol: "marca" | "socio" | "admin"
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Nombre       string    `gorm:"not null"`
	Email        *string
	PasswordHash string `gorm:"not null"`
	Rol          string `gorm:"type:varchar(20);not null"`
	// Reputacion starts neutral at 50 and grows with completed deals and
	// engagement bonuses — it has no upper bound (can exceed 100).
	Reputacion       float64 `gorm:"not null;default:50"`
	DealsCompletados int     `gorm:"not null;default:0"`
	// DisputasPerdidas is a denormalized count of disputes resolved against
	// this user. Incremented inside the resolution transaction so the history
	// scorer never has to scan salas.
	DisputasPerdidas int `gorm:"not null;default:0"`
	// ReferidoPorID links to the usuario whose referral code was used at signup
	ReferidoPorID *uuid.UUID `gorm:"type:uuid;index"`
	Activo        bool       `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Niveles de fidelidad.
const (
	NivelBronce  = "bronce"
	NivelPlata   = "plata"
	NivelOro     = "oro"
	NivelPlatino = "platino"
)

// NivelFidelidad derives the loyalty tier from reputacion and deal count.
// Thresholds: platino ≥80 rep & ≥50 deals, oro ≥65 & ≥20, plata ≥50 & ≥5.
func (u *Usuario) NivelFidelidad() string {
	switch {
	case u.Reputacion >= 80 && u.DealsCompletados >= 50:
		return NivelPlatino
	case u.Reputacion >= 65 && u.DealsCompletados >= 20:
		return NivelOro
	case u.Reputacion >= 50 && u.DealsCompletados >= 5:
		return NivelPlata
	default:
		return NivelBronce
	}
}
