package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EstadoSala is the closed set of escrow room states.
type EstadoSala string

const (
	SalaAbierta          EstadoSala = "abierta"
	SalaEnRevision       EstadoSala = "en_revision"
	SalaResueltaParcial  EstadoSala = "resuelta_parcial"
	SalaResueltaCompleta EstadoSala = "resuelta_completa"
	SalaCerrada          EstadoSala = "cerrada"
)

// transicionesSala is the explicit transition table. Services reject any
// estado change not listed here.
var transicionesSala = map[EstadoSala][]EstadoSala{
	SalaAbierta:          {SalaEnRevision, SalaResueltaParcial, SalaResueltaCompleta, SalaCerrada},
	SalaEnRevision:       {SalaCerrada},
	SalaResueltaParcial:  {SalaResueltaCompleta, SalaCerrada},
	SalaResueltaCompleta: {SalaCerrada},
	SalaCerrada:          {},
}

// PuedeTransicionarA reports whether moving to destino is a valid transition.
func (e EstadoSala) PuedeTransicionarA(destino EstadoSala) bool {
	for _, v := range transicionesSala[e] {
		if v == destino {
			return true
		}
	}
	return false
}

// Sala is an escrow room between a marca and a socio. Created when an offer
// is accepted and funded; terminal once closed.
type Sala struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MarcaID uuid.UUID `gorm:"type:uuid;not null;index"`
	SocioID uuid.UUID `gorm:"type:uuid;not null;index"`

	MontoProducto      decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	GananciaSocio      decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	ComisionPlataforma decimal.Decimal `gorm:"type:decimal(14,2);not null"`

	// Evidencia de entrega del trabajo
	EvidenciaEntregada bool     `gorm:"not null;default:false"`
	EvidenciaArchivos  []string `gorm:"serializer:json"`
	EvidenciaNotas     *string

	Estado    EstadoSala `gorm:"type:varchar(20);not null;default:'abierta'"`
	CreatedAt time.Time
	UpdatedAt time.Time
	ClosedAt  *time.Time

	Eventos []EventoSala `gorm:"foreignKey:SalaID"`
}

// Tipos de evento de la sala.
const (
	EventoMensaje       = "mensaje"
	EventoActualizacion = "actualizacion"
	EventoEvidencia     = "evidencia"
	EventoDisputa       = "disputa"
	EventoResolucion    = "resolucion"
)

// EventoSala is an immutable entry in the sala timeline. Insertion order is
// chronological and significant — the communication scorer walks it in order.
type EventoSala struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SalaID      uuid.UUID `gorm:"type:uuid;index;not null"`
	Tipo        string    `gorm:"type:varchar(20);not null"`
	Descripcion string    `gorm:"not null"`
	Autor       string    `gorm:"not null"`
	CreatedAt   time.Time
}
