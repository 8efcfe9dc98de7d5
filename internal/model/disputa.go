package model

import (
	"time"

	"github.com/google/uuid"
)

// EstadoDisputa is the closed set of dispute states.
type EstadoDisputa string

const (
	DisputaAbierta     EstadoDisputa = "abierta"
	DisputaEnRevision  EstadoDisputa = "en_revision"
	DisputaResuelta    EstadoDisputa = "resuelta"
	DisputaEnMediacion EstadoDisputa = "en_mediacion"
)

// EsTerminal reports whether the dispute already carries an applied resolution.
// en_mediacion counts: its financial effects are pending a human verdict, but
// the automatic pipeline must not run again.
func (e EstadoDisputa) EsTerminal() bool {
	return e == DisputaResuelta || e == DisputaEnMediacion
}

// Resoluciones posibles.
const (
	ResolucionSocio = "resuelta_socio"
	ResolucionMarca = "resuelta_marca"
)

// AnalisisAutomatico is the scoring breakdown stored on escalation (and on
// resolution) so mediators can see why the engine decided what it decided.
type AnalisisAutomatico struct {
	PuntajeEvidencia    float64 `json:"puntaje_evidencia"`
	PuntajeHistorial    float64 `json:"puntaje_historial"`
	PuntajeComunicacion float64 `json:"puntaje_comunicacion"`
	PuntajePonderado    float64 `json:"puntaje_ponderado"`
	Ganador             string  `json:"ganador"`
	Confianza           float64 `json:"confianza"`
	Razon               string  `json:"razon"`
}

// Disputa is the contested sub-record of a Sala.
type Disputa struct {
	ID                     uuid.UUID           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SalaID                 uuid.UUID           `gorm:"type:uuid;index;not null"`
	IniciadaPorID          uuid.UUID           `gorm:"type:uuid;not null"`
	Motivo                 string              `gorm:"not null"`
	Estado                 EstadoDisputa       `gorm:"type:varchar(20);not null;default:'abierta'"`
	Resolution             *string             `gorm:"type:varchar(30)"`
	RequiereRevisionHumana bool                `gorm:"not null;default:false"`
	AnalisisAuto           *AnalisisAutomatico `gorm:"serializer:json"`
	// SLAVence: advisory deadline for human mediation (48h from escalation)
	SLAVence   *time.Time
	SLAAvisado bool `gorm:"not null;default:false"`
	CreatedAt  time.Time
	ResolvedAt *time.Time
}
