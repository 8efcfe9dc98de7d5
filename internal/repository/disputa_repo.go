package repository

import (
	"context"
	"time"

	"partth/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DisputaRepository interface {
	Create(ctx context.Context, d *model.Disputa) error
	CreateTx(tx *gorm.DB, d *model.Disputa) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Disputa, error)
	// FindByIDTx re-reads the dispute under the transaction with a row lock,
	// so concurrent verdicts over the same dispute serialize at the DB.
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Disputa, error)
	// FindActivaBySala returns the non-terminal dispute of a sala, if any.
	FindActivaBySala(ctx context.Context, salaID uuid.UUID) (*model.Disputa, error)
	Update(ctx context.Context, d *model.Disputa) error
	UpdateTx(tx *gorm.DB, d *model.Disputa) error
	// ListMediacionVencidas returns escalated disputes whose SLA lapsed and
	// that have not been flagged yet. Used by the mediation cron.
	ListMediacionVencidas(ctx context.Context, now time.Time, limit int) ([]model.Disputa, error)
}

type disputaRepo struct{ db *gorm.DB }

func NewDisputaRepository(db *gorm.DB) DisputaRepository { return &disputaRepo{db: db} }

func (r *disputaRepo) Create(ctx context.Context, d *model.Disputa) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *disputaRepo) CreateTx(tx *gorm.DB, d *model.Disputa) error {
	return tx.Create(d).Error
}

func (r *disputaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Disputa, error) {
	var d model.Disputa
	err := r.db.WithContext(ctx).First(&d, id).Error
	return &d, err
}

func (r *disputaRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Disputa, error) {
	var d model.Disputa
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&d, id).Error
	return &d, err
}

func (r *disputaRepo) FindActivaBySala(ctx context.Context, salaID uuid.UUID) (*model.Disputa, error) {
	var d model.Disputa
	err := r.db.WithContext(ctx).
		Where("sala_id = ? AND estado IN ?", salaID,
			[]model.EstadoDisputa{model.DisputaAbierta, model.DisputaEnRevision}).
		First(&d).Error
	return &d, err
}

func (r *disputaRepo) Update(ctx context.Context, d *model.Disputa) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *disputaRepo) UpdateTx(tx *gorm.DB, d *model.Disputa) error {
	return tx.Save(d).Error
}

func (r *disputaRepo) ListMediacionVencidas(ctx context.Context, now time.Time, limit int) ([]model.Disputa, error) {
	var disputas []model.Disputa
	err := r.db.WithContext(ctx).
		Where("estado = ? AND sla_avisado = false AND sla_vence IS NOT NULL AND sla_vence < ?",
			model.DisputaEnMediacion, now).
		Order("sla_vence ASC").
		Limit(limit).
		Find(&disputas).Error
	return disputas, err
}
