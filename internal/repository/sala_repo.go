package repository

import (
	"context"

	"partth/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SalaRepository interface {
	Create(ctx context.Context, s *model.Sala) error
	CreateTx(tx *gorm.DB, s *model.Sala) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sala, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Sala, error)
	Update(ctx context.Context, s *model.Sala) error
	UpdateTx(tx *gorm.DB, s *model.Sala) error
	CreateEvento(ctx context.Context, e *model.EventoSala) error
	CreateEventoTx(tx *gorm.DB, e *model.EventoSala) error
	ListByUsuario(ctx context.Context, usuarioID uuid.UUID, page, limit int) ([]model.Sala, int64, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type salaRepo struct{ db *gorm.DB }

func NewSalaRepository(db *gorm.DB) SalaRepository { return &salaRepo{db: db} }

func (r *salaRepo) DB() *gorm.DB { return r.db }

func (r *salaRepo) Create(ctx context.Context, s *model.Sala) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *salaRepo) CreateTx(tx *gorm.DB, s *model.Sala) error {
	return tx.Create(s).Error
}

func (r *salaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sala, error) {
	var s model.Sala
	err := r.db.WithContext(ctx).
		Preload("Eventos", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&s, id).Error
	return &s, err
}

func (r *salaRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Sala, error) {
	var s model.Sala
	err := tx.First(&s, id).Error
	return &s, err
}

func (r *salaRepo) Update(ctx context.Context, s *model.Sala) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *salaRepo) UpdateTx(tx *gorm.DB, s *model.Sala) error {
	return tx.Save(s).Error
}

func (r *salaRepo) CreateEvento(ctx context.Context, e *model.EventoSala) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *salaRepo) CreateEventoTx(tx *gorm.DB, e *model.EventoSala) error {
	return tx.Create(e).Error
}

func (r *salaRepo) ListByUsuario(ctx context.Context, usuarioID uuid.UUID, page, limit int) ([]model.Sala, int64, error) {
	var salas []model.Sala
	var total int64
	offset := (page - 1) * limit

	q := r.db.WithContext(ctx).Model(&model.Sala{}).
		Where("marca_id = ? OR socio_id = ?", usuarioID, usuarioID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&salas).Error
	return salas, total, err
}
