package repository

import (
	"context"

	"partth/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReferidoRepository interface {
	CreateCodigo(ctx context.Context, c *model.CodigoReferido) error
	FindCodigo(ctx context.Context, codigo string) (*model.CodigoReferido, error)
	FindCodigoByUsuario(ctx context.Context, usuarioID uuid.UUID) (*model.CodigoReferido, error)
	FindCodigoByUsuarioTx(tx *gorm.DB, usuarioID uuid.UUID) (*model.CodigoReferido, error)
	UpdateCodigoTx(tx *gorm.DB, c *model.CodigoReferido) error
	CreateReferidoTx(tx *gorm.DB, r *model.Referido) error
	FindReferidoByUsuario(ctx context.Context, usuarioID uuid.UUID) (*model.Referido, error)
	FindReferidoByUsuarioTx(tx *gorm.DB, usuarioID uuid.UUID) (*model.Referido, error)
	UpdateReferidoTx(tx *gorm.DB, r *model.Referido) error
	ListReferidos(ctx context.Context, codigoID uuid.UUID) ([]model.Referido, error)
}

type referidoRepo struct{ db *gorm.DB }

func NewReferidoRepository(db *gorm.DB) ReferidoRepository { return &referidoRepo{db: db} }

func (r *referidoRepo) CreateCodigo(ctx context.Context, c *model.CodigoReferido) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *referidoRepo) FindCodigo(ctx context.Context, codigo string) (*model.CodigoReferido, error) {
	var c model.CodigoReferido
	err := r.db.WithContext(ctx).Where("codigo = ?", codigo).First(&c).Error
	return &c, err
}

func (r *referidoRepo) FindCodigoByUsuario(ctx context.Context, usuarioID uuid.UUID) (*model.CodigoReferido, error) {
	var c model.CodigoReferido
	err := r.db.WithContext(ctx).Where("usuario_id = ?", usuarioID).First(&c).Error
	return &c, err
}

func (r *referidoRepo) FindCodigoByUsuarioTx(tx *gorm.DB, usuarioID uuid.UUID) (*model.CodigoReferido, error) {
	var c model.CodigoReferido
	err := tx.Where("usuario_id = ?", usuarioID).First(&c).Error
	return &c, err
}

func (r *referidoRepo) UpdateCodigoTx(tx *gorm.DB, c *model.CodigoReferido) error {
	return tx.Save(c).Error
}

func (r *referidoRepo) CreateReferidoTx(tx *gorm.DB, ref *model.Referido) error {
	return tx.Create(ref).Error
}

func (r *referidoRepo) FindReferidoByUsuario(ctx context.Context, usuarioID uuid.UUID) (*model.Referido, error) {
	var ref model.Referido
	err := r.db.WithContext(ctx).Where("usuario_id = ?", usuarioID).First(&ref).Error
	return &ref, err
}

func (r *referidoRepo) FindReferidoByUsuarioTx(tx *gorm.DB, usuarioID uuid.UUID) (*model.Referido, error) {
	var ref model.Referido
	err := tx.Where("usuario_id = ?", usuarioID).First(&ref).Error
	return &ref, err
}

func (r *referidoRepo) UpdateReferidoTx(tx *gorm.DB, ref *model.Referido) error {
	return tx.Save(ref).Error
}

func (r *referidoRepo) ListReferidos(ctx context.Context, codigoID uuid.UUID) ([]model.Referido, error) {
	var refs []model.Referido
	err := r.db.WithContext(ctx).Where("codigo_referido_id = ?", codigoID).Order("created_at ASC").Find(&refs).Error
	return refs, err
}
