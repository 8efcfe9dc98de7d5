package repository

import (
	"context"

	"partth/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WalletRepository interface {
	Create(ctx context.Context, w *model.Wallet) error
	CreateTx(tx *gorm.DB, w *model.Wallet) error
	FindByUsuarioID(ctx context.Context, usuarioID uuid.UUID) (*model.Wallet, error)
	FindByUsuarioIDTx(tx *gorm.DB, usuarioID uuid.UUID) (*model.Wallet, error)
	UpdateTx(tx *gorm.DB, w *model.Wallet) error
	CreateMovimientoTx(tx *gorm.DB, m *model.MovimientoWallet) error
	ListMovimientos(ctx context.Context, walletID uuid.UUID, page, limit int) ([]model.MovimientoWallet, int64, error)
}

type walletRepo struct{ db *gorm.DB }

func NewWalletRepository(db *gorm.DB) WalletRepository { return &walletRepo{db: db} }

func (r *walletRepo) Create(ctx context.Context, w *model.Wallet) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *walletRepo) CreateTx(tx *gorm.DB, w *model.Wallet) error {
	return tx.Create(w).Error
}

func (r *walletRepo) FindByUsuarioID(ctx context.Context, usuarioID uuid.UUID) (*model.Wallet, error) {
	var w model.Wallet
	err := r.db.WithContext(ctx).Where("usuario_id = ?", usuarioID).First(&w).Error
	return &w, err
}

// FindByUsuarioIDTx reads inside an open transaction so balance math sees a
// consistent snapshot.
func (r *walletRepo) FindByUsuarioIDTx(tx *gorm.DB, usuarioID uuid.UUID) (*model.Wallet, error) {
	var w model.Wallet
	err := tx.Where("usuario_id = ?", usuarioID).First(&w).Error
	return &w, err
}

func (r *walletRepo) UpdateTx(tx *gorm.DB, w *model.Wallet) error {
	return tx.Save(w).Error
}

func (r *walletRepo) CreateMovimientoTx(tx *gorm.DB, m *model.MovimientoWallet) error {
	return tx.Create(m).Error
}

func (r *walletRepo) ListMovimientos(ctx context.Context, walletID uuid.UUID, page, limit int) ([]model.MovimientoWallet, int64, error) {
	var movs []model.MovimientoWallet
	var total int64
	offset := (page - 1) * limit

	q := r.db.WithContext(ctx).Model(&model.MovimientoWallet{}).Where("wallet_id = ?", walletID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&movs).Error
	return movs, total, err
}
