// Package qrcodes manages payment QR records and the one-shot sync of
// client-local records into the server store.
package qrcodes

import (
	"context"
	stderrors "errors"

	"github.com/chackchack-dev/chackchack-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes persistence helpers for QR codes.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, qr *models.QrCode) error
	Save(ctx context.Context, qr *models.QrCode) error
	GetByID(ctx context.Context, qrID uuid.UUID) (*models.QrCode, error)
	GetOwnedByName(ctx context.Context, ownerID uuid.UUID, qrName string) (*models.QrCode, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.QrCode, error)
	Delete(ctx context.Context, qrID uuid.UUID) error
	DeleteByOwner(ctx context.Context, ownerID uuid.UUID) error
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a QR code repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, qr *models.QrCode) error {
	return r.db.WithContext(ctx).Create(qr).Error
}

func (r *repositoryImpl) Save(ctx context.Context, qr *models.QrCode) error {
	return r.db.WithContext(ctx).Save(qr).Error
}

// GetByID loads a QR joined with its bank account. Callers decide whether a
// miss is NotFound; this read is also used by the unauthenticated payer page.
func (r *repositoryImpl) GetByID(ctx context.Context, qrID uuid.UUID) (*models.QrCode, error) {
	var qr models.QrCode
	err := r.db.WithContext(ctx).
		Preload("BankAccount").
		First(&qr, "qr_id = ?", qrID).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &qr, nil
}

func (r *repositoryImpl) GetOwnedByName(ctx context.Context, ownerID uuid.UUID, qrName string) (*models.QrCode, error) {
	var qr models.QrCode
	err := r.db.WithContext(ctx).
		Preload("BankAccount").
		First(&qr, "owner_id = ? AND qr_name = ?", ownerID, qrName).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &qr, nil
}

func (r *repositoryImpl) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.QrCode, error) {
	var qrs []models.QrCode
	err := r.db.WithContext(ctx).
		Preload("BankAccount").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&qrs).Error
	if err != nil {
		return nil, err
	}
	return qrs, nil
}

func (r *repositoryImpl) Delete(ctx context.Context, qrID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.QrCode{}, "qr_id = ?", qrID).Error
}

func (r *repositoryImpl) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.QrCode{}, "owner_id = ?", ownerID).Error
}
