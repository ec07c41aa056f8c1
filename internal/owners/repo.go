// Package owners persists app users: guests identified by a device token and
// socially authenticated accounts.
package owners

import (
	"context"
	stderrors "errors"

	"github.com/chackchack-dev/chackchack-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes persistence helpers for owners.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, owner *models.Owner) error
	GetByID(ctx context.Context, ownerID uuid.UUID) (*models.Owner, error)
	GetByDeviceToken(ctx context.Context, deviceToken string) (*models.Owner, error)
	GetByEmailAndProvider(ctx context.Context, email, provider string) (*models.Owner, error)
	Save(ctx context.Context, owner *models.Owner) error
	TouchLastLogin(ctx context.Context, ownerID uuid.UUID) error
	Delete(ctx context.Context, ownerID uuid.UUID) error
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an owners repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, owner *models.Owner) error {
	return r.db.WithContext(ctx).Create(owner).Error
}

func (r *repositoryImpl) GetByID(ctx context.Context, ownerID uuid.UUID) (*models.Owner, error) {
	var owner models.Owner
	err := r.db.WithContext(ctx).First(&owner, "owner_id = ?", ownerID).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &owner, nil
}

func (r *repositoryImpl) GetByDeviceToken(ctx context.Context, deviceToken string) (*models.Owner, error) {
	var owner models.Owner
	err := r.db.WithContext(ctx).First(&owner, "device_token = ?", deviceToken).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &owner, nil
}

func (r *repositoryImpl) GetByEmailAndProvider(ctx context.Context, email, provider string) (*models.Owner, error) {
	var owner models.Owner
	err := r.db.WithContext(ctx).
		First(&owner, "email = ? AND auth_provider = ?", email, provider).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &owner, nil
}

func (r *repositoryImpl) Save(ctx context.Context, owner *models.Owner) error {
	return r.db.WithContext(ctx).Save(owner).Error
}

func (r *repositoryImpl) TouchLastLogin(ctx context.Context, ownerID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Owner{}).
		Where("owner_id = ?", ownerID).
		Update("last_login_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
}

func (r *repositoryImpl) Delete(ctx context.Context, ownerID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Owner{}, "owner_id = ?", ownerID).Error
}
