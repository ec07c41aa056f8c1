// Package accounts manages an owner's payout bank accounts.
package accounts

import (
	"context"
	stderrors "errors"

	"github.com/chackchack-dev/chackchack-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes persistence helpers for bank accounts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, account *models.BankAccount) error
	Save(ctx context.Context, account *models.BankAccount) error
	GetOwned(ctx context.Context, ownerID, accountID uuid.UUID) (*models.BankAccount, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.BankAccount, error)
	FindByTriple(ctx context.Context, ownerID uuid.UUID, bankName, accountNumber, accountHolder string) (*models.BankAccount, error)
	ClearDefault(ctx context.Context, ownerID uuid.UUID) error
	Delete(ctx context.Context, ownerID, accountID uuid.UUID) (int64, error)
	DeleteByOwner(ctx context.Context, ownerID uuid.UUID) error
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a bank account repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, account *models.BankAccount) error {
	return r.db.WithContext(ctx).Create(account).Error
}

func (r *repositoryImpl) Save(ctx context.Context, account *models.BankAccount) error {
	return r.db.WithContext(ctx).Save(account).Error
}

func (r *repositoryImpl) GetOwned(ctx context.Context, ownerID, accountID uuid.UUID) (*models.BankAccount, error) {
	var account models.BankAccount
	err := r.db.WithContext(ctx).
		First(&account, "account_id = ? AND owner_id = ?", accountID, ownerID).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *repositoryImpl) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.BankAccount, error) {
	var accounts []models.BankAccount
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("is_default DESC").
		Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *repositoryImpl) FindByTriple(ctx context.Context, ownerID uuid.UUID, bankName, accountNumber, accountHolder string) (*models.BankAccount, error) {
	var account models.BankAccount
	err := r.db.WithContext(ctx).
		First(&account,
			"owner_id = ? AND bank_name = ? AND account_number = ? AND account_holder = ?",
			ownerID, bankName, accountNumber, accountHolder).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *repositoryImpl) ClearDefault(ctx context.Context, ownerID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.BankAccount{}).
		Where("owner_id = ?", ownerID).
		Update("is_default", false).Error
}

func (r *repositoryImpl) Delete(ctx context.Context, ownerID, accountID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Delete(&models.BankAccount{}, "account_id = ? AND owner_id = ?", accountID, ownerID)
	return result.RowsAffected, result.Error
}

func (r *repositoryImpl) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&models.BankAccount{}, "owner_id = ?", ownerID).Error
}
