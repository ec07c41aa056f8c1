// Package notifications records payer-side "I paid" taps against a QR code
// and lists them back to the owning merchant.
package notifications

import (
	"context"
	"time"

	"github.com/chackchack-dev/chackchack-backend/pkg/db/models"
	"github.com/chackchack-dev/chackchack-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes persistence helpers for payment notifications.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, notification *models.PaymentNotification) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID, after *pagination.Cursor, limit int) ([]models.PaymentNotification, error)
	DeleteByOwner(ctx context.Context, ownerID uuid.UUID) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a notifications repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, notification *models.PaymentNotification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

// ListByOwner joins through the QR code so merchants only see notifications
// for codes they own, newest first. The cursor points at the last row of the
// previous page; the id tiebreak keeps ordering stable for equal timestamps.
func (r *repositoryImpl) ListByOwner(ctx context.Context, ownerID uuid.UUID, after *pagination.Cursor, limit int) ([]models.PaymentNotification, error) {
	query := r.db.WithContext(ctx).
		Preload("QrCode").
		Preload("QrCode.BankAccount").
		Joins("JOIN qr_codes ON qr_codes.qr_id = payment_notifications.qr_id").
		Where("qr_codes.owner_id = ?", ownerID).
		Order("payment_notifications.notified_at DESC").
		Order("payment_notifications.notification_id DESC")
	if after != nil {
		query = query.Where(
			"payment_notifications.notified_at < ? OR (payment_notifications.notified_at = ? AND payment_notifications.notification_id < ?)",
			after.CreatedAt, after.CreatedAt, after.ID,
		)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var notifications []models.PaymentNotification
	if err := query.Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// DeleteOlderThan purges notifications whose notified_at falls before the
// cutoff. Used by the retention job.
func (r *repositoryImpl) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("notified_at < ?", cutoff).
		Delete(&models.PaymentNotification{})
	return result.RowsAffected, result.Error
}

func (r *repositoryImpl) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("qr_id IN (?)", r.db.Model(&models.QrCode{}).Select("qr_id").Where("owner_id = ?", ownerID)).
		Delete(&models.PaymentNotification{}).Error
}
