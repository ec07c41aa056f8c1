package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentNotification records that someone opened a QR's payment link. Rows
// are written by the public notify endpoint and never updated.
type PaymentNotification struct {
	NotificationID uuid.UUID `gorm:"column:notification_id;type:uuid;primaryKey" json:"notificationId"`
	QrID           uuid.UUID `gorm:"column:qr_id;type:uuid;not null;index" json:"qrId"`
	NotifiedAt     time.Time `gorm:"column:notified_at;autoCreateTime" json:"notifiedAt"`
	PayerIPAddress *string   `gorm:"column:payer_ip_address" json:"payerIpAddress,omitempty"`

	QrCode *QrCode `gorm:"foreignKey:QrID;references:QrID" json:"qrCode,omitempty"`
}

func (PaymentNotification) TableName() string {
	return "payment_notifications"
}
