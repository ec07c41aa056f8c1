package qrcodes

import (
	"github.com/chackchack-dev/chackchack-backend/pkg/db/models"
	dbtypes "github.com/chackchack-dev/chackchack-backend/pkg/db/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateQrCodeDTO holds creation and update data for a QR record. Updates use
// the same full shape; the owner field itself is immutable.
type CreateQrCodeDTO struct {
	AccountID     uuid.UUID
	QrName        string
	BaseAmount    *decimal.Decimal
	DiscountType  *string
	DiscountValue *decimal.Decimal
	StyleConfig   dbtypes.JSONMap
}

// QrCodeWithImage is a QR record plus its rendered image data URL.
type QrCodeWithImage struct {
	models.QrCode
	QrCodeImage string `json:"qrCodeImage"`
}

// LocalBankAccount is the embedded account snapshot a client-held record
// carries before any server account exists.
type LocalBankAccount struct {
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
	AccountHolder string `json:"accountHolder"`
}

// LocalQrRecord is one client-held unsynced record.
type LocalQrRecord struct {
	QrID          string           `json:"qrId"`
	QrName        string           `json:"qrName"`
	BankAccount   LocalBankAccount `json:"bankAccount"`
	BaseAmount    *decimal.Decimal `json:"baseAmount,omitempty"`
	DiscountType  *string          `json:"discountType,omitempty"`
	DiscountValue *decimal.Decimal `json:"discountValue,omitempty"`
	CreatedAt     string           `json:"createdAt"`
}

// SyncResult reports what one sync call did.
type SyncResult struct {
	Message      string          `json:"message"`
	SyncedCount  int             `json:"syncedCount"`
	SkippedCount int             `json:"skippedCount"`
	AllQrCodes   []models.QrCode `json:"allQrCodes"`
}
