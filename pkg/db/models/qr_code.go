package models

import (
	"time"

	dbtypes "github.com/chackchack-dev/chackchack-backend/pkg/db/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QrCode is a named payment-request template bound to one BankAccount. The
// discount columns stay free text plus numeric so old client payloads keep
// round-tripping; interpretation happens in the paylink package.
type QrCode struct {
	QrID            uuid.UUID        `gorm:"column:qr_id;type:uuid;primaryKey" json:"qrId"`
	OwnerID         uuid.UUID        `gorm:"column:owner_id;type:uuid;not null;index" json:"ownerId"`
	AccountID       uuid.UUID        `gorm:"column:account_id;type:uuid;not null" json:"accountId"`
	QrName          string           `gorm:"column:qr_name;not null" json:"qrName"`
	BaseAmount      *decimal.Decimal `gorm:"column:base_amount;type:numeric(10,2)" json:"baseAmount,omitempty"`
	DiscountType    *string          `gorm:"column:discount_type" json:"discountType,omitempty"`
	DiscountValue   *decimal.Decimal `gorm:"column:discount_value;type:numeric(10,2)" json:"discountValue,omitempty"`
	StyleConfigJSON dbtypes.JSONMap  `gorm:"column:style_config_json;type:jsonb" json:"styleConfigJson,omitempty"`
	CreatedAt       time.Time        `gorm:"column:created_at;autoCreateTime" json:"createdAt"`

	BankAccount *BankAccount `gorm:"foreignKey:AccountID;references:AccountID" json:"bankAccount,omitempty"`
}

func (QrCode) TableName() string {
	return "qr_codes"
}
