package models

import (
	"github.com/google/uuid"
)

// BankAccount is a payout destination owned by an Owner. At most one account
// per owner carries is_default = true; setting a new default clears the rest.
type BankAccount struct {
	AccountID     uuid.UUID `gorm:"column:account_id;type:uuid;primaryKey" json:"accountId"`
	OwnerID       uuid.UUID `gorm:"column:owner_id;type:uuid;not null;index" json:"ownerId"`
	BankName      string    `gorm:"column:bank_name;not null" json:"bankName"`
	AccountNumber string    `gorm:"column:account_number;not null" json:"accountNumber"`
	AccountHolder string    `gorm:"column:account_holder;not null" json:"accountHolder"`
	IsDefault     bool      `gorm:"column:is_default;not null;default:false" json:"isDefault"`
}

func (BankAccount) TableName() string {
	return "bank_accounts"
}
