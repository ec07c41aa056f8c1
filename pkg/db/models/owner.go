package models

import (
	"time"

	"github.com/chackchack-dev/chackchack-backend/pkg/enums"
	"github.com/google/uuid"
)

// Owner is an app user: either a guest identified by a device token or a
// socially authenticated account.
type Owner struct {
	OwnerID               uuid.UUID          `gorm:"column:owner_id;type:uuid;primaryKey" json:"ownerId"`
	DeviceToken           *string            `gorm:"column:device_token" json:"deviceToken,omitempty"`
	Email                 *string            `gorm:"column:email" json:"email,omitempty"`
	Nickname              *string            `gorm:"column:nickname" json:"nickname,omitempty"`
	AuthProvider          enums.AuthProvider `gorm:"column:auth_provider" json:"authProvider"`
	IsPrivacyConsentGiven bool               `gorm:"column:is_privacy_consent_given;not null;default:false" json:"isPrivacyConsentGiven"`
	PrivacyConsentDate    *time.Time         `gorm:"column:privacy_consent_date" json:"privacyConsentDate,omitempty"`
	CreatedAt             time.Time          `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	LastLoginAt           time.Time          `gorm:"column:last_login_at;autoUpdateTime" json:"lastLoginAt"`
}

func (Owner) TableName() string {
	return "owners"
}
