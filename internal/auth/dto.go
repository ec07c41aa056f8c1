package auth

import (
	"time"

	"github.com/chackchack-dev/chackchack-backend/pkg/db/models"
)

// LoginResult pairs the persisted owner with a freshly minted access token.
type LoginResult struct {
	Owner       *models.Owner `json:"owner"`
	AccessToken string        `json:"accessToken"`
}

// SocialLoginDTO holds the profile data forwarded by the mobile client after
// the OAuth vendor handshake. The backend never talks to the vendor itself.
type SocialLoginDTO struct {
	Email        string
	Nickname     string
	AuthProvider string
	DeviceToken  *string
}

// PrivacyConsentStatus reports the owner's current consent state.
type PrivacyConsentStatus struct {
	IsPrivacyConsentGiven bool       `json:"isPrivacyConsentGiven"`
	PrivacyConsentDate    *time.Time `json:"privacyConsentDate,omitempty"`
}
