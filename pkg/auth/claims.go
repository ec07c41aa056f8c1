package auth

import (
	"github.com/chackchack-dev/chackchack-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	OwnerID     uuid.UUID
	Provider    enums.AuthProvider
	Email       *string
	DeviceToken *string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	OwnerID     uuid.UUID          `json:"owner_id"`
	Provider    enums.AuthProvider `json:"auth_provider"`
	Email       *string            `json:"email,omitempty"`
	DeviceToken *string            `json:"device_token,omitempty"`
	jwt.RegisteredClaims
}
