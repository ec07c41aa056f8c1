package controllers

import (
	"net/http"

	"github.com/chackchack-dev/chackchack-backend/api/responses"
	"github.com/chackchack-dev/chackchack-backend/api/validators"
	"github.com/chackchack-dev/chackchack-backend/internal/auth"
	"github.com/chackchack-dev/chackchack-backend/pkg/logger"
)

// AuthController serves guest registration, social login, and account lifecycle.
type AuthController struct {
	svc  auth.Service
	logg *logger.Logger
}

func NewAuthController(svc auth.Service, logg *logger.Logger) *AuthController {
	return &AuthController{svc: svc, logg: logg}
}

type guestRequest struct {
	DeviceToken *string `json:"deviceToken" validate:"omitempty,min=1,max=512"`
}

type loginRequest struct {
	Email        string  `json:"email" validate:"required,email"`
	Nickname     string  `json:"nickname" validate:"required,min=1,max=100"`
	AuthProvider string  `json:"authProvider" validate:"required,oneof=kakao google naver apple"`
	DeviceToken  *string `json:"deviceToken" validate:"omitempty,min=1,max=512"`
}

// RegisterGuest creates an anonymous owner and returns a token for it.
func (c *AuthController) RegisterGuest(w http.ResponseWriter, r *http.Request) {
	var req guestRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	result, err := c.svc.RegisterGuest(r.Context(), req.DeviceToken)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccessStatus(w, http.StatusCreated, result)
}

// Login finds or creates a socially authenticated owner.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	result, err := c.svc.SocialLogin(r.Context(), auth.SocialLoginDTO{
		Email:        req.Email,
		Nickname:     req.Nickname,
		AuthProvider: req.AuthProvider,
		DeviceToken:  req.DeviceToken,
	})
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, result)
}

// Logout records the session end; tokens stay valid until expiry.
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	ownerID, err := ownerFromRequest(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	if err := c.svc.Logout(r.Context(), ownerID); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, map[string]string{"message": "logged out"})
}

// PrivacyConsent returns the owner's current consent status.
func (c *AuthController) PrivacyConsent(w http.ResponseWriter, r *http.Request) {
	ownerID, err := ownerFromRequest(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	status, err := c.svc.PrivacyConsent(r.Context(), ownerID)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, status)
}

// GivePrivacyConsent records consent with the current timestamp.
func (c *AuthController) GivePrivacyConsent(w http.ResponseWriter, r *http.Request) {
	ownerID, err := ownerFromRequest(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	status, err := c.svc.GivePrivacyConsent(r.Context(), ownerID)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, status)
}

// DeleteAccount removes the owner and everything hanging off it.
func (c *AuthController) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	ownerID, err := ownerFromRequest(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	if err := c.svc.DeleteAccount(r.Context(), ownerID); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, map[string]string{"message": "account deleted"})
}
