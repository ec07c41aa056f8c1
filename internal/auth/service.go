// Package auth implements guest and social identity plus the owner lifecycle
// operations hanging off it (logout, privacy consent, account deletion).
package auth

import (
	"context"
	"time"

	"github.com/chackchack-dev/chackchack-backend/internal/accounts"
	"github.com/chackchack-dev/chackchack-backend/internal/notifications"
	"github.com/chackchack-dev/chackchack-backend/internal/owners"
	"github.com/chackchack-dev/chackchack-backend/internal/qrcodes"
	pkgauth "github.com/chackchack-dev/chackchack-backend/pkg/auth"
	"github.com/chackchack-dev/chackchack-backend/pkg/config"
	"github.com/chackchack-dev/chackchack-backend/pkg/db"
	"github.com/chackchack-dev/chackchack-backend/pkg/db/models"
	"github.com/chackchack-dev/chackchack-backend/pkg/enums"
	pkgerrors "github.com/chackchack-dev/chackchack-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service defines identity and owner lifecycle operations.
type Service interface {
	RegisterGuest(ctx context.Context, deviceToken *string) (*LoginResult, error)
	SocialLogin(ctx context.Context, dto SocialLoginDTO) (*LoginResult, error)
	ValidateOwner(ctx context.Context, ownerID uuid.UUID) (*models.Owner, error)
	Logout(ctx context.Context, ownerID uuid.UUID) error
	GivePrivacyConsent(ctx context.Context, ownerID uuid.UUID) (*PrivacyConsentStatus, error)
	PrivacyConsent(ctx context.Context, ownerID uuid.UUID) (*PrivacyConsentStatus, error)
	DeleteAccount(ctx context.Context, ownerID uuid.UUID) error
}

type service struct {
	jwtCfg      config.JWTConfig
	dbClient    *db.Client
	ownerRepo   owners.Repository
	accountRepo accounts.Repository
	qrRepo      qrcodes.Repository
	notifRepo   notifications.Repository
}

// NewService wires auth dependencies.
func NewService(
	jwtCfg config.JWTConfig,
	dbClient *db.Client,
	ownerRepo owners.Repository,
	accountRepo accounts.Repository,
	qrRepo qrcodes.Repository,
	notifRepo notifications.Repository,
) (Service, error) {
	if dbClient == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "database client required")
	}
	if ownerRepo == nil || accountRepo == nil || qrRepo == nil || notifRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "auth repositories required")
	}
	return &service{
		jwtCfg:      jwtCfg,
		dbClient:    dbClient,
		ownerRepo:   ownerRepo,
		accountRepo: accountRepo,
		qrRepo:      qrRepo,
		notifRepo:   notifRepo,
	}, nil
}

// RegisterGuest creates an owner identified only by a device token. Clients
// that cannot produce a stable token get a generated one back in the JWT.
func (s *service) RegisterGuest(ctx context.Context, deviceToken *string) (*LoginResult, error) {
	token := uuid.NewString()
	if deviceToken != nil && *deviceToken != "" {
		token = *deviceToken
	}

	owner := &models.Owner{
		OwnerID:      uuid.New(),
		DeviceToken:  &token,
		AuthProvider: enums.AuthProviderGuest,
	}
	if err := s.ownerRepo.Create(ctx, owner); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "device already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating guest owner")
	}

	return s.mint(owner)
}

// SocialLogin finds or creates the owner keyed by (email, provider). Revisits
// refresh lastLoginAt and, when supplied, the device token.
func (s *service) SocialLogin(ctx context.Context, dto SocialLoginDTO) (*LoginResult, error) {
	provider, err := enums.ParseAuthProvider(dto.AuthProvider)
	if err != nil || !provider.IsSocial() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported auth provider")
	}
	if dto.Email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email required")
	}

	owner, err := s.ownerRepo.GetByEmailAndProvider(ctx, dto.Email, string(provider))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "looking up owner")
	}

	if owner == nil {
		owner = &models.Owner{
			OwnerID:      uuid.New(),
			Email:        &dto.Email,
			AuthProvider: provider,
			DeviceToken:  dto.DeviceToken,
		}
		if dto.Nickname != "" {
			owner.Nickname = &dto.Nickname
		}
		if err := s.ownerRepo.Create(ctx, owner); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating owner")
		}
	} else {
		owner.LastLoginAt = time.Now().UTC()
		if dto.DeviceToken != nil && *dto.DeviceToken != "" {
			owner.DeviceToken = dto.DeviceToken
		}
		if err := s.ownerRepo.Save(ctx, owner); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating owner")
		}
	}

	return s.mint(owner)
}

// ValidateOwner confirms the token subject still exists. Deleted owners keep
// carrying syntactically valid JWTs until expiry, so every authenticated
// request re-checks existence.
func (s *service) ValidateOwner(ctx context.Context, ownerID uuid.UUID) (*models.Owner, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid owner")
	}
	owner, err := s.ownerRepo.GetByID(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading owner")
	}
	if owner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid owner")
	}
	return owner, nil
}

// Logout is stateless; the token stays valid until expiry. The last login
// timestamp doubles as a logout marker.
func (s *service) Logout(ctx context.Context, ownerID uuid.UUID) error {
	if ownerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid owner")
	}
	if err := s.ownerRepo.TouchLastLogin(ctx, ownerID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recording logout")
	}
	return nil
}

func (s *service) GivePrivacyConsent(ctx context.Context, ownerID uuid.UUID) (*PrivacyConsentStatus, error) {
	owner, err := s.ValidateOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	owner.IsPrivacyConsentGiven = true
	owner.PrivacyConsentDate = &now
	if err := s.ownerRepo.Save(ctx, owner); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving privacy consent")
	}

	return &PrivacyConsentStatus{
		IsPrivacyConsentGiven: owner.IsPrivacyConsentGiven,
		PrivacyConsentDate:    owner.PrivacyConsentDate,
	}, nil
}

func (s *service) PrivacyConsent(ctx context.Context, ownerID uuid.UUID) (*PrivacyConsentStatus, error) {
	owner, err := s.ValidateOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return &PrivacyConsentStatus{
		IsPrivacyConsentGiven: owner.IsPrivacyConsentGiven,
		PrivacyConsentDate:    owner.PrivacyConsentDate,
	}, nil
}

// DeleteAccount removes the owner and everything hanging off them inside one
// transaction: notifications, then qr codes, then bank accounts, then the
// owner row. Any failure rolls the whole thing back.
func (s *service) DeleteAccount(ctx context.Context, ownerID uuid.UUID) error {
	if _, err := s.ValidateOwner(ctx, ownerID); err != nil {
		return err
	}

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.notifRepo.WithTx(tx).DeleteByOwner(ctx, ownerID); err != nil {
			return err
		}
		if err := s.qrRepo.WithTx(tx).DeleteByOwner(ctx, ownerID); err != nil {
			return err
		}
		if err := s.accountRepo.WithTx(tx).DeleteByOwner(ctx, ownerID); err != nil {
			return err
		}
		return s.ownerRepo.WithTx(tx).Delete(ctx, ownerID)
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting account")
	}
	return nil
}

func (s *service) mint(owner *models.Owner) (*LoginResult, error) {
	token, err := pkgauth.MintAccessToken(s.jwtCfg, time.Now().UTC(), pkgauth.AccessTokenPayload{
		OwnerID:     owner.OwnerID,
		Provider:    owner.AuthProvider,
		Email:       owner.Email,
		DeviceToken: owner.DeviceToken,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting access token")
	}
	return &LoginResult{Owner: owner, AccessToken: token}, nil
}
