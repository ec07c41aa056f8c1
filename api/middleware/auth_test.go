package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkgauth "github.com/chackchack-dev/chackchack-backend/pkg/auth"
	"github.com/chackchack-dev/chackchack-backend/pkg/config"
	"github.com/chackchack-dev/chackchack-backend/pkg/db/models"
	"github.com/chackchack-dev/chackchack-backend/pkg/enums"
	pkgerrors "github.com/chackchack-dev/chackchack-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type stubVerifier struct {
	owner *models.Owner
	err   error
}

func (s *stubVerifier) ValidateOwner(ctx context.Context, ownerID uuid.UUID) (*models.Owner, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.owner, nil
}

func authTestConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Issuer: "chackchack", ExpirationMinutes: 60}
}

func mintTestToken(t *testing.T, cfg config.JWTConfig, ownerID uuid.UUID) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg, time.Now(), pkgauth.AccessTokenPayload{
		OwnerID:  ownerID,
		Provider: enums.AuthProviderGuest,
	})
	require.NoError(t, err)
	return token
}

func TestAuthSeedsOwnerContext(t *testing.T) {
	cfg := authTestConfig()
	ownerID := uuid.New()
	token := mintTestToken(t, cfg, ownerID)

	var gotOwner, gotProvider string
	handler := Auth(cfg, &stubVerifier{owner: &models.Owner{OwnerID: ownerID}}, nil)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotOwner = OwnerIDFromContext(r.Context())
			gotProvider = ProviderFromContext(r.Context())
			w.WriteHeader(http.StatusNoContent)
		}),
	)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/qrcodes", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, ownerID.String(), gotOwner)
	require.Equal(t, string(enums.AuthProviderGuest), gotProvider)
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	handler := Auth(authTestConfig(), &stubVerifier{}, nil)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not run")
		}),
	)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/qrcodes", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRejectsGarbageToken(t *testing.T) {
	handler := Auth(authTestConfig(), &stubVerifier{}, nil)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not run")
		}),
	)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/qrcodes", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRejectsVanishedOwner(t *testing.T) {
	cfg := authTestConfig()
	ownerID := uuid.New()
	token := mintTestToken(t, cfg, ownerID)

	verifier := &stubVerifier{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "owner no longer exists")}
	handler := Auth(cfg, verifier, nil)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not run")
		}),
	)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/qrcodes", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRejectsWrongSecret(t *testing.T) {
	ownerID := uuid.New()
	token := mintTestToken(t, config.JWTConfig{Secret: "other-secret", Issuer: "chackchack", ExpirationMinutes: 60}, ownerID)

	handler := Auth(authTestConfig(), &stubVerifier{owner: &models.Owner{OwnerID: ownerID}}, nil)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not run")
		}),
	)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/qrcodes", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
