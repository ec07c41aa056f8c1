package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/chackchack-dev/chackchack-backend/api/responses"
	pkgauth "github.com/chackchack-dev/chackchack-backend/pkg/auth"
	"github.com/chackchack-dev/chackchack-backend/pkg/config"
	"github.com/chackchack-dev/chackchack-backend/pkg/db/models"
	pkgerrors "github.com/chackchack-dev/chackchack-backend/pkg/errors"
	"github.com/chackchack-dev/chackchack-backend/pkg/logger"
	"github.com/google/uuid"
)

// OwnerVerifier re-checks the token subject against the owners table. Deleted
// owners keep carrying valid JWTs until expiry.
type OwnerVerifier interface {
	ValidateOwner(ctx context.Context, ownerID uuid.UUID) (*models.Owner, error)
}

// Auth validates a bearer token and seeds the request context with the claims.
func Auth(cfg config.JWTConfig, verifier OwnerVerifier, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgauth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			if verifier != nil {
				if _, err := verifier.ValidateOwner(r.Context(), claims.OwnerID); err != nil {
					responses.WriteError(r.Context(), logg, w, err)
					return
				}
			}

			ctx := context.WithValue(r.Context(), ctxOwnerID, claims.OwnerID.String())
			ctx = context.WithValue(ctx, ctxProvider, string(claims.Provider))

			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"owner_id":      claims.OwnerID.String(),
					"auth_provider": string(claims.Provider),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
