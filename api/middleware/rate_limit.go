package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/chackchack-dev/chackchack-backend/api/responses"
	"github.com/chackchack-dev/chackchack-backend/pkg/config"
	pkgerrors "github.com/chackchack-dev/chackchack-backend/pkg/errors"
	"github.com/chackchack-dev/chackchack-backend/pkg/logger"
)

// RateLimitPolicy describes a fixed-window limit for one endpoint family.
// A zero limit disables that dimension.
type RateLimitPolicy struct {
	Name       string
	Window     time.Duration
	IPLimit    int64
	EmailLimit int64
}

// GuestRateLimitPolicy throttles anonymous owner creation per source IP.
func GuestRateLimitPolicy(cfg config.AuthRateLimitConfig) RateLimitPolicy {
	return RateLimitPolicy{Name: "auth_guest", Window: cfg.GuestWindow, IPLimit: int64(cfg.GuestIPLimit)}
}

// LoginRateLimitPolicy throttles social logins per IP and per email.
func LoginRateLimitPolicy(cfg config.AuthRateLimitConfig) RateLimitPolicy {
	return RateLimitPolicy{
		Name:       "auth_login",
		Window:     cfg.LoginWindow,
		IPLimit:    int64(cfg.LoginIPLimit),
		EmailLimit: int64(cfg.LoginEmailLimit),
	}
}

// NotifyRateLimitPolicy throttles the public payment-notification endpoint.
func NotifyRateLimitPolicy(cfg config.AuthRateLimitConfig) RateLimitPolicy {
	return RateLimitPolicy{Name: "notify", Window: cfg.NotifyWindow, IPLimit: int64(cfg.NotifyIPLimit)}
}

// RateLimiterStore is the counter backend, satisfied by the redis client.
type RateLimiterStore interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// RateLimit enforces the policy before passing the request along. When the
// store is unavailable the request is allowed; throttling is protection, not
// a dependency.
func RateLimit(store RateLimiterStore, policy RateLimitPolicy, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if store == nil {
				next.ServeHTTP(w, r)
				return
			}

			ip := clientIP(r)
			if policy.IPLimit > 0 && ip != "" {
				key := fmt.Sprintf("chack:rate_limit:%s:ip:%s", policy.Name, hashValue(ip))
				if !allow(r.Context(), store, key, policy.IPLimit, policy.Window, logg) {
					respondRateLimited(r.Context(), logg, w)
					return
				}
			}

			if policy.EmailLimit > 0 {
				email, body := extractEmail(r)
				if body != nil {
					r.Body = io.NopCloser(bytes.NewReader(body))
				}
				if email != "" {
					key := fmt.Sprintf("chack:rate_limit:%s:email:%s", policy.Name, hashValue(email))
					if !allow(r.Context(), store, key, policy.EmailLimit, policy.Window, logg) {
						respondRateLimited(r.Context(), logg, w)
						return
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func allow(ctx context.Context, store RateLimiterStore, key string, limit int64, window time.Duration, logg *logger.Logger) bool {
	count, err := store.IncrWithTTL(ctx, key, window)
	if err != nil {
		if logg != nil {
			logg.Warn(logg.WithFields(ctx, map[string]any{"key": key}), "rate limiter unavailable, allowing request")
		}
		return true
	}
	return count <= limit
}

func respondRateLimited(ctx context.Context, logg *logger.Logger, w http.ResponseWriter) {
	responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many requests"))
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		ip := strings.TrimSpace(parts[0])
		if ip != "" {
			return ip
		}
	}
	if real := strings.TrimSpace(r.Header.Get("X-Real-IP")); real != "" {
		return real
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return host
}

// extractEmail peeks at the JSON body for an email field. The body bytes are
// returned so the caller can rewind the request for the real handler.
func extractEmail(r *http.Request) (string, []byte) {
	if r.Body == nil {
		return "", nil
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	if err != nil {
		return "", body
	}
	var payload struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", body
	}
	return normalizeEmail(payload.Email), body
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
