package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/chackchack-dev/chackchack-backend/pkg/config"
	"github.com/stretchr/testify/require"
)

type memoryLimiterStore struct {
	mu     sync.Mutex
	counts map[string]int64
	err    error
}

func newMemoryLimiterStore() *memoryLimiterStore {
	return &memoryLimiterStore{counts: map[string]int64{}}
}

func (s *memoryLimiterStore) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[key]++
	return s.counts[key], nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestRateLimitBlocksAfterIPLimit(t *testing.T) {
	store := newMemoryLimiterStore()
	policy := RateLimitPolicy{Name: "test", Window: time.Minute, IPLimit: 2}
	handler := RateLimit(store, policy, nil)(okHandler())

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/guest", nil)
		req.RemoteAddr = "203.0.113.9:51000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNoContent, rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/guest", nil)
	req.RemoteAddr = "203.0.113.9:51000"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRateLimitSeparatesClientIPs(t *testing.T) {
	store := newMemoryLimiterStore()
	policy := RateLimitPolicy{Name: "test", Window: time.Minute, IPLimit: 1}
	handler := RateLimit(store, policy, nil)(okHandler())

	first := httptest.NewRequest(http.MethodPost, "/api/v1/auth/guest", nil)
	first.RemoteAddr = "203.0.113.1:40000"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, first)
	require.Equal(t, http.StatusNoContent, rec.Code)

	second := httptest.NewRequest(http.MethodPost, "/api/v1/auth/guest", nil)
	second.RemoteAddr = "203.0.113.2:40000"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, second)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRateLimitEmailDimension(t *testing.T) {
	store := newMemoryLimiterStore()
	policy := RateLimitPolicy{Name: "test", Window: time.Minute, EmailLimit: 1}
	var seenBody string
	handler := RateLimit(store, policy, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		seenBody = string(body)
		w.WriteHeader(http.StatusNoContent)
	}))

	payload := `{"email":"User@Example.com","nickname":"kim"}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, payload, seenBody, "body must be rewound for the handler")

	// Case and whitespace variants hash to the same bucket.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":" user@example.com "}`))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRateLimitAllowsWhenStoreFails(t *testing.T) {
	store := newMemoryLimiterStore()
	store.err = errors.New("redis down")
	policy := RateLimitPolicy{Name: "test", Window: time.Minute, IPLimit: 1}
	handler := RateLimit(store, policy, nil)(okHandler())

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/guest", nil)
		req.RemoteAddr = "203.0.113.9:51000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNoContent, rec.Code)
	}
}

func TestRateLimitNilStorePassesThrough(t *testing.T) {
	policy := GuestRateLimitPolicy(config.AuthRateLimitConfig{GuestWindow: time.Minute, GuestIPLimit: 1})
	handler := RateLimit(nil, policy, nil)(okHandler())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/guest", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestClientIPPrefersForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	req.Header.Set("X-Forwarded-For", "198.51.100.7, 10.0.0.1")
	require.Equal(t, "198.51.100.7", clientIP(req))

	req.Header.Del("X-Forwarded-For")
	req.Header.Set("X-Real-IP", "198.51.100.8")
	require.Equal(t, "198.51.100.8", clientIP(req))

	req.Header.Del("X-Real-IP")
	require.Equal(t, "10.0.0.1", clientIP(req))
}
