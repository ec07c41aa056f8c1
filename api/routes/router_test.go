package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chackchack-dev/chackchack-backend/api/controllers"
	"github.com/chackchack-dev/chackchack-backend/internal/accounts"
	"github.com/chackchack-dev/chackchack-backend/internal/auth"
	"github.com/chackchack-dev/chackchack-backend/internal/notifications"
	"github.com/chackchack-dev/chackchack-backend/internal/owners"
	"github.com/chackchack-dev/chackchack-backend/internal/qrcodes"
	"github.com/chackchack-dev/chackchack-backend/pkg/config"
	"github.com/chackchack-dev/chackchack-backend/pkg/db"
	"github.com/chackchack-dev/chackchack-backend/pkg/logger"
	"github.com/stretchr/testify/require"
)

var routerTestSchema = []string{
	`CREATE TABLE IF NOT EXISTS owners (
  owner_id TEXT PRIMARY KEY,
  device_token TEXT UNIQUE,
  email TEXT,
  nickname TEXT,
  auth_provider TEXT NOT NULL,
  is_privacy_consent_given INTEGER NOT NULL DEFAULT 0,
  privacy_consent_date DATETIME,
  created_at DATETIME,
  last_login_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS bank_accounts (
  account_id TEXT PRIMARY KEY,
  owner_id TEXT NOT NULL,
  bank_name TEXT NOT NULL,
  account_number TEXT NOT NULL,
  account_holder TEXT NOT NULL,
  is_default INTEGER NOT NULL DEFAULT 0
);`,
	`CREATE TABLE IF NOT EXISTS qr_codes (
  qr_id TEXT PRIMARY KEY,
  owner_id TEXT NOT NULL,
  account_id TEXT NOT NULL,
  qr_name TEXT NOT NULL,
  base_amount NUMERIC,
  discount_type TEXT,
  discount_value NUMERIC,
  style_config_json TEXT,
  created_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS payment_notifications (
  notification_id TEXT PRIMARY KEY,
  qr_id TEXT NOT NULL,
  notified_at DATETIME,
  payer_ip_address TEXT
);`,
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "router-test"})
	client, err := db.New(context.Background(), config.DBConfig{Driver: "sqlite", DSN: ":memory:"}, logg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	for _, stmt := range routerTestSchema {
		require.NoError(t, client.DB().Exec(stmt).Error)
	}

	cfg := &config.Config{
		App: config.AppConfig{Env: "development", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "router-test-secret-32-characters!!",
			Issuer:            "chackchack-test",
			ExpirationMinutes: 60,
		},
		Payment: config.PaymentConfig{BaseURL: "http://localhost:3000", QRPixelSize: 128, QRBorderSize: 2},
	}

	ownerRepo := owners.NewRepository(client.DB())
	accountRepo := accounts.NewRepository(client.DB())
	qrRepo := qrcodes.NewRepository(client.DB())
	notifRepo := notifications.NewRepository(client.DB())

	authService, err := auth.NewService(cfg.JWT, client, ownerRepo, accountRepo, qrRepo, notifRepo)
	require.NoError(t, err)
	accountService, err := accounts.NewService(accountRepo)
	require.NoError(t, err)
	qrService, err := qrcodes.NewService(qrRepo, accountRepo, cfg.Payment, logg)
	require.NoError(t, err)
	notifService, err := notifications.NewService(notifRepo, qrRepo)
	require.NoError(t, err)

	return New(Dependencies{
		Config:   cfg,
		Logger:   logg,
		Verifier: authService,

		Health:        controllers.NewHealthController(client, nil, logg),
		Auth:          controllers.NewAuthController(authService, logg),
		Accounts:      controllers.NewAccountsController(accountService, logg),
		QrCodes:       controllers.NewQrCodesController(qrService, logg),
		Notifications: controllers.NewNotificationsController(notifService, logg),
	})
}

func doJSON(t *testing.T, handler http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var envelope struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Data, "unexpected error response: %s", rec.Body.String())
	return envelope.Data
}

func registerGuest(t *testing.T, handler http.Handler) string {
	t.Helper()

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/auth/guest", "", map[string]any{})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	data := decodeData(t, rec)
	token, _ := data["accessToken"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestHealthEndpoints(t *testing.T) {
	handler := newTestServer(t)

	rec := doJSON(t, handler, http.MethodGet, "/health/live", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/health/ready", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestPayRedirectPreservesQuery(t *testing.T) {
	handler := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/pay?bank=Kookmin&account=123&holder=Kim", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/payer.html?bank=Kookmin&account=123&holder=Kim", rec.Header().Get("Location"))
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	handler := newTestServer(t)

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/accounts"},
		{http.MethodGet, "/api/v1/qrcodes"},
		{http.MethodGet, "/api/v1/notifications"},
		{http.MethodPost, "/api/v1/auth/logout"},
	} {
		rec := doJSON(t, handler, tc.method, tc.path, "", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestGuestQrLifecycleOverHTTP(t *testing.T) {
	handler := newTestServer(t)
	token := registerGuest(t, handler)

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/accounts", token, map[string]any{
		"bankName":      "Kookmin",
		"accountNumber": "110-123-456789",
		"accountHolder": "Kim",
		"isDefault":     true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	accountID, _ := decodeData(t, rec)["accountId"].(string)
	require.NotEmpty(t, accountID)

	rec = doJSON(t, handler, http.MethodPost, "/api/v1/qrcodes", token, map[string]any{
		"accountId":  accountID,
		"qrName":     "Lunch Special",
		"baseAmount": "9000",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeData(t, rec)
	qrID, _ := created["qrId"].(string)
	require.NotEmpty(t, qrID)
	image, _ := created["qrCodeImage"].(string)
	require.Contains(t, image, "data:image/png;base64,")

	// The payer page fetches the QR without a session.
	rec = doJSON(t, handler, http.MethodGet, fmt.Sprintf("/api/v1/qrcodes/%s", qrID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// And reports the scan without a session either.
	rec = doJSON(t, handler, http.MethodPost, fmt.Sprintf("/api/v1/notify/%s", qrID), "", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/notifications", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, handler, http.MethodDelete, fmt.Sprintf("/api/v1/qrcodes/%s", qrID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestSyncOverHTTP(t *testing.T) {
	handler := newTestServer(t)
	token := registerGuest(t, handler)

	payload := map[string]any{
		"localQrCodes": []map[string]any{
			{
				"qrId":   "local-1",
				"qrName": "Cafe",
				"bankAccount": map[string]any{
					"bankName":      "Kookmin",
					"accountNumber": "110-123-456789",
					"accountHolder": "Kim",
				},
				"baseAmount": "10000",
				"createdAt":  "2025-03-01T09:00:00Z",
			},
		},
	}

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/qrcodes/sync", token, payload)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data := decodeData(t, rec)
	require.Equal(t, float64(1), data["syncedCount"])
	require.Equal(t, float64(0), data["skippedCount"])
}
