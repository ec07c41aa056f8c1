package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/chackchack-dev/chackchack-backend/pkg/config"
	"github.com/chackchack-dev/chackchack-backend/pkg/enums"
	"github.com/google/uuid"
)

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "chackchack",
		ExpirationMinutes: 30,
	}
	now := time.Now().UTC()
	ownerID := uuid.New()
	email := "owner@example.com"
	deviceToken := "device-abc"

	payload := AccessTokenPayload{
		OwnerID:     ownerID,
		Provider:    enums.AuthProviderKakao,
		Email:       &email,
		DeviceToken: &deviceToken,
	}

	token, err := MintAccessToken(cfg, now, payload)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}

	if claims.OwnerID != ownerID {
		t.Fatalf("expected owner_id %s, got %s", ownerID, claims.OwnerID)
	}
	if claims.Provider != enums.AuthProviderKakao {
		t.Fatalf("unexpected provider %s", claims.Provider)
	}
	if claims.Email == nil || *claims.Email != email {
		t.Fatalf("email not preserved")
	}
	if claims.DeviceToken == nil || *claims.DeviceToken != deviceToken {
		t.Fatalf("device token not preserved")
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("expected issuer %s, got %s", cfg.Issuer, claims.Issuer)
	}

	exp := now.Add(time.Duration(cfg.ExpirationMinutes) * time.Minute)
	diff := claims.ExpiresAt.Sub(exp)
	if diff < 0 {
		diff = -diff
	}
	if diff >= time.Second {
		t.Fatalf("expected exp roughly %v, got %v (diff %v)", exp.UTC(), claims.ExpiresAt.UTC(), diff)
	}
}

func TestParseAccessTokenInvalidSignature(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "chackchack",
		ExpirationMinutes: 10,
	}
	now := time.Now()

	token, err := MintAccessToken(cfg, now, AccessTokenPayload{
		OwnerID:  uuid.New(),
		Provider: enums.AuthProviderGuest,
	})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	tampered := cfg
	tampered.Secret = "other-secret"
	if _, err := ParseAccessToken(tampered, token); err == nil {
		t.Fatal("expected signature mismatch to fail")
	}
}

func TestParseAccessTokenWrongIssuer(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "chackchack",
		ExpirationMinutes: 10,
	}
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		OwnerID:  uuid.New(),
		Provider: enums.AuthProviderGuest,
	})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	other := cfg
	other.Issuer = "someone-else"
	if _, err := ParseAccessToken(other, token); err == nil {
		t.Fatal("expected issuer mismatch to fail")
	}
}

func TestMintAccessTokenRejectsBadPayload(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "chackchack",
		ExpirationMinutes: 10,
	}

	if _, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		Provider: enums.AuthProviderGuest,
	}); err == nil || !strings.Contains(err.Error(), "owner id") {
		t.Fatalf("expected owner id error, got %v", err)
	}

	if _, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		OwnerID:  uuid.New(),
		Provider: "facebook",
	}); err == nil || !strings.Contains(err.Error(), "auth provider") {
		t.Fatalf("expected provider error, got %v", err)
	}
}
