package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/google/uuid"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "storefront",
		ExpirationMinutes: 30,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now().UTC()
	userID := uuid.New()
	storeID := uuid.New()

	token, err := MintAccessToken(cfg, now, AccessTokenPayload{
		UserID:  userID,
		Role:    enums.RoleAdmin,
		StoreID: &storeID,
		JTI:     "jti-1",
	})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}

	if claims.UserID != userID {
		t.Fatalf("expected user_id %s, got %s", userID, claims.UserID)
	}
	if claims.StoreID == nil || *claims.StoreID != storeID {
		t.Fatalf("store id not preserved")
	}
	if claims.Role != enums.RoleAdmin {
		t.Fatalf("unexpected role %s", claims.Role)
	}
	if claims.ID != "jti-1" {
		t.Fatalf("expected jti-1, got %s", claims.ID)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("expected issuer %s, got %s", cfg.Issuer, claims.Issuer)
	}

	exp := now.Add(30 * time.Minute)
	diff := claims.ExpiresAt.Sub(exp)
	if diff < 0 {
		diff = -diff
	}
	if diff >= time.Second {
		t.Fatalf("expected exp roughly %v, got %v", exp, claims.ExpiresAt.UTC())
	}
}

func TestMintRejectsAdminWithoutStore(t *testing.T) {
	if _, err := MintAccessToken(testJWTConfig(), time.Now(), AccessTokenPayload{UserID: uuid.New(), Role: enums.RoleAdmin}); err == nil {
		t.Fatal("expected error for admin without store")
	}
	if _, err := MintAccessToken(testJWTConfig(), time.Now(), AccessTokenPayload{UserID: uuid.New(), Role: enums.RoleRoot}); err != nil {
		t.Fatalf("root tokens need no store: %v", err)
	}
}

func TestParseAccessTokenInvalidSignature(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: uuid.New(), Role: enums.RoleRoot})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	other := cfg
	other.Secret = "different"
	if _, err := ParseAccessToken(other, token); err == nil {
		t.Fatal("expected signature failure")
	}
}

func TestParseExpiredToken(t *testing.T) {
	cfg := testJWTConfig()
	past := time.Now().Add(-2 * time.Hour)
	token, err := MintAccessToken(cfg, past, AccessTokenPayload{UserID: uuid.New(), Role: enums.RoleRoot, JTI: "old"})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	if _, err := ParseAccessToken(cfg, token); err == nil || !strings.Contains(err.Error(), "expired") {
		t.Fatalf("expected expiry error, got %v", err)
	}

	claims, err := ParseAccessTokenAllowExpired(cfg, token)
	if err != nil {
		t.Fatalf("allow expired parse: %v", err)
	}
	if claims.ID != "old" {
		t.Fatalf("expected jti old, got %s", claims.ID)
	}
}
