package security_test

import (
	"testing"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/security"
)

func fastArgon() config.PasswordConfig {
	return config.PasswordConfig{
		MinLength:        8,
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := security.HashPassword("very-secure-password", fastArgon())
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "" {
		t.Fatal("HashPassword returned empty string")
	}

	ok, err := security.VerifyPassword("very-secure-password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error for valid hash: %v", err)
	}
	if !ok {
		t.Fatal("VerifyPassword failed for the correct password")
	}

	ok, err = security.VerifyPassword("bogus-password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error for invalid password: %v", err)
	}
	if ok {
		t.Fatal("VerifyPassword returned true for incorrect password")
	}
}

func TestVerifyPasswordBadHash(t *testing.T) {
	cases := []string{
		"not-a-hash",
		"$argon2id$v=19$m=8192,t=x,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=8192,t=1,p=0$c2FsdA$aGFzaA",
	}
	for _, encoded := range cases {
		if _, err := security.VerifyPassword("irrelevant", encoded); err == nil {
			t.Fatalf("expected error for malformed hash %q", encoded)
		}
	}
}

func TestCheckPasswordPolicy(t *testing.T) {
	cfg := fastArgon()
	if err := security.CheckPasswordPolicy("short", cfg); err == nil {
		t.Fatal("expected short password to be rejected")
	}
	if err := security.CheckPasswordPolicy("        ", cfg); err == nil {
		t.Fatal("expected blank password to be rejected")
	}
	if err := security.CheckPasswordPolicy("long-enough", cfg); err != nil {
		t.Fatalf("unexpected policy error: %v", err)
	}
	if err := security.CheckPasswordPolicy("seven77", config.PasswordConfig{}); err == nil {
		t.Fatal("zero config should fall back to 8 characters")
	}
}

func TestGenerateAndHashToken(t *testing.T) {
	a, err := security.GenerateToken(32)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	b, _ := security.GenerateToken(32)
	if a == b {
		t.Fatal("tokens should be random")
	}
	if security.HashToken(a) != security.HashToken(a) {
		t.Fatal("hash should be deterministic")
	}
	if len(security.HashToken(a)) != 64 {
		t.Fatalf("expected hex sha256, got %d chars", len(security.HashToken(a)))
	}
	if _, err := security.GenerateToken(0); err == nil {
		t.Fatal("zero length should fail")
	}
}
