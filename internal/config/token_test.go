package config

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func TestInspectToken(t *testing.T) {
	issued := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	expires := issued.Add(time.Hour)
	token := signedToken(t, jwt.RegisteredClaims{
		Subject:   "member-1",
		Issuer:    "store",
		Audience:  jwt.ClaimStrings{"cli"},
		IssuedAt:  jwt.NewNumericDate(issued),
		ExpiresAt: jwt.NewNumericDate(expires),
	})

	info, err := InspectToken(token)
	if err != nil {
		t.Fatalf("InspectToken: %v", err)
	}
	if info.Subject != "member-1" || info.Issuer != "store" || len(info.Audience) != 1 {
		t.Fatalf("unexpected claims %+v", info)
	}
	if info.ExpiresAt == nil || !info.ExpiresAt.Equal(expires) {
		t.Fatalf("ExpiresAt = %v, want %v", info.ExpiresAt, expires)
	}
	if info.Expired(issued) {
		t.Fatal("token should be valid at issue time")
	}
	if !info.Expired(expires.Add(time.Second)) {
		t.Fatal("token should be expired after exp")
	}
}

func TestInspectToken_ExpiredStillDecodes(t *testing.T) {
	token := signedToken(t, jwt.RegisteredClaims{
		Subject:   "member-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	info, err := InspectToken(token)
	if err != nil {
		t.Fatalf("expired tokens should still decode: %v", err)
	}
	if !info.Expired(time.Now()) {
		t.Fatal("expected expired")
	}
}

func TestInspectToken_Opaque(t *testing.T) {
	if _, err := InspectToken("opaque-api-key"); err == nil {
		t.Fatal("expected error for non-JWT token")
	}
	info := &TokenInfo{}
	if info.Expired(time.Now()) {
		t.Fatal("token without exp never expires")
	}
}
