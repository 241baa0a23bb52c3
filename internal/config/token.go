package config

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo is what `store auth status` shows about a bearer token.
// The signature is never checked; the CLI does not hold the signing key.
type TokenInfo struct {
	Subject   string     `json:"subject,omitempty"`
	Issuer    string     `json:"issuer,omitempty"`
	Audience  []string   `json:"audience,omitempty"`
	IssuedAt  *time.Time `json:"issued_at,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Expired reports whether the token carries an expiry before now.
func (t *TokenInfo) Expired(now time.Time) bool {
	return t.ExpiresAt != nil && t.ExpiresAt.Before(now)
}

// InspectToken decodes JWT claims without verification. Opaque tokens
// return an error; callers treat that as "not a JWT".
func InspectToken(token string) (*TokenInfo, error) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, fmt.Errorf("token is not a JWT: %w", err)
	}
	info := &TokenInfo{
		Subject:  claims.Subject,
		Issuer:   claims.Issuer,
		Audience: claims.Audience,
	}
	if claims.IssuedAt != nil {
		t := claims.IssuedAt.Time
		info.IssuedAt = &t
	}
	if claims.ExpiresAt != nil {
		t := claims.ExpiresAt.Time
		info.ExpiresAt = &t
	}
	return info, nil
}
