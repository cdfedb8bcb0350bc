// Package token inspects upstream-issued bearer tokens. The upstream signs
// and verifies its own tokens; this side only reads claims it needs for
// display and expiry bookkeeping, so parsing is deliberately unverified.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenMalformed = errors.New("token is malformed")
)

// Claims carries the subset of upstream claims the panel reads
type Claims struct {
	Subject string `json:"sub"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

// Peek extracts claims from a bearer token without verifying its signature.
func Peek(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}

// ExpiresAt returns the token expiry, or zero time when the claim is absent
// or the token is unreadable.
func ExpiresAt(tokenString string) time.Time {
	claims, err := Peek(tokenString)
	if err != nil || claims.RegisteredClaims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.RegisteredClaims.ExpiresAt.Time
}

// ExpiringWithin reports whether the token expires within the given slack.
// Tokens with no expiry claim never report as expiring.
func ExpiringWithin(tokenString string, slack time.Duration) bool {
	exp := ExpiresAt(tokenString)
	if exp.IsZero() {
		return false
	}
	return time.Until(exp) < slack
}
