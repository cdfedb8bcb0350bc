package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte("not-our-secret"))
	require.NoError(t, err)
	return s
}

func TestPeekReadsClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	raw := signed(t, Claims{
		Subject: "mira",
		Role:    "influencer",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})

	claims, err := Peek(raw)
	require.NoError(t, err)
	assert.Equal(t, "mira", claims.Subject)
	assert.Equal(t, "influencer", claims.Role)
	assert.True(t, claims.ExpiresAt.Time.Equal(exp))
}

func TestPeekMalformed(t *testing.T) {
	for _, raw := range []string{"", "garbage", "a.b", "a.b.c"} {
		_, err := Peek(raw)
		assert.ErrorIs(t, err, ErrTokenMalformed, "token %q", raw)
	}
}

func TestExpiresAt(t *testing.T) {
	exp := time.Now().Add(30 * time.Minute).Truncate(time.Second)
	raw := signed(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)})
	assert.True(t, ExpiresAt(raw).Equal(exp))

	noExp := signed(t, jwt.RegisteredClaims{Subject: "mira"})
	assert.True(t, ExpiresAt(noExp).IsZero())

	assert.True(t, ExpiresAt("not-a-token").IsZero())
}

func TestExpiringWithin(t *testing.T) {
	soon := signed(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(30 * time.Second))})
	assert.True(t, ExpiringWithin(soon, time.Minute))
	assert.False(t, ExpiringWithin(soon, time.Second))

	expired := signed(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))})
	assert.True(t, ExpiringWithin(expired, time.Second))

	noExp := signed(t, jwt.RegisteredClaims{Subject: "mira"})
	assert.False(t, ExpiringWithin(noExp, 24*time.Hour))
}
