package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuerRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	issued, err := issuer.Issue("64b7f0c2a1b2c3d4e5f60718", "driver")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", issued.TokenType)
	assert.Equal(t, int64(3600), issued.ExpiresIn)
	assert.NotEmpty(t, issued.TokenID)

	claims, err := issuer.Validate(issued.Token)
	require.NoError(t, err)
	assert.Equal(t, "64b7f0c2a1b2c3d4e5f60718", claims.ID)
	assert.Equal(t, "64b7f0c2a1b2c3d4e5f60718", claims.Subject)
	assert.Equal(t, "driver", claims.Role)
	assert.Equal(t, issued.TokenID, claims.RegisteredClaims.ID)
}

func TestTokenIssuerRejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Minute)
	start := time.Now()
	issuer.now = func() time.Time { return start }

	issued, err := issuer.Issue("64b7f0c2a1b2c3d4e5f60718", "user")
	require.NoError(t, err)

	issuer.now = func() time.Time { return start.Add(2 * time.Minute) }
	_, err = issuer.Validate(issued.Token)
	assert.Error(t, err)
}

func TestTokenIssuerRejectsForeignSecret(t *testing.T) {
	issued, err := NewTokenIssuer("one", time.Hour).Issue("64b7f0c2a1b2c3d4e5f60718", "admin")
	require.NoError(t, err)

	_, err = NewTokenIssuer("two", time.Hour).Validate(issued.Token)
	assert.Error(t, err)

	_, err = NewTokenIssuer("one", time.Hour).Validate("not-a-token")
	assert.Error(t, err)
}

func TestNewTokenIssuerDefaultsTTL(t *testing.T) {
	issuer := NewTokenIssuer("secret", 0)
	assert.Equal(t, JWTAccessTokenTTL, issuer.ttl)
}
