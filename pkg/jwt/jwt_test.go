package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuer_RoundTrip(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)

	token, err := issuer.GenerateToken(42)
	require.NoError(t, err)

	userID, err := issuer.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestIssuer_RejectsForeignSecret(t *testing.T) {
	token, err := NewIssuer("secret-a", time.Hour).GenerateToken(7)
	require.NoError(t, err)

	_, err = NewIssuer("secret-b", time.Hour).ParseToken(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestIssuer_RejectsExpired(t *testing.T) {
	issuer := NewIssuer("test-secret", -time.Minute)
	// NewIssuer replaces non-positive TTLs, so force an expired one
	issuer.TTL = -time.Minute

	token, err := issuer.GenerateToken(7)
	require.NoError(t, err)

	_, err = issuer.ParseToken(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestIssuer_RejectsGarbage(t *testing.T) {
	_, err := NewIssuer("test-secret", time.Hour).ParseToken("not-a-token")
	assert.True(t, errors.Is(err, ErrInvalidToken))
}
