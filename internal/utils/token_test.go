package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomToken(t *testing.T) {
	a, err := RandomToken(32)
	require.NoError(t, err)
	assert.Len(t, a, 64)

	b, err := RandomToken(32)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestSyntheticEmailIDIsStable(t *testing.T) {
	a := SyntheticEmailID("sales@shop.example.com", "Fwd: New sale", "Product: Camp")
	b := SyntheticEmailID("sales@shop.example.com", "Fwd: New sale", "Product: Camp")
	assert.Equal(t, a, b)
	assert.True(t, len(a) > len("synth-"))
	assert.Contains(t, a, "synth-")
}

func TestSyntheticEmailIDSeparatesFields(t *testing.T) {
	// "ab"+"c" and "a"+"bc" must not collide across field boundaries.
	a := SyntheticEmailID("ab", "c", "body")
	b := SyntheticEmailID("a", "bc", "body")
	assert.NotEqual(t, a, b)
}

func TestNewJobTokenRoundTrip(t *testing.T) {
	raw, err := NewJobToken("secret", "reminder-sweep", time.Hour)
	require.NoError(t, err)

	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	require.NoError(t, err)
	require.True(t, tok.Valid)

	claims := tok.Claims.(jwt.MapClaims)
	assert.Equal(t, "reminder-sweep", claims["job"])
}
