package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	tok, exp, err := m.Generate("member-1", true)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	claims, err := m.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "member-1", claims.Subject)
	assert.True(t, claims.IsAdmin)
}

func TestJWTRejectsForeignSecretAndExpiry(t *testing.T) {
	tok, _, err := NewJWTManager("other", time.Hour).Generate("member-1", false)
	require.NoError(t, err)
	_, err = NewJWTManager("secret", time.Hour).Parse(tok)
	assert.Error(t, err)

	expired, _, err := NewJWTManager("secret", -time.Minute).Generate("member-1", false)
	require.NoError(t, err)
	_, err = NewJWTManager("secret", time.Hour).Parse(expired)
	assert.Error(t, err)

	_, err = NewJWTManager("secret", time.Hour).Parse("not-a-token")
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	PasswordCost = 4
	h, err := HashPassword("User123!@#")
	require.NoError(t, err)
	assert.NotEqual(t, "User123!@#", h)
	assert.True(t, CompareHashAndPassword(h, "User123!@#"))
	assert.False(t, CompareHashAndPassword(h, "nope"))
}
