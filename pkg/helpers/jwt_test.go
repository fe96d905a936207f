package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("secret-a", time.Hour)

	token, exp, err := m.Generate("user-1", 1)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, 1, claims.Role)
}

func TestJWTWrongSecret(t *testing.T) {
	a := NewJWTManager("secret-a", time.Hour)
	b := NewJWTManager("secret-b", time.Hour)

	token, _, err := a.Generate("user-1", 0)
	require.NoError(t, err)

	_, err = b.Parse(token)
	assert.Error(t, err)
}

func TestJWTExpired(t *testing.T) {
	m := NewJWTManager("secret-a", -time.Minute)

	token, _, err := m.Generate("user-1", 0)
	require.NoError(t, err)

	_, err = m.Parse(token)
	assert.Error(t, err)
}
