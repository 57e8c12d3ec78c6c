package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManagerRequiresSecret(t *testing.T) {
	_, err := NewManager("", time.Hour)
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestGenerateAndValidate(t *testing.T) {
	m, err := NewManager("secret", time.Hour)
	require.NoError(t, err)

	signed, exp, err := m.GenerateToken("token-1", 7, "a@b.c", "Ani", "admin")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := m.ValidateToken(signed)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "token-1", claims.ID)
	assert.Equal(t, "admin", claims.Role)
}

func TestValidateRejects(t *testing.T) {
	m, _ := NewManager("secret", time.Hour)
	other, _ := NewManager("other", time.Hour)

	signed, _, err := other.GenerateToken("t", 1, "", "", "user")
	require.NoError(t, err)

	_, err = m.ValidateToken(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.ValidateToken("")
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = m.ValidateToken("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpired(t *testing.T) {
	m, _ := NewManager("secret", time.Minute)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	signed, _, err := m.GenerateToken("t", 1, "", "", "user")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ValidateToken(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRequiresTokenID(t *testing.T) {
	m, _ := NewManager("secret", time.Hour)
	signed, _, err := m.GenerateToken("", 1, "", "", "user")
	require.NoError(t, err)

	_, err = m.ValidateToken(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
