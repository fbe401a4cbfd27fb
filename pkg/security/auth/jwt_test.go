package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestGenerateAndValidateToken(t *testing.T) {
	userID := uuid.New()

	token, err := GenerateToken(userID, "johndoe", testSecret, "habit-tracker", time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "johndoe", claims.Username)
	assert.Equal(t, "habit-tracker", claims.Issuer)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken(uuid.New(), "johndoe", testSecret, "habit-tracker", time.Now().Add(time.Hour))
	require.NoError(t, err)

	_, err = ValidateToken(token, "other-secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateExpiredToken(t *testing.T) {
	token, err := GenerateToken(uuid.New(), "johndoe", testSecret, "habit-tracker", time.Now().Add(-time.Minute))
	require.NoError(t, err)

	_, err = ValidateToken(token, testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenBlacklist(t *testing.T) {
	tb := GetTokenBlacklist()

	tb.AddToBlacklist("revoked-token", time.Now().Add(time.Hour))
	assert.True(t, tb.IsBlacklisted("revoked-token"))
	assert.False(t, tb.IsBlacklisted("other-token"))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("securepassword123")
	require.NoError(t, err)
	require.NotEqual(t, "securepassword123", hash)

	assert.True(t, CheckPassword("securepassword123", hash))
	assert.False(t, CheckPassword("wrongpassword", hash))
}
