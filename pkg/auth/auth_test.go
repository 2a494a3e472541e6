package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := CreateToken("ops")
	require.NoError(t, err)

	claims, err := VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Username)
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, err := CreateToken("ops")
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "other-secret")
	_, err = VerifyToken(token)
	assert.Error(t, err)
}

func TestHMACKeyRoundTrip(t *testing.T) {
	t.Setenv("API_MASTER_SECRET", "master")

	key := GenerateHMACKey("integration-bot")
	name, err := VerifyHMACKey(key)
	require.NoError(t, err)
	assert.Equal(t, "integration-bot", name)
}

func TestVerifyHMACKey_Tampered(t *testing.T) {
	t.Setenv("API_MASTER_SECRET", "master")

	key := GenerateHMACKey("integration-bot")
	tampered := strings.Replace(key, "integration-bot", "someone-else", 1)
	_, err := VerifyHMACKey(tampered)
	assert.Error(t, err)

	_, err = VerifyHMACKey("no-dot-separator")
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("hunter2", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}
