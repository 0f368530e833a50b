package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheckPassword(t *testing.T) {
	SetBcryptCostForTest(bcrypt.MinCost)

	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash, "plaintext is never stored")

	assert.True(t, CheckPassword(hash, "secret123"))
	assert.False(t, CheckPassword(hash, "wrongpass"))
	assert.False(t, CheckPassword("not-a-hash", "secret123"))
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	SetBcryptCostForTest(bcrypt.MinCost)

	first, err := HashPassword("secret123")
	require.NoError(t, err)
	second, err := HashPassword("secret123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "each hash carries its own salt")
}
