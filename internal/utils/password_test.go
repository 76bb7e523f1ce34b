package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct-horse-battery")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.NotEqual(t, "correct-horse-battery", hash)
	assert.True(t, VerifyPassword("correct-horse-battery", hash))
	assert.False(t, VerifyPassword("wrong-password", hash))
}

func TestHashPasswordIsSalted(t *testing.T) {
	h1, err := HashPassword("même mot de passe")
	require.NoError(t, err)
	h2, err := HashPassword("même mot de passe")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
	assert.True(t, VerifyPassword("même mot de passe", h1))
	assert.True(t, VerifyPassword("même mot de passe", h2))
}
