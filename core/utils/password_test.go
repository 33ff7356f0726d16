package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndComparePassword(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hashed, err := h.HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hashed)

	assert.True(t, h.ComparePassword(hashed, "hunter22"))
	assert.False(t, h.ComparePassword(hashed, "hunter23"))
}

func TestPasswordHasherCostFallback(t *testing.T) {
	assert.Equal(t, DefaultBcryptCost, NewPasswordHasher(0).cost)
	assert.Equal(t, DefaultBcryptCost, NewPasswordHasher(99).cost)
	assert.Equal(t, 10, NewPasswordHasher(10).cost)
}
