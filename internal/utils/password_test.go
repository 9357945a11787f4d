package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("123456", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "123456", hash)

	assert.True(t, VerifyPassword(hash, "123456"))
	assert.False(t, VerifyPassword(hash, "1234567"))
	assert.False(t, VerifyPassword("not-a-hash", "123456"))
}
