package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)

	assert.NotEqual(t, "hunter22", hash)
	assert.True(t, strings.HasPrefix(hash, "$2a$10$"), "hash must carry the configured cost")

	assert.NoError(t, CheckPassword(hash, "hunter22"))
	assert.Error(t, CheckPassword(hash, "wrong"))
}

func TestHashPasswordIsSalted(t *testing.T) {
	first, err := HashPassword("hunter22")
	require.NoError(t, err)
	second, err := HashPassword("hunter22")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestCheckPasswordRejectsMalformedHash(t *testing.T) {
	assert.Error(t, CheckPassword("not-a-bcrypt-hash", "hunter22"))
}
