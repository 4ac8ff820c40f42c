package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("testpassword123")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "testpassword123", hash)

	// bcrypt salts every hash, same input never collides.
	other, err := HashPassword("testpassword123")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other)
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("testpassword123")
	require.NoError(t, err)

	assert.True(t, CheckPassword("testpassword123", hash))
	assert.False(t, CheckPassword("wrongpassword", hash))
	assert.False(t, CheckPassword("testpassword123", "not-a-hash"))
}
