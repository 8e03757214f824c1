package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("s3cret-value")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret-value", hash)

	assert.NoError(t, ComparePasswordAndHash("s3cret-value", hash))

	err = ComparePasswordAndHash("wrong-value", hash)
	assert.ErrorIs(t, err, ErrMismatchedHashAndPassword)
}

func TestRandomPasswordHashNeverMatches(t *testing.T) {
	hash := RandomPasswordHash()
	require.NotEmpty(t, hash)

	assert.Error(t, ComparePasswordAndHash("", hash))
	assert.Error(t, ComparePasswordAndHash("guess", hash))
}
