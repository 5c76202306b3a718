package account_test

import (
	"testing"

	"github.com/goliatone/go-account"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	t.Run("hashes and verifies", func(t *testing.T) {
		hash, err := account.HashPassword("s3cret!")
		require.NoError(t, err)
		require.NotEmpty(t, hash)
		assert.NotEqual(t, "s3cret!", hash)

		assert.True(t, account.ComparePasswordAndHash("s3cret!", hash))
		assert.False(t, account.ComparePasswordAndHash("wrong", hash))
	})

	t.Run("rejects empty password", func(t *testing.T) {
		_, err := account.HashPassword("")
		require.Error(t, err)
		assert.ErrorIs(t, err, account.ErrNoPasswordProvided)
	})

	t.Run("zero cost falls back to default", func(t *testing.T) {
		hash, err := account.HashPasswordWithCost("s3cret!", 0)
		require.NoError(t, err)
		assert.True(t, account.ComparePasswordAndHash("s3cret!", hash))
	})
}

func TestComparePasswordAndHash(t *testing.T) {
	assert.False(t, account.ComparePasswordAndHash("anything", "not-a-bcrypt-hash"))
	assert.False(t, account.ComparePasswordAndHash("", ""))
}
