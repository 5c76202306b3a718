package account_test

import (
	"testing"

	"github.com/goliatone/go-account"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := account.DefaultConfig("test-secret")

	assert.Equal(t, "test-secret", cfg.Secret)
	assert.Equal(t, account.DefaultIdentifierField, cfg.IdentifierField)
	assert.Equal(t, account.DefaultPasswordField, cfg.PasswordField)
	assert.Equal(t, account.DefaultBcryptCost, cfg.BcryptCost)
	assert.Equal(t, account.DefaultTokenLifespanDays, cfg.Confirmable.TokenLifespanDays)
	assert.Equal(t, account.DefaultTokenLifespanDays, cfg.Lockable.TokenLifespanDays)
	assert.Equal(t, account.DefaultTokenLifespanDays, cfg.Recoverable.TokenLifespanDays)
	assert.Equal(t, account.DefaultMaxFailedAttempts, cfg.Lockable.MaxFailedAttempts)
	assert.True(t, cfg.Lockable.Enabled)
	assert.False(t, cfg.Registerable.AutoConfirm)

	require.NoError(t, cfg.Validate())
}

func TestConfigNormalize(t *testing.T) {
	t.Run("fills zero values", func(t *testing.T) {
		cfg := account.Config{Secret: "test-secret"}.Normalize()

		assert.Equal(t, account.DefaultIdentifierField, cfg.IdentifierField)
		assert.Equal(t, account.DefaultPasswordField, cfg.PasswordField)
		assert.Equal(t, account.DefaultBcryptCost, cfg.BcryptCost)
		assert.Equal(t, account.DefaultTokenLifespanDays, cfg.Confirmable.TokenLifespanDays)
		assert.Equal(t, account.DefaultMaxFailedAttempts, cfg.Lockable.MaxFailedAttempts)
	})

	t.Run("keeps explicit values", func(t *testing.T) {
		cfg := account.Config{
			Secret:          "test-secret",
			IdentifierField: "username",
			BcryptCost:      12,
			Confirmable:     account.ConfirmableConfig{TokenLifespanDays: 7},
			Lockable:        account.LockableConfig{Enabled: true, MaxFailedAttempts: 5},
		}.Normalize()

		assert.Equal(t, "username", cfg.IdentifierField)
		assert.Equal(t, 12, cfg.BcryptCost)
		assert.Equal(t, 7, cfg.Confirmable.TokenLifespanDays)
		assert.Equal(t, 5, cfg.Lockable.MaxFailedAttempts)
	})

	t.Run("never defaults the secret", func(t *testing.T) {
		cfg := account.Config{}.Normalize()
		assert.Empty(t, cfg.Secret)
	})
}

func TestConfigValidate(t *testing.T) {
	t.Run("missing secret fails", func(t *testing.T) {
		cfg := account.Config{}.Normalize()
		assert.Error(t, cfg.Validate())
	})

	t.Run("out of range cost fails", func(t *testing.T) {
		cfg := account.DefaultConfig("test-secret")
		cfg.BcryptCost = 99
		assert.Error(t, cfg.Validate())
	})
}
