package account

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultIdentifierField is the canonical authentication handle.
	DefaultIdentifierField = "email"
	// DefaultPasswordField names the credential in payloads and messages.
	DefaultPasswordField = "password"
	// DefaultTokenLifespanDays applies to all three token flows.
	DefaultTokenLifespanDays = 3
	// DefaultMaxFailedAttempts locks an account on the third mismatch.
	DefaultMaxFailedAttempts = 3
)

// Config is the immutable configuration value shared by the lifecycle
// behaviors. Build it once at setup, normally via DefaultConfig plus
// overrides, and pass it into each constructor.
type Config struct {
	// Secret seals lifecycle tokens. Required.
	Secret string

	// IdentifierField and PasswordField name the credential fields in
	// lookups and in the generic authentication error message.
	IdentifierField string
	PasswordField   string

	// BcryptCost is the password hashing work factor.
	BcryptCost int

	Confirmable  ConfirmableConfig
	Lockable     LockableConfig
	Recoverable  RecoverableConfig
	Registerable RegisterableConfig
}

type ConfirmableConfig struct {
	TokenLifespanDays int
}

// LockableConfig gates the lockout behavior. Enabled is required
// explicit configuration: when false, Lock is a no-op and failed
// attempts are never counted.
type LockableConfig struct {
	Enabled           bool
	MaxFailedAttempts int
	TokenLifespanDays int
}

type RecoverableConfig struct {
	TokenLifespanDays int
}

type RegisterableConfig struct {
	// AutoConfirm confirms the account at registration instead of
	// sending confirmation instructions.
	AutoConfirm bool
}

// DefaultConfig returns the canonical configuration: three-day token
// lifespans for every flow, lockout enabled after three failed
// attempts, moderate hashing cost, no auto-confirm.
func DefaultConfig(secret string) Config {
	return Config{
		Secret:          secret,
		IdentifierField: DefaultIdentifierField,
		PasswordField:   DefaultPasswordField,
		BcryptCost:      DefaultBcryptCost,
		Confirmable: ConfirmableConfig{
			TokenLifespanDays: DefaultTokenLifespanDays,
		},
		Lockable: LockableConfig{
			Enabled:           true,
			MaxFailedAttempts: DefaultMaxFailedAttempts,
			TokenLifespanDays: DefaultTokenLifespanDays,
		},
		Recoverable: RecoverableConfig{
			TokenLifespanDays: DefaultTokenLifespanDays,
		},
		Registerable: RegisterableConfig{},
	}
}

// Normalize returns a copy with zero-valued options replaced by the
// defaults. The Secret is never defaulted.
func (c Config) Normalize() Config {
	if c.IdentifierField == "" {
		c.IdentifierField = DefaultIdentifierField
	}
	if c.PasswordField == "" {
		c.PasswordField = DefaultPasswordField
	}
	if c.BcryptCost == 0 {
		c.BcryptCost = DefaultBcryptCost
	}
	if c.Confirmable.TokenLifespanDays == 0 {
		c.Confirmable.TokenLifespanDays = DefaultTokenLifespanDays
	}
	if c.Lockable.TokenLifespanDays == 0 {
		c.Lockable.TokenLifespanDays = DefaultTokenLifespanDays
	}
	if c.Lockable.MaxFailedAttempts == 0 {
		c.Lockable.MaxFailedAttempts = DefaultMaxFailedAttempts
	}
	if c.Recoverable.TokenLifespanDays == 0 {
		c.Recoverable.TokenLifespanDays = DefaultTokenLifespanDays
	}
	return c
}

// Validate checks the configuration is usable.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Secret, validation.Required),
		validation.Field(&c.BcryptCost, validation.Min(bcrypt.MinCost), validation.Max(bcrypt.MaxCost)),
		validation.Field(&c.IdentifierField, validation.Required),
		validation.Field(&c.PasswordField, validation.Required),
	)
}
