package account

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Account is the persisted identity record all lifecycle behaviors
// attach to. Unregistration is a soft flag: a non-null UnregisteredAt
// permanently excludes the record from credential lookup, the record is
// never destroyed by this package.
type Account struct {
	bun.BaseModel `bun:"table:accounts,alias:acct"`

	ID           uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email        string    `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash string    `bun:"password_hash" json:"-"`

	RegisteredAt   *time.Time `bun:"registered_at,nullzero" json:"registered_at,omitempty"`
	UnregisteredAt *time.Time `bun:"unregistered_at,nullzero" json:"unregistered_at,omitempty"`

	ConfirmationToken         string     `bun:"confirmation_token,nullzero" json:"-"`
	ConfirmationTokenExpiryAt *time.Time `bun:"confirmation_token_expiry_at,nullzero" json:"-"`
	ConfirmedAt               *time.Time `bun:"confirmed_at,nullzero" json:"confirmed_at,omitempty"`
	ConfirmationSentAt        *time.Time `bun:"confirmation_sent_at,nullzero" json:"-"`

	FailedAttempts      int        `bun:"failed_attempts" json:"-"`
	LockedAt            *time.Time `bun:"locked_at,nullzero" json:"locked_at,omitempty"`
	UnlockedAt          *time.Time `bun:"unlocked_at,nullzero" json:"-"`
	UnlockToken         string     `bun:"unlock_token,nullzero" json:"-"`
	UnlockTokenExpiryAt *time.Time `bun:"unlock_token_expiry_at,nullzero" json:"-"`
	UnlockSentAt        *time.Time `bun:"unlock_sent_at,nullzero" json:"-"`

	RecoveryToken         string     `bun:"recovery_token,nullzero" json:"-"`
	RecoveryTokenExpiryAt *time.Time `bun:"recovery_token_expiry_at,nullzero" json:"-"`
	RecoverySentAt        *time.Time `bun:"recovery_sent_at,nullzero" json:"-"`
	RecoveredAt           *time.Time `bun:"recovered_at,nullzero" json:"recovered_at,omitempty"`

	SignInCount     int        `bun:"sign_in_count" json:"sign_in_count,omitempty"`
	CurrentSignInAt *time.Time `bun:"current_sign_in_at,nullzero" json:"current_sign_in_at,omitempty"`
	CurrentSignInIP string     `bun:"current_sign_in_ip,nullzero" json:"current_sign_in_ip,omitempty"`
	LastSignInAt    *time.Time `bun:"last_sign_in_at,nullzero" json:"last_sign_in_at,omitempty"`
	LastSignInIP    string     `bun:"last_sign_in_ip,nullzero" json:"last_sign_in_ip,omitempty"`

	CreatedAt *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// IsConfirmed reports whether the account identity has been confirmed.
func (a *Account) IsConfirmed() bool {
	return a.ConfirmedAt != nil
}

// IsLocked reports whether the account is currently locked.
func (a *Account) IsLocked() bool {
	return a.LockedAt != nil
}

// IsUnregistered reports whether the account has been soft deleted.
func (a *Account) IsUnregistered() bool {
	return a.UnregisteredAt != nil
}

// SetConfirmationToken stamps a confirmation token together with its
// expiry window and voids any previous confirmation. A token and its
// expiry are always set and cleared as a pair.
func (a *Account) SetConfirmationToken(token string, expiryAt time.Time) {
	a.ConfirmationToken = token
	a.ConfirmationTokenExpiryAt = &expiryAt
	a.ConfirmedAt = nil
}

// ClearConfirmationToken removes the confirmation token pair.
func (a *Account) ClearConfirmationToken() {
	a.ConfirmationToken = ""
	a.ConfirmationTokenExpiryAt = nil
}

// SetUnlockToken stamps an unlock token together with its expiry window
// and voids any previous unlock.
func (a *Account) SetUnlockToken(token string, expiryAt time.Time) {
	a.UnlockToken = token
	a.UnlockTokenExpiryAt = &expiryAt
	a.UnlockedAt = nil
}

// ClearUnlockToken removes the unlock token pair.
func (a *Account) ClearUnlockToken() {
	a.UnlockToken = ""
	a.UnlockTokenExpiryAt = nil
}

// SetRecoveryToken stamps a recovery token together with its expiry
// window and voids any previous recovery.
func (a *Account) SetRecoveryToken(token string, expiryAt time.Time) {
	a.RecoveryToken = token
	a.RecoveryTokenExpiryAt = &expiryAt
	a.RecoveredAt = nil
}

// ClearRecoveryToken removes the recovery token pair.
func (a *Account) ClearRecoveryToken() {
	a.RecoveryToken = ""
	a.RecoveryTokenExpiryAt = nil
}
