package account

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// Lockable blocks account access after too many failed authentication
// attempts and drives the unlock token flow. The whole behavior is
// feature-gated by LockableConfig.Enabled.
type Lockable struct {
	store     Store
	notifier  Notifier
	tokenizer *Tokenizer
	config    Config
	logger    Logger
	now       func() time.Time
}

// LockableOption customizes Lockable construction.
type LockableOption func(*Lockable)

// WithLockableClock injects a custom clock (useful for tests).
func WithLockableClock(clock func() time.Time) LockableOption {
	return func(l *Lockable) {
		if clock != nil {
			l.now = clock
		}
	}
}

// WithLockableLogger overrides the logger.
func WithLockableLogger(logger Logger) LockableOption {
	return func(l *Lockable) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLockable returns the lockout behavior bound to the given
// collaborators.
func NewLockable(store Store, notifier Notifier, cfg Config, opts ...LockableOption) *Lockable {
	cfg = cfg.Normalize()

	l := &Lockable{
		store:     store,
		notifier:  normalizeNotifier(notifier),
		tokenizer: NewTokenizer([]byte(cfg.Secret), nil),
		config:    cfg,
		logger:    defLogger{},
		now:       time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}

	return l
}

// Enabled reports whether the lockout behavior is active.
func (l *Lockable) Enabled() bool {
	return l.config.Lockable.Enabled
}

// GenerateUnlockToken stamps a fresh unlock token on the account,
// expiring after the configured lifespan. Field mutation only, no I/O.
func (l *Lockable) GenerateUnlockToken(acct *Account) error {
	expiryAt := AddDays(l.config.Lockable.TokenLifespanDays, l.now())

	token, err := l.tokenizer.Issue(expiryAt, TokenPurposeUnlock, acct.Email)
	if err != nil {
		return err
	}

	acct.SetUnlockToken(token, expiryAt)
	return nil
}

// SendUnlock delivers unlock instructions and persists the send time.
// Resolves untouched if the account has already been unlocked.
func (l *Lockable) SendUnlock(ctx context.Context, acct *Account) (*Account, error) {
	if acct.UnlockedAt != nil {
		return acct, nil
	}

	if err := l.notifier.Send(ctx, NotificationUnlock, acct); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to send unlock instructions")
	}

	sentAt := l.now()
	acct.UnlockSentAt = &sentAt

	return l.store.Save(ctx, acct)
}

// Lock marks the account locked, stamps an unlock token, and sends the
// unlock instructions. When the behavior is disabled it resolves
// immediately without mutating state.
func (l *Lockable) Lock(ctx context.Context, acct *Account) (*Account, error) {
	if !l.Enabled() {
		return acct, nil
	}

	lockedAt := l.now()
	acct.LockedAt = &lockedAt

	if err := l.GenerateUnlockToken(acct); err != nil {
		return nil, err
	}

	return l.SendUnlock(ctx, acct)
}

// CheckLocked is the gate Authenticator runs before comparing
// credentials:
//  1. unlocked accounts pass
//  2. locked with a live unlock token fail with ErrAccountLocked
//  3. locked with an expired token regenerate and resend the unlock
//     token, persist it, then fail with the same ErrAccountLocked
func (l *Lockable) CheckLocked(ctx context.Context, acct *Account) error {
	if !acct.IsLocked() {
		return nil
	}

	if !IsExpired(acct.UnlockTokenExpiryAt, l.now()) {
		return ErrAccountLocked
	}

	if err := l.GenerateUnlockToken(acct); err != nil {
		return err
	}

	if _, err := l.SendUnlock(ctx, acct); err != nil {
		return err
	}

	return ErrAccountLocked
}

// ResetFailedAttempts clears the failed-attempt counter and persists.
func (l *Lockable) ResetFailedAttempts(ctx context.Context, acct *Account) (*Account, error) {
	acct.FailedAttempts = 0
	return l.store.Save(ctx, acct)
}

// Unlock locates the account owning the raw unlock token and unlocks
// it: unlocked-at set, failed attempts cleared, locked-at removed. An
// expired token fails without touching the locked state.
func (l *Lockable) Unlock(ctx context.Context, token string) (*Account, error) {
	acct, err := l.store.FindOne(ctx, Criteria{"unlock_token": token})
	if err != nil {
		if goerrors.IsNotFound(err) {
			return nil, InvalidTokenError(TokenPurposeUnlock)
		}
		return nil, err
	}

	if IsExpired(acct.UnlockTokenExpiryAt, l.now()) {
		return nil, ExpiredTokenError(TokenPurposeUnlock)
	}

	if !l.tokenizer.Verify(*acct.UnlockTokenExpiryAt, TokenPurposeUnlock, acct.Email, token) {
		return nil, InvalidTokenError(TokenPurposeUnlock)
	}

	unlockedAt := l.now()
	acct.UnlockedAt = &unlockedAt
	acct.FailedAttempts = 0
	acct.LockedAt = nil

	return l.store.Save(ctx, acct)
}

// HandleFailedAttempt escalates a password mismatch: the counter
// increments silently, and once it reaches the configured maximum the
// account locks and the locked error replaces the original cause.
// Callers are never told how many attempts remain. When the behavior
// is disabled the cause passes through untouched.
func (l *Lockable) HandleFailedAttempt(ctx context.Context, acct *Account, cause error) error {
	if !l.Enabled() {
		return cause
	}

	acct.FailedAttempts++

	if acct.FailedAttempts >= l.config.Lockable.MaxFailedAttempts {
		if _, err := l.Lock(ctx, acct); err != nil {
			return err
		}
		return ErrAccountLocked
	}

	if _, err := l.store.Save(ctx, acct); err != nil {
		return err
	}

	return cause
}
