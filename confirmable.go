package account

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// Confirmable tracks whether an account's identity has been confirmed
// and drives the confirmation token flow.
type Confirmable struct {
	store     Store
	notifier  Notifier
	tokenizer *Tokenizer
	config    Config
	logger    Logger
	now       func() time.Time
}

// ConfirmableOption customizes Confirmable construction.
type ConfirmableOption func(*Confirmable)

// WithConfirmableClock injects a custom clock (useful for tests).
func WithConfirmableClock(clock func() time.Time) ConfirmableOption {
	return func(c *Confirmable) {
		if clock != nil {
			c.now = clock
		}
	}
}

// WithConfirmableLogger overrides the logger.
func WithConfirmableLogger(logger Logger) ConfirmableOption {
	return func(c *Confirmable) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewConfirmable returns the confirmation behavior bound to the given
// collaborators.
func NewConfirmable(store Store, notifier Notifier, cfg Config, opts ...ConfirmableOption) *Confirmable {
	cfg = cfg.Normalize()

	c := &Confirmable{
		store:     store,
		notifier:  normalizeNotifier(notifier),
		tokenizer: NewTokenizer([]byte(cfg.Secret), nil),
		config:    cfg,
		logger:    defLogger{},
		now:       time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	return c
}

// GenerateToken stamps a fresh confirmation token on the account,
// expiring after the configured lifespan, and voids any previous
// confirmation. Field mutation only, no I/O.
func (c *Confirmable) GenerateToken(acct *Account) error {
	expiryAt := AddDays(c.config.Confirmable.TokenLifespanDays, c.now())

	token, err := c.tokenizer.Issue(expiryAt, TokenPurposeConfirmation, acct.Email)
	if err != nil {
		return err
	}

	acct.SetConfirmationToken(token, expiryAt)
	return nil
}

// SendConfirmation delivers confirmation instructions and persists the
// send time. Resolves untouched if the account is already confirmed.
func (c *Confirmable) SendConfirmation(ctx context.Context, acct *Account) (*Account, error) {
	if acct.IsConfirmed() {
		return acct, nil
	}

	if err := c.notifier.Send(ctx, NotificationConfirmation, acct); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to send confirmation instructions")
	}

	sentAt := c.now()
	acct.ConfirmationSentAt = &sentAt

	return c.store.Save(ctx, acct)
}

// CheckConfirmed is the gate Authenticator runs before comparing
// credentials:
//  1. confirmed accounts pass
//  2. unconfirmed with a live token fail with ErrAccountNotConfirmed
//  3. unconfirmed with an expired (or absent) token regenerate and
//     resend exactly once, persist the new token state, then fail with
//     ErrConfirmationResent
func (c *Confirmable) CheckConfirmed(ctx context.Context, acct *Account) error {
	if acct.IsConfirmed() {
		return nil
	}

	if !IsExpired(acct.ConfirmationTokenExpiryAt, c.now()) {
		return ErrAccountNotConfirmed
	}

	if err := c.GenerateToken(acct); err != nil {
		return err
	}

	if _, err := c.SendConfirmation(ctx, acct); err != nil {
		return err
	}

	return ErrConfirmationResent
}

// Confirm validates the supplied token against the account's stored
// expiry window and marks the account confirmed.
func (c *Confirmable) Confirm(ctx context.Context, acct *Account, token string) (*Account, error) {
	if IsExpired(acct.ConfirmationTokenExpiryAt, c.now()) {
		return nil, ExpiredTokenError(TokenPurposeConfirmation)
	}

	if !c.tokenizer.Verify(*acct.ConfirmationTokenExpiryAt, TokenPurposeConfirmation, acct.Email, token) {
		return nil, InvalidTokenError(TokenPurposeConfirmation)
	}

	confirmedAt := c.now()
	acct.ConfirmedAt = &confirmedAt

	return c.store.Save(ctx, acct)
}

// ConfirmByToken locates the owning account by raw token value, then
// confirms it. Unknown tokens collapse into the invalid-token outcome.
func (c *Confirmable) ConfirmByToken(ctx context.Context, token string) (*Account, error) {
	acct, err := c.store.FindOne(ctx, Criteria{"confirmation_token": token})
	if err != nil {
		if goerrors.IsNotFound(err) {
			return nil, InvalidTokenError(TokenPurposeConfirmation)
		}
		return nil, err
	}

	return c.Confirm(ctx, acct, token)
}
