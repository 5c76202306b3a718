package account

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// Recoverable resets forgotten passwords through the recovery token
// flow. It has no lock or confirmation coupling: a valid recovery token
// is the designated escape hatch even for a locked account.
type Recoverable struct {
	store     Store
	notifier  Notifier
	tokenizer *Tokenizer
	config    Config
	logger    Logger
	now       func() time.Time
}

// RecoverableOption customizes Recoverable construction.
type RecoverableOption func(*Recoverable)

// WithRecoverableClock injects a custom clock (useful for tests).
func WithRecoverableClock(clock func() time.Time) RecoverableOption {
	return func(r *Recoverable) {
		if clock != nil {
			r.now = clock
		}
	}
}

// WithRecoverableLogger overrides the logger.
func WithRecoverableLogger(logger Logger) RecoverableOption {
	return func(r *Recoverable) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRecoverable returns the recovery behavior bound to the given
// collaborators.
func NewRecoverable(store Store, notifier Notifier, cfg Config, opts ...RecoverableOption) *Recoverable {
	cfg = cfg.Normalize()

	r := &Recoverable{
		store:     store,
		notifier:  normalizeNotifier(notifier),
		tokenizer: NewTokenizer([]byte(cfg.Secret), nil),
		config:    cfg,
		logger:    defLogger{},
		now:       time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	return r
}

// GenerateToken stamps a fresh recovery token on the account, expiring
// after the configured lifespan. Field mutation only, no I/O.
func (r *Recoverable) GenerateToken(acct *Account) error {
	expiryAt := AddDays(r.config.Recoverable.TokenLifespanDays, r.now())

	token, err := r.tokenizer.Issue(expiryAt, TokenPurposeRecovery, acct.Email)
	if err != nil {
		return err
	}

	acct.SetRecoveryToken(token, expiryAt)
	return nil
}

// SendRecovery delivers recovery instructions and persists the send
// time. Resolves untouched if the account has already been recovered.
func (r *Recoverable) SendRecovery(ctx context.Context, acct *Account) (*Account, error) {
	if acct.RecoveredAt != nil {
		return acct, nil
	}

	if err := r.notifier.Send(ctx, NotificationRecovery, acct); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to send recovery instructions")
	}

	sentAt := r.now()
	acct.RecoverySentAt = &sentAt

	return r.store.Save(ctx, acct)
}

// RequestRecover finds the one account matching the criteria, stamps a
// recovery token, and sends the instructions. Fails with the store's
// not-found error when no account matches.
func (r *Recoverable) RequestRecover(ctx context.Context, criteria Criteria) (*Account, error) {
	acct, err := r.store.FindOne(ctx, criteria)
	if err != nil {
		return nil, err
	}

	if err := r.GenerateToken(acct); err != nil {
		return nil, err
	}

	return r.SendRecovery(ctx, acct)
}

// Recover locates the account owning the raw recovery token, re-hashes
// the new password, and marks the account recovered. Lock and
// confirmation state are deliberately bypassed.
func (r *Recoverable) Recover(ctx context.Context, token, newPassword string) (*Account, error) {
	if newPassword == "" {
		return nil, ErrNoPasswordProvided
	}

	acct, err := r.store.FindOne(ctx, Criteria{"recovery_token": token})
	if err != nil {
		if goerrors.IsNotFound(err) {
			return nil, InvalidTokenError(TokenPurposeRecovery)
		}
		return nil, err
	}

	if IsExpired(acct.RecoveryTokenExpiryAt, r.now()) {
		return nil, ExpiredTokenError(TokenPurposeRecovery)
	}

	if !r.tokenizer.Verify(*acct.RecoveryTokenExpiryAt, TokenPurposeRecovery, acct.Email, token) {
		return nil, InvalidTokenError(TokenPurposeRecovery)
	}

	hash, err := HashPasswordWithCost(newPassword, r.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	acct.PasswordHash = hash
	recoveredAt := r.now()
	acct.RecoveredAt = &recoveredAt

	return r.store.Save(ctx, acct)
}
