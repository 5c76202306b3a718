package account

import (
	"context"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
)

// Registration is the payload used to create a new account.
type Registration struct {
	Email    string
	Password string
}

// Validate checks the registration payload.
func (r Registration) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// Registerer creates and retires accounts. When a Confirmable is
// attached, new accounts get a confirmation token and either receive
// the confirmation notification or, with AutoConfirm set, are confirmed
// immediately using the freshly issued token.
type Registerer struct {
	store       Store
	config      Config
	confirmable *Confirmable
	logger      Logger
	sink        ActivitySink
	now         func() time.Time
}

// RegistererOption customizes a Registerer.
type RegistererOption func(*Registerer)

// WithRegistererClock overrides the time source, mostly for tests.
func WithRegistererClock(now func() time.Time) RegistererOption {
	return func(r *Registerer) {
		if now != nil {
			r.now = now
		}
	}
}

// WithRegistererLogger overrides the logger.
func WithRegistererLogger(logger Logger) RegistererOption {
	return func(r *Registerer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithRegistererActivitySink configures an ActivitySink.
func WithRegistererActivitySink(sink ActivitySink) RegistererOption {
	return func(r *Registerer) {
		r.sink = normalizeActivitySink(sink)
	}
}

// NewRegisterer returns a new Registerer.
func NewRegisterer(store Store, cfg Config, opts ...RegistererOption) *Registerer {
	r := &Registerer{
		store:  store,
		config: cfg.Normalize(),
		logger: defLogger{},
		sink:   noopActivitySink{},
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// WithConfirmable attaches the confirmation capability.
func (r *Registerer) WithConfirmable(c *Confirmable) *Registerer {
	r.confirmable = c
	return r
}

// Register creates an account from the given payload. The identifier
// is normalized before insertion, and a duplicate identifier surfaces
// as a conflict error carrying the offending value.
func (r *Registerer) Register(ctx context.Context, reg Registration) (*Account, error) {
	reg.Email = strings.ToLower(strings.TrimSpace(reg.Email))

	if err := reg.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid registration payload").
			WithCode(goerrors.CodeBadRequest)
	}

	hash, err := HashPasswordWithCost(reg.Password, r.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	acct := &Account{
		Email:        reg.Email,
		PasswordHash: hash,
	}

	if r.confirmable != nil {
		if err := r.confirmable.GenerateToken(acct); err != nil {
			return nil, err
		}
	}

	now := r.now()
	acct.RegisteredAt = &now

	acct, err = r.store.Insert(ctx, acct)
	if err != nil {
		if IsConflictError(err) {
			return nil, ConflictError(r.config.IdentifierField, reg.Email)
		}
		return nil, err
	}

	if r.confirmable != nil {
		if r.config.Registerable.AutoConfirm {
			sentAt := r.now()
			acct.ConfirmationSentAt = &sentAt
			if acct, err = r.confirmable.Confirm(ctx, acct, acct.ConfirmationToken); err != nil {
				return nil, err
			}
		} else {
			if acct, err = r.confirmable.SendConfirmation(ctx, acct); err != nil {
				return nil, err
			}
		}
	}

	r.emit(ctx, ActivityEventRegistered, acct)

	return acct, nil
}

// Unregister retires the account by stamping its unregistered-at
// timestamp. The record stays in place so sign-in history survives, but
// the credential entry point will no longer find it.
func (r *Registerer) Unregister(ctx context.Context, acct *Account) (*Account, error) {
	now := r.now()
	acct.UnregisteredAt = &now

	acct, err := r.store.Save(ctx, acct)
	if err != nil {
		return nil, err
	}

	r.emit(ctx, ActivityEventUnregistered, acct)

	return acct, nil
}

func (r *Registerer) emit(ctx context.Context, eventType ActivityEventType, acct *Account) {
	event := ActivityEvent{
		EventType:  eventType,
		AccountID:  acct.ID.String(),
		Identifier: acct.Email,
		Metadata:   map[string]any{},
		OccurredAt: r.now(),
	}

	if err := normalizeActivitySink(r.sink).Record(ctx, event); err != nil {
		r.logger.Warn("activity sink record error: %v", err)
	}
}
