package account

import (
	"context"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// Credentials is the payload the credential entry point authenticates.
// Extra criteria are merged into the account lookup, letting callers
// scope authentication (e.g. by tenant) without new entry points.
type Credentials struct {
	Identifier string
	Password   string
	Criteria   Criteria
}

// Authenticator orchestrates credential lookup, the lock and
// confirmation pre-checks, password comparison, and attempt-counter
// mutation. It is the single entry point external callers use to
// verify a login. Confirmable and Lockable are optional capabilities
// attached explicitly; absent capabilities are simply skipped.
type Authenticator struct {
	store       Store
	config      Config
	confirmable *Confirmable
	lockable    *Lockable
	logger      Logger
	sink        ActivitySink
	now         func() time.Time
}

// NewAuthenticator returns a new Authenticator.
func NewAuthenticator(store Store, cfg Config) *Authenticator {
	return &Authenticator{
		store:  store,
		config: cfg.Normalize(),
		logger: defLogger{},
		sink:   noopActivitySink{},
		now:    time.Now,
	}
}

// WithConfirmable attaches the confirmation capability.
func (a *Authenticator) WithConfirmable(c *Confirmable) *Authenticator {
	a.confirmable = c
	return a
}

// WithLockable attaches the lockout capability.
func (a *Authenticator) WithLockable(l *Lockable) *Authenticator {
	a.lockable = l
	return a
}

// WithLogger overrides the logger.
func (a *Authenticator) WithLogger(logger Logger) *Authenticator {
	if logger != nil {
		a.logger = logger
	}
	return a
}

// WithActivitySink configures an ActivitySink for emitting auth events.
func (a *Authenticator) WithActivitySink(sink ActivitySink) *Authenticator {
	a.sink = normalizeActivitySink(sink)
	return a
}

// Authenticate verifies the supplied credentials and returns the
// account on success. A malformed payload, an unknown identifier, and a
// password mismatch all collapse into the same generic error so callers
// cannot enumerate identifiers. Soft-deleted accounts are excluded from
// the lookup.
func (a *Authenticator) Authenticate(ctx context.Context, creds Credentials) (*Account, error) {
	identifier := strings.TrimSpace(creds.Identifier)
	if identifier == "" || creds.Password == "" {
		return nil, a.invalidCredentials()
	}

	if a.config.IdentifierField == DefaultIdentifierField {
		identifier = strings.ToLower(identifier)
	}

	criteria := Criteria{}
	for k, v := range creds.Criteria {
		if k == a.config.PasswordField {
			continue
		}
		criteria[k] = v
	}
	criteria[a.config.IdentifierField] = identifier
	criteria["unregistered_at"] = nil

	acct, err := a.store.FindOne(ctx, criteria)
	if err != nil {
		if goerrors.IsNotFound(err) {
			a.emitAuthEvent(ctx, ActivityEventLoginFailure, nil, map[string]any{
				"identifier": identifier,
			})
			return nil, a.invalidCredentials()
		}
		return nil, err
	}

	return a.AuthenticateAccount(ctx, acct, creds.Password)
}

// AuthenticateAccount verifies the supplied password against an already
// loaded account:
//  1. the lock gate runs first; locked accounts never reach password
//     comparison
//  2. then the confirmation gate
//  3. a match clears the failed-attempt counter and returns the account
//  4. a mismatch escalates through the lockout behavior when attached,
//     otherwise surfaces the generic credential error
func (a *Authenticator) AuthenticateAccount(ctx context.Context, acct *Account, password string) (*Account, error) {
	if a.lockable != nil {
		if err := a.lockable.CheckLocked(ctx, acct); err != nil {
			a.emitAuthEvent(ctx, ActivityEventLoginFailure, acct, map[string]any{
				"error": err.Error(),
			})
			return nil, err
		}
	}

	if a.confirmable != nil {
		if err := a.confirmable.CheckConfirmed(ctx, acct); err != nil {
			a.emitAuthEvent(ctx, ActivityEventLoginFailure, acct, map[string]any{
				"error": err.Error(),
			})
			return nil, err
		}
	}

	if !ComparePasswordAndHash(password, acct.PasswordHash) {
		err := error(a.invalidCredentials())
		if a.lockable != nil {
			err = a.lockable.HandleFailedAttempt(ctx, acct, err)
		}
		a.emitAuthEvent(ctx, ActivityEventLoginFailure, acct, map[string]any{
			"error": err.Error(),
		})
		return nil, err
	}

	if a.lockable != nil && a.lockable.Enabled() {
		if _, err := a.lockable.ResetFailedAttempts(ctx, acct); err != nil {
			return nil, err
		}
	}

	a.emitAuthEvent(ctx, ActivityEventLoginSuccess, acct, nil)

	return acct, nil
}

// ChangePassword re-hashes and persists a new password for the account.
func (a *Authenticator) ChangePassword(ctx context.Context, acct *Account, newPassword string) (*Account, error) {
	if newPassword == "" {
		return nil, ErrNoPasswordProvided
	}

	hash, err := HashPasswordWithCost(newPassword, a.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	acct.PasswordHash = hash

	return a.store.Save(ctx, acct)
}

func (a *Authenticator) invalidCredentials() *goerrors.Error {
	return InvalidCredentialsError(a.config.IdentifierField, a.config.PasswordField)
}

func (a *Authenticator) emitAuthEvent(ctx context.Context, eventType ActivityEventType, acct *Account, metadata map[string]any) {
	event := ActivityEvent{
		EventType:  eventType,
		Metadata:   metadata,
		OccurredAt: a.now(),
	}

	if acct != nil {
		event.AccountID = acct.ID.String()
		event.Identifier = acct.Email
	}

	if event.Metadata == nil {
		event.Metadata = map[string]any{}
	}

	if err := normalizeActivitySink(a.sink).Record(ctx, event); err != nil {
		a.logger.Warn("activity sink record error: %v", err)
	}
}
