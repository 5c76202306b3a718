package account

import (
	"context"
	"time"
)

// Trackable records sign-in telemetry on the account: a monotonically
// increasing counter plus the current and previous sign-in timestamp
// and origin IP.
type Trackable struct {
	store Store
	now   func() time.Time
}

// TrackableOption customizes a Trackable.
type TrackableOption func(*Trackable)

// WithTrackableClock overrides the time source, mostly for tests.
func WithTrackableClock(now func() time.Time) TrackableOption {
	return func(t *Trackable) {
		if now != nil {
			t.now = now
		}
	}
}

// NewTrackable returns a new Trackable.
func NewTrackable(store Store, opts ...TrackableOption) *Trackable {
	t := &Trackable{
		store: store,
		now:   time.Now,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Track stamps a successful sign-in: the previous current values shift
// into the last slots before the new ones land, so the record always
// holds the latest two sign-ins.
func (t *Trackable) Track(ctx context.Context, acct *Account, ip string) (*Account, error) {
	acct.SignInCount++

	acct.LastSignInAt = acct.CurrentSignInAt
	acct.LastSignInIP = acct.CurrentSignInIP

	now := t.now()
	acct.CurrentSignInAt = &now
	acct.CurrentSignInIP = ip

	return t.store.Save(ctx, acct)
}
