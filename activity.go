package account

import (
	"context"
	"time"
)

// ActivityEventType enumerates supported activity categories.
type ActivityEventType string

const (
	ActivityEventLoginSuccess ActivityEventType = "account.login.success"
	ActivityEventLoginFailure ActivityEventType = "account.login.failure"
	ActivityEventRegistered   ActivityEventType = "account.registered"
	ActivityEventUnregistered ActivityEventType = "account.unregistered"
	ActivityEventConfirmed    ActivityEventType = "account.confirmed"
	ActivityEventLocked       ActivityEventType = "account.locked"
	ActivityEventUnlocked     ActivityEventType = "account.unlocked"
	ActivityEventRecovered    ActivityEventType = "account.recovered"
)

// ActivityEvent captures audit-friendly information about an action.
type ActivityEvent struct {
	EventType  ActivityEventType
	AccountID  string
	Identifier string
	Metadata   map[string]any
	OccurredAt time.Time
}

// ActivitySink consumes activity events for auditing/telemetry purposes.
// Sinks run best-effort: errors are logged by the emitter, never
// propagated into the lifecycle operation.
type ActivitySink interface {
	Record(ctx context.Context, event ActivityEvent) error
}

// ActivitySinkFunc adapts a function to the ActivitySink interface.
type ActivitySinkFunc func(ctx context.Context, event ActivityEvent) error

// Record implements ActivitySink.
func (f ActivitySinkFunc) Record(ctx context.Context, event ActivityEvent) error {
	if f == nil {
		return nil
	}
	return f(ctx, event)
}

type noopActivitySink struct{}

func (noopActivitySink) Record(context.Context, ActivityEvent) error {
	return nil
}

func normalizeActivitySink(s ActivitySink) ActivitySink {
	if s == nil {
		return noopActivitySink{}
	}
	return s
}
