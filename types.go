package account

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Criteria narrows an account lookup. Keys are model column names; a
// nil value matches records where the column is NULL.
type Criteria map[string]any

// Store is the persistence boundary the lifecycle behaviors consume.
// Implementations must enforce identifier uniqueness on Insert and
// surface duplicate inserts as a conflict error, and should provide
// per-record atomic read-modify-write; this package does not implement
// distributed coordination on top of it.
type Store interface {
	FindOne(ctx context.Context, criteria Criteria) (*Account, error)
	Save(ctx context.Context, acct *Account) (*Account, error)
	Insert(ctx context.Context, acct *Account) (*Account, error)
}

// NotificationKind identifies which out-of-band instructions to deliver.
type NotificationKind string

const (
	NotificationConfirmation NotificationKind = "confirmation"
	NotificationRecovery     NotificationKind = "recovery"
	NotificationUnlock       NotificationKind = "unlock"
)

// Notifier delivers lifecycle instructions to the account holder. A
// delivery failure fails the enclosing state transition.
type Notifier interface {
	Send(ctx context.Context, kind NotificationKind, acct *Account) error
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, kind NotificationKind, acct *Account) error

// Send implements Notifier.
func (f NotifierFunc) Send(ctx context.Context, kind NotificationKind, acct *Account) error {
	if f == nil {
		return nil
	}
	return f(ctx, kind, acct)
}

type noopNotifier struct{}

func (noopNotifier) Send(context.Context, NotificationKind, *Account) error {
	return nil
}

func normalizeNotifier(n Notifier) Notifier {
	if n == nil {
		return noopNotifier{}
	}
	return n
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] ACCOUNT "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] ACCOUNT "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] ACCOUNT "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] ACCOUNT "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}

func normalizeLogger(l Logger) Logger {
	if l == nil {
		return defLogger{}
	}
	return l
}
