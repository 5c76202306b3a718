package account_test

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-account"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockableLock(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cfg := account.DefaultConfig("test-secret")

	t.Run("locks and sends unlock instructions", func(t *testing.T) {
		acct := &account.Account{Email: "test@example.com"}
		store := newMemoryStore(acct)
		notifier := &recorderNotifier{}
		lockable := account.NewLockable(store, notifier, cfg,
			account.WithLockableClock(fixedClock(now)))

		locked, err := lockable.Lock(ctx, acct)
		require.NoError(t, err)

		require.NotNil(t, locked.LockedAt)
		assert.Equal(t, now, *locked.LockedAt)
		assert.NotEmpty(t, locked.UnlockToken)
		assert.Equal(t, now.AddDate(0, 0, 3), *locked.UnlockTokenExpiryAt)
		require.NotNil(t, locked.UnlockSentAt)
		assert.Equal(t, 1, notifier.count(account.NotificationUnlock))
		assert.Equal(t, 1, store.saves)
	})

	t.Run("disabled behavior leaves account untouched", func(t *testing.T) {
		disabled := cfg
		disabled.Lockable.Enabled = false

		acct := &account.Account{Email: "test@example.com"}
		store := newMemoryStore(acct)
		notifier := &recorderNotifier{}
		lockable := account.NewLockable(store, notifier, disabled)

		same, err := lockable.Lock(ctx, acct)
		require.NoError(t, err)

		assert.Nil(t, same.LockedAt)
		assert.Empty(t, same.UnlockToken)
		assert.Empty(t, notifier.sent)
		assert.Zero(t, store.saves)
	})
}

func TestLockableCheckLocked(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cfg := account.DefaultConfig("test-secret")

	t.Run("unlocked account passes", func(t *testing.T) {
		lockable := account.NewLockable(newMemoryStore(), nil, cfg)
		assert.NoError(t, lockable.CheckLocked(ctx, &account.Account{Email: "test@example.com"}))
	})

	t.Run("locked with live token fails without resending", func(t *testing.T) {
		notifier := &recorderNotifier{}
		lockable := account.NewLockable(newMemoryStore(), notifier, cfg,
			account.WithLockableClock(fixedClock(now)))

		lockedAt := now.Add(-time.Hour)
		acct := &account.Account{Email: "test@example.com", LockedAt: &lockedAt}
		acct.SetUnlockToken("live", now.Add(time.Hour))

		err := lockable.CheckLocked(ctx, acct)
		assert.ErrorIs(t, err, account.ErrAccountLocked)
		assert.Empty(t, notifier.sent)
		assert.Equal(t, "live", acct.UnlockToken)
	})

	t.Run("expired token regenerates, resends, still locked", func(t *testing.T) {
		store := newMemoryStore()
		notifier := &recorderNotifier{}
		lockable := account.NewLockable(store, notifier, cfg,
			account.WithLockableClock(fixedClock(now)))

		lockedAt := now.AddDate(0, 0, -4)
		acct := &account.Account{Email: "test@example.com", LockedAt: &lockedAt}
		acct.SetUnlockToken("stale", now.Add(-time.Hour))

		err := lockable.CheckLocked(ctx, acct)
		assert.ErrorIs(t, err, account.ErrAccountLocked)
		assert.Equal(t, 1, notifier.count(account.NotificationUnlock))
		assert.NotEqual(t, "stale", acct.UnlockToken)
		assert.NotNil(t, acct.LockedAt, "the lock itself must survive")
		assert.Equal(t, 1, store.saves)
	})
}

func TestLockableUnlock(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cfg := account.DefaultConfig("test-secret")

	lockAccount := func(t *testing.T) (*memoryStore, *account.Lockable, *account.Account) {
		acct := &account.Account{Email: "test@example.com", FailedAttempts: 3}
		store := newMemoryStore(acct)
		lockable := account.NewLockable(store, &recorderNotifier{}, cfg,
			account.WithLockableClock(fixedClock(now)))

		_, err := lockable.Lock(ctx, acct)
		require.NoError(t, err)
		return store, lockable, acct
	}

	t.Run("valid token unlocks and resets state", func(t *testing.T) {
		_, lockable, acct := lockAccount(t)

		unlocked, err := lockable.Unlock(ctx, acct.UnlockToken)
		require.NoError(t, err)

		assert.Nil(t, unlocked.LockedAt)
		require.NotNil(t, unlocked.UnlockedAt)
		assert.Equal(t, now, *unlocked.UnlockedAt)
		assert.Zero(t, unlocked.FailedAttempts)
	})

	t.Run("unknown token is invalid", func(t *testing.T) {
		_, lockable, _ := lockAccount(t)

		_, err := lockable.Unlock(ctx, "never-issued")
		require.Error(t, err)
		assert.True(t, account.IsInvalidTokenError(err))
	})

	t.Run("expired token leaves account locked", func(t *testing.T) {
		_, _, acct := lockAccount(t)

		later := account.NewLockable(newMemoryStore(acct), &recorderNotifier{}, cfg,
			account.WithLockableClock(fixedClock(now.AddDate(0, 0, 4))))

		_, err := later.Unlock(ctx, acct.UnlockToken)
		require.Error(t, err)
		assert.True(t, account.IsExpiredTokenError(err))
		assert.NotNil(t, acct.LockedAt)
	})
}

func TestLockableHandleFailedAttempt(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cfg := account.DefaultConfig("test-secret")
	cause := account.InvalidCredentialsError("email", "password")

	t.Run("below the threshold the cause passes through", func(t *testing.T) {
		acct := &account.Account{Email: "test@example.com"}
		store := newMemoryStore(acct)
		lockable := account.NewLockable(store, &recorderNotifier{}, cfg,
			account.WithLockableClock(fixedClock(now)))

		err := lockable.HandleFailedAttempt(ctx, acct, cause)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, 1, acct.FailedAttempts)
		assert.Nil(t, acct.LockedAt)
		assert.Equal(t, 1, store.saves)
	})

	t.Run("reaching the threshold locks", func(t *testing.T) {
		acct := &account.Account{Email: "test@example.com", FailedAttempts: 2}
		store := newMemoryStore(acct)
		notifier := &recorderNotifier{}
		lockable := account.NewLockable(store, notifier, cfg,
			account.WithLockableClock(fixedClock(now)))

		err := lockable.HandleFailedAttempt(ctx, acct, cause)
		assert.ErrorIs(t, err, account.ErrAccountLocked)
		assert.Equal(t, 3, acct.FailedAttempts)
		assert.NotNil(t, acct.LockedAt)
		assert.Equal(t, 1, notifier.count(account.NotificationUnlock))
	})

	t.Run("disabled behavior never counts", func(t *testing.T) {
		disabled := cfg
		disabled.Lockable.Enabled = false

		acct := &account.Account{Email: "test@example.com"}
		store := newMemoryStore(acct)
		lockable := account.NewLockable(store, &recorderNotifier{}, disabled)

		err := lockable.HandleFailedAttempt(ctx, acct, cause)
		assert.ErrorIs(t, err, cause)
		assert.Zero(t, acct.FailedAttempts)
		assert.Zero(t, store.saves)
	})
}
