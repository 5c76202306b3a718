package account

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeNotification(t *testing.T) {
	acct := &Account{
		Email:             "test@example.com",
		ConfirmationToken: "confirm-tok",
		UnlockToken:       "unlock-tok",
		RecoveryToken:     "recover-tok",
	}

	tests := []struct {
		kind    NotificationKind
		subject string
		token   string
	}{
		{NotificationConfirmation, "Account confirmation", "confirm-tok"},
		{NotificationRecovery, "Password recovery", "recover-tok"},
		{NotificationUnlock, "Account unlock", "unlock-tok"},
	}

	for _, tc := range tests {
		t.Run(string(tc.kind), func(t *testing.T) {
			subject, body, err := composeNotification(tc.kind, acct)
			require.NoError(t, err)
			assert.Equal(t, tc.subject, subject)
			assert.Contains(t, body, tc.token)
		})
	}

	t.Run("unknown kind fails", func(t *testing.T) {
		_, _, err := composeNotification(NotificationKind("nope"), acct)
		assert.Error(t, err)
	})
}
