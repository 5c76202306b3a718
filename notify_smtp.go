package account

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	"gopkg.in/gomail.v2"
)

// SMTPNotifier delivers lifecycle instructions over SMTP. Each
// NotificationKind maps to a message carrying the matching token from
// the account record.
type SMTPNotifier struct {
	dialer *gomail.Dialer
	from   string
}

var _ Notifier = (*SMTPNotifier)(nil)

// NewSMTPNotifier returns a Notifier that delivers mail through the
// given SMTP endpoint.
func NewSMTPNotifier(host string, port int, username, password, from string) *SMTPNotifier {
	return &SMTPNotifier{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// Send implements Notifier.
func (n *SMTPNotifier) Send(ctx context.Context, kind NotificationKind, acct *Account) error {
	subject, body, err := composeNotification(kind, acct)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", acct.Email)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := n.dialer.DialAndSend(m); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, fmt.Sprintf("failed to send %s email", kind))
	}

	return nil
}

func composeNotification(kind NotificationKind, acct *Account) (subject, body string, err error) {
	switch kind {
	case NotificationConfirmation:
		subject = "Account confirmation"
		body = fmt.Sprintf(`
			<h3>Confirm your account</h3>
			<p>Use the following token to confirm your account: <strong>%s</strong></p>
			<p>If you did not create this account, you can ignore this email.</p>
		`, acct.ConfirmationToken)
	case NotificationRecovery:
		subject = "Password recovery"
		body = fmt.Sprintf(`
			<h3>Password recovery requested</h3>
			<p>We received a request to recover the password for your account.</p>
			<p>Use the following token to set a new password: <strong>%s</strong></p>
			<p>If you did not request this change, you can ignore this email.</p>
		`, acct.RecoveryToken)
	case NotificationUnlock:
		subject = "Account unlock"
		body = fmt.Sprintf(`
			<h3>Your account has been locked</h3>
			<p>Too many failed sign in attempts locked your account.</p>
			<p>Use the following token to unlock it: <strong>%s</strong></p>
		`, acct.UnlockToken)
	default:
		return "", "", goerrors.New(
			fmt.Sprintf("unknown notification kind: %s", kind),
			goerrors.CategoryBadInput,
		).WithCode(goerrors.CodeBadRequest)
	}

	return subject, body, nil
}
