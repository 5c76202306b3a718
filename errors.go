package account

import (
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

const (
	TextCodeTokenExpired        = "account_token_expired"
	TextCodeTokenInvalid        = "account_token_invalid"
	TextCodeInvalidCredentials  = "account_invalid_credentials"
	TextCodeAccountLocked       = "account_locked"
	TextCodeAccountNotConfirmed = "account_not_confirmed"
	TextCodeConfirmationResent  = "account_confirmation_resent"
	TextCodeAccountConflict     = "account_identifier_conflict"
	TextCodeNoPassword          = "account_no_password"
)

// ErrAccountNotConfirmed is returned by the confirmation gate while a
// live confirmation token is still pending.
var ErrAccountNotConfirmed = goerrors.New("Account not confirmed", goerrors.CategoryAuth).
	WithTextCode(TextCodeAccountNotConfirmed).
	WithCode(goerrors.CodeForbidden)

// ErrConfirmationResent is returned by the confirmation gate after an
// expired token has been regenerated and resent.
var ErrConfirmationResent = goerrors.New("Confirmation token expired. Check your email for confirmation instructions.", goerrors.CategoryAuth).
	WithTextCode(TextCodeConfirmationResent).
	WithCode(goerrors.CodeForbidden)

// ErrAccountLocked is returned whenever a locked account is gated out of
// authentication, including right after the lock transition itself.
var ErrAccountLocked = goerrors.New("Account locked. Check unlock instructions sent to you.", goerrors.CategoryAuth).
	WithTextCode(TextCodeAccountLocked).
	WithCode(goerrors.CodeForbidden)

// ErrNoPasswordProvided is returned when a password change or recovery
// is attempted without a new password.
var ErrNoPasswordProvided = goerrors.New("No password provided", goerrors.CategoryValidation).
	WithTextCode(TextCodeNoPassword).
	WithCode(goerrors.CodeBadRequest)

// ExpiredTokenError builds the expired-token failure for one of the
// three token flows.
func ExpiredTokenError(purpose TokenPurpose) *goerrors.Error {
	return goerrors.New(purpose.title()+" token expired", goerrors.CategoryValidation).
		WithTextCode(TextCodeTokenExpired).
		WithCode(goerrors.CodeBadRequest)
}

// InvalidTokenError builds the invalid-token failure for one of the
// three token flows. Malformed, mismatched, and unknown tokens all
// collapse into this outcome.
func InvalidTokenError(purpose TokenPurpose) *goerrors.Error {
	return goerrors.New("Invalid "+string(purpose)+" token", goerrors.CategoryAuth).
		WithTextCode(TextCodeTokenInvalid).
		WithCode(goerrors.CodeUnauthorized)
}

// InvalidCredentialsError builds the deliberately generic authentication
// failure. Missing credentials, unknown identifiers, and password
// mismatches all surface this same error so callers cannot enumerate
// accounts.
func InvalidCredentialsError(identifierField, passwordField string) *goerrors.Error {
	return goerrors.New(fmt.Sprintf("Incorrect %s or %s", identifierField, passwordField), goerrors.CategoryAuth).
		WithTextCode(TextCodeInvalidCredentials).
		WithCode(goerrors.CodeUnauthorized)
}

// ConflictError reports a duplicate identifier at registration.
func ConflictError(identifierField, identifier string) *goerrors.Error {
	return goerrors.New(fmt.Sprintf("Account with %s %s already exist", identifierField, identifier), goerrors.CategoryConflict).
		WithTextCode(TextCodeAccountConflict).
		WithCode(goerrors.CodeConflict).
		WithMetadata(map[string]any{identifierField: identifier})
}

// IsExpiredTokenError checks for expired lifecycle tokens.
func IsExpiredTokenError(err error) bool {
	return hasTextCode(err, TextCodeTokenExpired)
}

// IsInvalidTokenError checks for invalid lifecycle tokens.
func IsInvalidTokenError(err error) bool {
	return hasTextCode(err, TextCodeTokenInvalid)
}

// IsLockedError checks for the locked-account failure.
func IsLockedError(err error) bool {
	return hasTextCode(err, TextCodeAccountLocked)
}

// IsUnconfirmedError checks for either unconfirmed outcome, including
// the regenerated-token variant.
func IsUnconfirmedError(err error) bool {
	return hasTextCode(err, TextCodeAccountNotConfirmed) ||
		hasTextCode(err, TextCodeConfirmationResent)
}

// IsAuthenticationError checks for the generic credential failure.
func IsAuthenticationError(err error) bool {
	return hasTextCode(err, TextCodeInvalidCredentials)
}

// IsConflictError checks for duplicate-identifier conflicts.
func IsConflictError(err error) bool {
	if hasTextCode(err, TextCodeAccountConflict) {
		return true
	}
	return hasCategory(err, goerrors.CategoryConflict)
}

func hasTextCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich.TextCode == code
	}
	return false
}

func hasCategory(err error, category goerrors.Category) bool {
	if err == nil {
		return false
	}
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich.Category == category
	}
	return false
}
