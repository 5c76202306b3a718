package account

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

// TokenPurpose distinguishes the three lifecycle token flows. A token
// issued for one purpose never verifies for another.
type TokenPurpose string

const (
	TokenPurposeConfirmation TokenPurpose = "confirmation"
	TokenPurposeUnlock       TokenPurpose = "unlock"
	TokenPurposeRecovery     TokenPurpose = "recovery"
)

func (p TokenPurpose) title() string {
	switch p {
	case TokenPurposeConfirmation:
		return "Confirmation"
	case TokenPurposeUnlock:
		return "Unlock"
	case TokenPurposeRecovery:
		return "Recovery"
	}
	return "Lifecycle"
}

// Tokenizer issues and verifies the expiring, tamper-evident tokens
// shared by the confirmation, unlock, and recovery flows. The signing
// key is derived from a server-held secret plus the token's own expiry
// instant and purpose, so every re-issuance produces a structurally
// different key: a stale token from an earlier expiry window can never
// validate against a regenerated one, and vice versa.
type Tokenizer struct {
	secret []byte
	logger Logger
}

// NewTokenizer returns a Tokenizer sealing tokens with the given secret.
func NewTokenizer(secret []byte, logger Logger) *Tokenizer {
	return &Tokenizer{
		secret: secret,
		logger: normalizeLogger(logger),
	}
}

type tokenClaims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// Issue seals the identifier and purpose into a token bound to the
// given expiry instant.
func (t *Tokenizer) Issue(expiryAt time.Time, purpose TokenPurpose, identifier string) (string, error) {
	claims := &tokenClaims{
		Purpose: string(purpose),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identifier,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiryAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(t.windowKey(expiryAt, purpose))
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign "+string(purpose)+" token")
	}

	return signed, nil
}

// Verify re-derives the key from the stored expiry and accepts the token
// only if it binds the expected identifier and purpose. Malformed,
// tampered, or foreign tokens report false, never an error; expiry of
// the stored window is the caller's check.
func (t *Tokenizer) Verify(expiryAt time.Time, purpose TokenPurpose, identifier, token string) bool {
	claims := &tokenClaims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(tk *jwt.Token) (any, error) {
		if _, ok := tk.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tk.Header["alg"])
		}
		return t.windowKey(expiryAt, purpose), nil
	}, jwt.WithoutClaimsValidation())

	if err != nil || !parsed.Valid {
		t.logger.Debug("%s token rejected: %v", purpose, err)
		return false
	}

	return claims.Purpose == string(purpose) && claims.Subject == identifier
}

func (t *Tokenizer) windowKey(expiryAt time.Time, purpose TokenPurpose) []byte {
	mac := hmac.New(sha256.New, t.secret)
	mac.Write([]byte(purpose))
	mac.Write([]byte(strconv.FormatInt(expiryAt.UnixMilli(), 10)))
	return mac.Sum(nil)
}
