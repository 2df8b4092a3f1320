// Package auth issues and validates the signed bearer tokens that carry a
// caller's identity, and defines the request-scoped Principal installed once a
// token has been accepted.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// MinSecretLength is the shortest HMAC key accepted for HS256 signing.
const MinSecretLength = 32

// DefaultTokenValidity is how long an issued token stays valid.
const DefaultTokenValidity = 10 * time.Hour

var (
	ErrWeakSecret      = fmt.Errorf("secret key must be at least %d bytes", MinSecretLength)
	ErrInvalidValidity = errors.New("token validity must be positive")
)

// Claims is the token payload. Username repeats the subject; older clients
// decode that claim instead of "sub".
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username,omitempty"`
}

// TokenSettings is the key material and lifetime shared by TokenIssuer and
// TokenValidator. It is built once at startup and never mutated.
type TokenSettings struct {
	Secret   []byte
	Validity time.Duration
	// Clock returns the current instant; time.Now when nil.
	Clock func() time.Time
}

func (s TokenSettings) validate() error {
	if len(s.Secret) < MinSecretLength {
		return ErrWeakSecret
	}
	if s.Validity <= 0 {
		return ErrInvalidValidity
	}
	return nil
}

func (s TokenSettings) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

// TokenIssuer mints HS256 tokens for account emails.
type TokenIssuer struct {
	settings TokenSettings
}

// NewTokenIssuer fails fast when the secret is too short for HS256 or the
// validity is not positive.
func NewTokenIssuer(s TokenSettings) (*TokenIssuer, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &TokenIssuer{settings: s}, nil
}

// Issue returns a token whose subject is the given email, issued now and
// expiring after the configured validity. Every call carries a fresh token
// id, so two tokens for the same subject never compare equal.
func (i *TokenIssuer) Issue(subject string) (string, error) {
	now := i.settings.now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.settings.Validity)),
		},
		Username: subject,
	})

	tokenString, err := token.SignedString(i.settings.Secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return tokenString, nil
}
