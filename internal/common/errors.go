// Package common defines shared constants and sentinel errors used across
// client and server layers of gophauth. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Account lifecycle errors.
	ErrDuplicateAccount = errors.New("user already exists")
	ErrValidationFailed = errors.New("validation failed")

	// Auth errors (missing, expired, malformed or mis-signed token).
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrMalformedHeader    = errors.New("malformed authorization header")

	// Cipher errors (key mismatch, corrupted ciphertext).
	ErrCryptoFailure = errors.New("crypto failure")
)
