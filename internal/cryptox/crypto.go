// Package cryptox implements the reversible protection applied to stored
// account passwords.
//
// Passwords are sealed with AES-GCM under a single process-wide key. The
// server can recover the original plaintext, which the login endpoint relies
// on. The key is generated at startup and never persisted unless the operator
// explicitly configures a passphrase, so restarting the process invalidates
// every password protected by the previous key.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"golang.org/x/crypto/argon2"
)

// KeySize is the AES-128 key length in bytes.
const KeySize = 16

// GenerateKey returns a fresh random AES key.
func GenerateKey() []byte {
	return common.GenerateRandByteArray(KeySize)
}

// DeriveKey stretches an operator-supplied passphrase into an AES key with
// Argon2id. The same passphrase and salt always yield the same key.
func DeriveKey(passphrase []byte, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, KeySize)
}

// PasswordCipher protects and recovers password strings. It is immutable
// after construction and safe for concurrent use.
type PasswordCipher struct {
	aead cipher.AEAD
}

// NewPasswordCipher builds a cipher bound to key. The key must be a valid AES
// key length (16, 24, or 32 bytes).
func NewPasswordCipher(key []byte) (*PasswordCipher, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrCryptoFailure, err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrCryptoFailure, err)
	}

	return &PasswordCipher{aead: aead}, nil
}

// Protect seals plaintext and returns base64(nonce || ciphertext). A new
// random nonce is drawn for every call, so protecting the same password twice
// gives different results.
func (c *PasswordCipher) Protect(plaintext string) (string, error) {
	if c == nil || c.aead == nil {
		return "", fmt.Errorf("%w: cipher is not initialized", common.ErrCryptoFailure)
	}

	nonce := common.GenerateRandByteArray(c.aead.NonceSize())
	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)

	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Recover reverses Protect. Malformed encoding, truncated input, tampering
// and key mismatch are all reported as common.ErrCryptoFailure.
func (c *PasswordCipher) Recover(protected string) (string, error) {
	if c == nil || c.aead == nil {
		return "", fmt.Errorf("%w: cipher is not initialized", common.ErrCryptoFailure)
	}

	sealed, err := base64.StdEncoding.DecodeString(protected)
	if err != nil {
		return "", fmt.Errorf("%w: decode: %w", common.ErrCryptoFailure, err)
	}

	nonceSize := c.aead.NonceSize()
	if len(sealed) < nonceSize+c.aead.Overhead() {
		return "", fmt.Errorf("%w: ciphertext too short", common.ErrCryptoFailure)
	}

	nonce, ciphertext := sealed[:nonceSize], sealed[nonceSize:]
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: open: %w", common.ErrCryptoFailure, err)
	}

	return string(plaintext), nil
}
