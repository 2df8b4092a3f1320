// Package config handles configuration for the server component,
// including defaults, JSON overlay, environment variables and command-line
// flags.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/server/auth"
)

// Config holds runtime settings for the gophauth server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the HTTP API.
//   - DatabaseDSN: PostgreSQL DSN (pgx) or "sqlite://<path>". Empty keeps
//     accounts in memory.
//   - SecretKey: HMAC secret for signing tokens (HS256), at least 32 bytes.
//   - TokenValidityDuration: lifetime of an issued token.
//   - CipherPassphrase / CipherSalt: when the passphrase is set, the password
//     cipher key is derived from it and survives restarts; otherwise a random
//     key is generated per process.
//   - LogLevel: debug, info, warn or error.
//   - MetricsEnabled: serve Prometheus metrics on /metrics.
type Config struct {
	EndpointAddrHTTP      string        `env:"GOPHAUTH_ADDRESS"`
	DatabaseDSN           string        `env:"GOPHAUTH_DATABASE_DSN"`
	SecretKey             string        `env:"GOPHAUTH_SECRET_KEY"`
	TokenValidityDuration time.Duration `env:"GOPHAUTH_TOKEN_VALIDITY"`
	CipherPassphrase      string        `env:"GOPHAUTH_CIPHER_PASSPHRASE"`
	CipherSalt            string        `env:"GOPHAUTH_CIPHER_SALT"`
	LogLevel              string        `env:"GOPHAUTH_LOG_LEVEL"`
	MetricsEnabled        bool          `env:"GOPHAUTH_METRICS_ENABLED"`
}

// LoadDefaults populates Config with development defaults.
// NOTE: the secret key is public; override it outside development.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.DatabaseDSN = ""
	c.SecretKey = "gophauth-development-secret-key-change-me"
	c.TokenValidityDuration = auth.DefaultTokenValidity
	c.CipherPassphrase = ""
	c.CipherSalt = "gophauth"
	c.LogLevel = "info"
	c.MetricsEnabled = true
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	if len(c.SecretKey) < auth.MinSecretLength {
		return fmt.Errorf("secret key is %d bytes: %w", len(c.SecretKey), auth.ErrWeakSecret)
	}
	if c.TokenValidityDuration <= 0 {
		return auth.ErrInvalidValidity
	}
	if c.EndpointAddrHTTP == "" {
		return errors.New("http address is empty")
	}
	return nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
