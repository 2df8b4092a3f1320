package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	t.Setenv("GOPHAUTH_ADDRESS", ":9999")
	t.Setenv("GOPHAUTH_SECRET_KEY", "an-env-provided-secret-key-0123456789")
	t.Setenv("GOPHAUTH_TOKEN_VALIDITY", "90s")
	t.Setenv("GOPHAUTH_CIPHER_PASSPHRASE", "correct horse")
	t.Setenv("GOPHAUTH_METRICS_ENABLED", "false")

	var c Config
	c.LoadDefaults()
	require.NotPanics(t, func() { parseEnv(&c) })

	assert.Equal(t, ":9999", c.EndpointAddrHTTP)
	assert.Equal(t, "an-env-provided-secret-key-0123456789", c.SecretKey)
	assert.Equal(t, 90*time.Second, c.TokenValidityDuration)
	assert.Equal(t, "correct horse", c.CipherPassphrase)
	assert.False(t, c.MetricsEnabled)

	// untouched
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "gophauth", c.CipherSalt)
}

func TestParseEnv_Malformed(t *testing.T) {
	t.Setenv("GOPHAUTH_TOKEN_VALIDITY", "ten hours")

	var c Config
	assert.Panics(t, func() { parseEnv(&c) })
}
