package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	t.Setenv("GOPHAUTH_SERVER_URL", "https://auth.example")
	t.Setenv("GOPHAUTH_REQUEST_TIMEOUT", "3s")

	var c Config
	c.LoadDefaults()
	require.NotPanics(t, func() { parseEnv(&c) })

	assert.Equal(t, "https://auth.example", c.ServerURL)
	assert.Equal(t, 3*time.Second, c.RequestTimeout)
	assert.Empty(t, c.Token)
}

func TestParseEnv_Malformed(t *testing.T) {
	t.Setenv("GOPHAUTH_REQUEST_TIMEOUT", "soon")

	var c Config
	assert.Panics(t, func() { parseEnv(&c) })
}
