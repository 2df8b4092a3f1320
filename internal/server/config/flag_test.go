package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"cmd",
				"-a", "127.0.0.1:9090", "-d", "db", "-s", "secret",
				"-t", "30", "-k", "pass", "-l", "debug",
			},
			expected: &Config{
				EndpointAddrHTTP:      "127.0.0.1:9090",
				DatabaseDSN:           "db",
				SecretKey:             "secret",
				TokenValidityDuration: 30 * time.Minute,
				CipherPassphrase:      "pass",
				LogLevel:              "debug",
			},
		},
		{
			name: "foreign flags ignored",
			args: []string{"cmd", "-x", "1", "-a", ":1"},
			expected: &Config{
				EndpointAddrHTTP:      ":1",
				TokenValidityDuration: 90 * time.Second,
			},
		},
		{
			name:        "bad int",
			args:        []string{"cmd", "-t", "soon"},
			expectPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{TokenValidityDuration: 90 * time.Second}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(tt.expected, config))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
