package config

import "github.com/caarlos0/env/v11"

// parseEnv overlays GOPHAUTH_* environment variables. Unset variables leave
// the current values alone. A malformed value panics, as with bad flags.
func parseEnv(config *Config) {
	if err := env.Parse(config); err != nil {
		panic(err)
	}
}
