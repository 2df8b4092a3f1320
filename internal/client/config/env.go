package config

import "github.com/caarlos0/env/v11"

// parseEnv overlays GOPHAUTH_* variables; unset ones change nothing.
func parseEnv(cfg *Config) {
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}
}
