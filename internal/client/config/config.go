package config

import "time"

// Config holds runtime settings for the gophauth CLI.
//
// Fields:
//   - ServerURL: base URL of the gophauth HTTP API.
//   - Token: bearer token used by the login command.
//   - RequestTimeout: upper bound for one API call.
type Config struct {
	ServerURL      string        `env:"GOPHAUTH_SERVER_URL"`
	Token          string        `env:"GOPHAUTH_TOKEN"`
	RequestTimeout time.Duration `env:"GOPHAUTH_REQUEST_TIMEOUT"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.Token = ""
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags (if present).
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
