package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
	"github.com/dmitrijs2005/gophauth/internal/timex"
)

// JsonConfig is the shape of the JSON config file. Durations accept both
// strings such as "10h" and integer nanoseconds (see timex.Duration).
// Pointer fields distinguish "absent" from "false".
type JsonConfig struct {
	EndpointAddrHTTP      string         `json:"endpoint_addr_http"`
	DatabaseDSN           string         `json:"database_dsn"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	CipherPassphrase      string         `json:"cipher_passphrase"`
	CipherSalt            string         `json:"cipher_salt"`
	LogLevel              string         `json:"log_level"`
	MetricsEnabled        *bool          `json:"metrics_enabled"`
}

// parseJson loads the file named by -c or -config, if any, and copies every
// field present in it into config. An unreadable file or invalid JSON panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.CipherPassphrase, c.CipherPassphrase)
	setString(&config.CipherSalt, c.CipherSalt)
	setString(&config.LogLevel, c.LogLevel)
	if c.TokenValidityDuration.Duration > 0 {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.MetricsEnabled != nil {
		config.MetricsEnabled = *c.MetricsEnabled
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
