// Package config loads client configuration from the environment.
package config

import (
	"fmt"
	"net/url"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Config holds everything the client needs to reach the banking service.
type Config struct {
	// BaseURL is the banking service base URL.
	BaseURL string `env:"TELLER_API_URL,default=http://localhost:8080"`
	// SessionPath overrides the session cache location. Empty means the
	// per-user default.
	SessionPath string `env:"TELLER_SESSION_PATH"`
	// RoutesPath points at an optional YAML route table.
	RoutesPath string `env:"TELLER_ROUTES_PATH"`
	// LogLevel is a logrus level name.
	LogLevel string `env:"TELLER_LOG_LEVEL,default=info"`
}

// Load reads configuration from the environment, honoring a local .env file
// when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	parsed, err := url.Parse(c.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("config: TELLER_API_URL must be a valid URL")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("config: TELLER_API_URL scheme must be http or https")
	}
	return nil
}
