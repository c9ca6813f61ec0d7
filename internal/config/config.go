// Package config loads the admin client configuration from the environment.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the CLI needs to reach the backend.
type Config struct {
	AppName         string        `env:"APP_NAME" envDefault:"Shop Admin"`
	BaseURL         string        `env:"ADMIN_API_BASE_URL" envDefault:"http://localhost:4000/api"`
	CredentialsFile string        `env:"ADMIN_CREDENTIALS_FILE"` // empty means the user config dir default
	HTTPTimeout     time.Duration `env:"ADMIN_HTTP_TIMEOUT" envDefault:"30s"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses the configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
