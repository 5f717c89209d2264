package config

import (
	"fmt"

	"github.com/caarlos0/env"
)

// Config carries process-level settings. Secrets (database URI, bootstrap
// admin password) come only from the environment, never from literals.
type Config struct {
	ServerAddr    string `env:"RUN_ADDRESS"`
	LogLevel      string `env:"LOG_LEVEL"`
	DatabaseURI   string `env:"DATABASE_URI"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
}

func NewConfig() (Config, error) {
	cfg := Config{
		ServerAddr: "0.0.0.0:8080",
		LogLevel:   "info",
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("env.Parse: %w", err)
	}

	return cfg, nil
}
