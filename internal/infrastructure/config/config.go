package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"github.com/GriffinCanCode/taskregistry/internal/shared/types"
)

// Config holds all application configuration.
type Config struct {
	Registry RegistryConfig
	Logging  LogConfig
}

// RegistryConfig locates the registry tree and selects the overlay mode.
type RegistryConfig struct {
	Root    string        `envconfig:"REGISTRY_ROOT" default:"registries"`
	RunMode types.RunMode `envconfig:"RUN_MODE" default:"production"`
	Watch   bool          `envconfig:"REGISTRY_WATCH" default:"false"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Registry: RegistryConfig{
			Root:    "registries",
			RunMode: types.RunModeProduction,
			Watch:   false,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
	}
}
