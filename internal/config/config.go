package config

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Load reads configuration from environment variables and .env file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to process environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Turso.PrimaryURL != "" && c.Turso.AuthToken == "" {
		return fmt.Errorf("TURSO_AUTH_TOKEN is required when TURSO_PRIMARY_URL is set")
	}
	if c.Worker.Cooldown < 0 || c.Worker.RateLimitBackoff < 0 {
		return fmt.Errorf("worker durations must not be negative")
	}
	if c.RobotEvents.BaseURL == "" {
		return fmt.Errorf("ROBOTEVENTS_BASE_URL must not be empty")
	}
	return nil
}
