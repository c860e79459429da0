// Package config assembles the service configuration from a YAML file,
// an optional .env file, and environment variables, in that order of
// increasing precedence.
package config

import (
	"fmt"

	"github.com/kbukum/noteboard/internal/logger"
	"github.com/kbukum/noteboard/internal/server"
	"github.com/kbukum/noteboard/internal/storage"
	"github.com/kbukum/noteboard/internal/token"
)

// Config is the full configuration for the noteboard service.
type Config struct {
	Name        string `yaml:"name" mapstructure:"name"`
	Environment string `yaml:"environment" mapstructure:"environment"`
	Version     string `yaml:"version" mapstructure:"version"`
	Debug       bool   `yaml:"debug" mapstructure:"debug"`

	Logging logger.Config  `yaml:"logging" mapstructure:"logging"`
	Server  server.Config  `yaml:"server" mapstructure:"server"`
	Storage storage.Config `yaml:"storage" mapstructure:"storage"`
	Session token.Config   `yaml:"session" mapstructure:"session"`
}

// ApplyDefaults fills in defaults for every section.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "noteboard"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	if c.Debug && c.Logging.Level == "" {
		c.Logging.Level = "debug"
	}
	c.Logging.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Storage.ApplyDefaults()
	c.Session.ApplyDefaults()
}

// Validate checks the whole configuration. The session secret is the one
// field with no workable default, so it fails loudly when missing.
func (c *Config) Validate() error {
	validEnvs := []string{"development", "staging", "production"}
	found := false
	for _, v := range validEnvs {
		if c.Environment == v {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("environment must be one of [development, staging, production] (got: %s)", c.Environment)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Storage.Validate(); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Session.Validate(); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	return nil
}

// Load resolves config files, reads them, applies defaults, and validates.
func Load(opts ...LoaderOption) (*Config, error) {
	var cfg Config
	if err := loadInto(&cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
