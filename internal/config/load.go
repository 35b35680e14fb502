package config

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// LoadFile reads and parses the run configuration from a YAML file.
func LoadFile(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var rawConfig map[string]interface{}
	if err := yaml.Unmarshal(data, &rawConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	var cfg Config
	if err := mapstructure.Decode(rawConfig, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.applyDefaults()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// applyDefaults fills unset fields with sensible defaults so the rest of the
// program never has to special-case zero values.
func (c *Config) applyDefaults() {
	if c.Deploy.MaxAttempts == 0 {
		c.Deploy.MaxAttempts = DefaultMaxAttempts
	}
	if c.Deploy.Concurrency == 0 {
		c.Deploy.Concurrency = DefaultConcurrency
	}
	if c.Deploy.RetryDelay == "" {
		c.Deploy.RetryDelay = DefaultRetryDelay.String()
	}
	if c.Deploy.MaxDelay == "" {
		c.Deploy.MaxDelay = DefaultMaxDelay.String()
	}
	if c.Deploy.AttemptTimeout == "" {
		c.Deploy.AttemptTimeout = DefaultAttemptTimeout.String()
	}

	for i := range c.Targets {
		if c.Targets[i].User == "" {
			c.Targets[i].User = DefaultUser
		}
		if c.Targets[i].Kind == "" {
			c.Targets[i].Kind = DefaultKind
		}
	}
}
