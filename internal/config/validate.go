package config

import (
	"fmt"
	"time"
)

// ValidKinds contains the device kinds the deployment engine knows how to
// render configuration for.
var ValidKinds = map[string]bool{
	"router":  true,
	"switch":  true,
	"generic": true,
}

// Validate checks the configuration for common errors and returns a detailed
// error if validation fails.
func (c *Config) Validate() error {
	if err := c.validateSource(); err != nil {
		return fmt.Errorf("source validation failed: %w", err)
	}

	if err := c.validateTargets(); err != nil {
		return fmt.Errorf("target validation failed: %w", err)
	}

	if err := c.validateDeploy(); err != nil {
		return fmt.Errorf("deploy validation failed: %w", err)
	}

	return nil
}

// validateSource ensures exactly one of url and file is configured.
func (c *Config) validateSource() error {
	if c.Source.URL == "" && c.Source.File == "" {
		return fmt.Errorf("either source.url or source.file is required")
	}
	if c.Source.URL != "" && c.Source.File != "" {
		return fmt.Errorf("source.url and source.file are mutually exclusive")
	}
	return nil
}

// validateTargets checks each target for required fields and a known kind.
func (c *Config) validateTargets() error {
	seen := make(map[string]bool, len(c.Targets))
	for i, t := range c.Targets {
		if t.Name == "" {
			return fmt.Errorf("targets[%d]: name is required", i)
		}
		if t.Address == "" {
			return fmt.Errorf("target %q: address is required", t.Name)
		}
		if t.Kind != "" && !ValidKinds[t.Kind] {
			return fmt.Errorf("target %q has invalid kind %q: must be one of router, switch, generic", t.Name, t.Kind)
		}
		if seen[t.Name] {
			return fmt.Errorf("duplicate target name %q", t.Name)
		}
		seen[t.Name] = true
	}
	return nil
}

// validateDeploy checks the retry and concurrency tuning values.
func (c *Config) validateDeploy() error {
	if c.Deploy.MaxAttempts < 0 {
		return fmt.Errorf("max_attempts must not be negative")
	}
	if c.Deploy.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative")
	}

	for _, field := range []struct {
		name  string
		value string
	}{
		{"retry_delay", c.Deploy.RetryDelay},
		{"max_delay", c.Deploy.MaxDelay},
		{"attempt_timeout", c.Deploy.AttemptTimeout},
	} {
		if field.value == "" {
			continue
		}
		if _, err := time.ParseDuration(field.value); err != nil {
			return fmt.Errorf("invalid %s %q: %w", field.name, field.value, err)
		}
	}

	return nil
}
