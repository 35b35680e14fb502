// Package config defines the run configuration for the ztp CLI: where the
// configuration document comes from, which devices to push it to, and how
// the deployment should behave.
package config

import "time"

// Config is the top-level run configuration, loaded from a ztp.yaml file.
type Config struct {
	Source  SourceConfig   `mapstructure:"source" yaml:"source"`
	Targets []TargetConfig `mapstructure:"targets" yaml:"targets,omitempty"`
	Deploy  DeployConfig   `mapstructure:"deploy" yaml:"deploy"`
}

// SourceConfig selects where the configuration document is fetched from.
// Exactly one of URL or File must be set.
type SourceConfig struct {
	URL   string `mapstructure:"url" yaml:"url,omitempty"`
	Token string `mapstructure:"token" yaml:"token,omitempty"`
	File  string `mapstructure:"file" yaml:"file,omitempty"`
}

// TargetConfig describes a single device the rendered configuration is
// deployed to.
type TargetConfig struct {
	Name    string `mapstructure:"name" yaml:"name"`
	Address string `mapstructure:"address" yaml:"address"`
	Kind    string `mapstructure:"kind" yaml:"kind,omitempty"`
	User    string `mapstructure:"user" yaml:"user,omitempty"`
	KeyFile string `mapstructure:"key_file" yaml:"key_file,omitempty"`
}

// DeployConfig tunes retry and concurrency behavior for the apply phase.
// Duration fields hold Go duration strings ("30s", "2m").
type DeployConfig struct {
	MaxAttempts    int    `mapstructure:"max_attempts" yaml:"max_attempts"`
	RetryDelay     string `mapstructure:"retry_delay" yaml:"retry_delay"`
	MaxDelay       string `mapstructure:"max_delay" yaml:"max_delay"`
	AttemptTimeout string `mapstructure:"attempt_timeout" yaml:"attempt_timeout"`
	Concurrency    int    `mapstructure:"concurrency" yaml:"concurrency"`
	FailFast       bool   `mapstructure:"fail_fast" yaml:"fail_fast"`
}

// Default deployment tuning, applied when the config file leaves a field unset.
const (
	DefaultMaxAttempts    = 3
	DefaultRetryDelay     = 1 * time.Second
	DefaultMaxDelay       = 30 * time.Second
	DefaultAttemptTimeout = 60 * time.Second
	DefaultConcurrency    = 4
	DefaultUser           = "admin"
	DefaultKind           = "generic"
)

// RetryDelayDuration parses the retry delay, falling back to the default on
// empty or invalid input.
func (d DeployConfig) RetryDelayDuration() time.Duration {
	return parseDuration(d.RetryDelay, DefaultRetryDelay)
}

// MaxDelayDuration parses the backoff cap, falling back to the default.
func (d DeployConfig) MaxDelayDuration() time.Duration {
	return parseDuration(d.MaxDelay, DefaultMaxDelay)
}

// AttemptTimeoutDuration parses the per-attempt timeout, falling back to the
// default.
func (d DeployConfig) AttemptTimeoutDuration() time.Duration {
	return parseDuration(d.AttemptTimeout, DefaultAttemptTimeout)
}

// parseDuration parses a duration string. If the string is empty or parsing
// fails, the default value is returned.
func parseDuration(val string, defaultVal time.Duration) time.Duration {
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}
