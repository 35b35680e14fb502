// Package retry provides exponential backoff retry with attempt
// accounting. The deployment executor uses it to drive per-target
// retry budgets, so [Do] reports how many attempts were made.
package retry

import (
	"context"
	"fmt"
	"time"
)

// Config holds retry configuration.
type Config struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// Option is a functional option for retry configuration.
type Option func(*Config)

// WithMaxAttempts sets the total attempt budget (first try included).
func WithMaxAttempts(n int) Option {
	return func(c *Config) {
		c.MaxAttempts = n
	}
}

// WithInitialDelay sets the delay before the second attempt.
func WithInitialDelay(d time.Duration) Option {
	return func(c *Config) {
		c.InitialDelay = d
	}
}

// WithMaxDelay caps the backoff delay.
func WithMaxDelay(d time.Duration) Option {
	return func(c *Config) {
		c.MaxDelay = d
	}
}

// WithMultiplier sets the backoff multiplier.
func WithMultiplier(m float64) Option {
	return func(c *Config) {
		c.Multiplier = m
	}
}

// Do executes the operation with exponential backoff until it succeeds or
// the attempt budget is exhausted. It returns the number of attempts made
// and, on failure, the last error.
//
// Context cancellation aborts the backoff wait between attempts; an attempt
// already running is never interrupted by Do itself (the operation receives
// ctx and decides how to honor it).
func Do(ctx context.Context, operation func(context.Context) error, opts ...Option) (int, error) {
	cfg := &Config{
		MaxAttempts:  3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}

	delay := cfg.InitialDelay
	var lastErr error

	for attempt := 1; ; attempt++ {
		lastErr = operation(ctx)
		if lastErr == nil {
			return attempt, nil
		}

		if attempt == cfg.MaxAttempts {
			return attempt, fmt.Errorf("operation failed after %d attempts: %w", attempt, lastErr)
		}

		select {
		case <-ctx.Done():
			return attempt, fmt.Errorf("canceled after %d attempts: %w (last error: %v)", attempt, ctx.Err(), lastErr)
		case <-time.After(delay):
			delay = time.Duration(float64(delay) * cfg.Multiplier)
			if delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}
		}
	}
}
