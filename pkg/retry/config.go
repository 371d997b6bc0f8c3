// Package retry provides the bounded exponential-backoff configuration shared
// by the command service's optimistic-lock retry loop (spec §4.2) and the
// outbox publisher's bus-failure retry (spec §4.4).
package retry

import (
	"fmt"
	"time"
)

// Default tuning for the command service's CAS retry loop (spec §6.4:
// command.retry.maxAttempts=5, baseDelayMs=10, factor=2).
const (
	DefaultMaxRetries     = 5
	DefaultInitialBackoff = 10 * time.Millisecond
	DefaultMaxBackoff     = 2 * time.Second
	DefaultJitterFactor   = 0.25
)

// Tuning for the outbox publisher's bus-failure retry (spec §4.4), which can
// tolerate longer waits since it runs off the caller's critical path.
const (
	PublisherMaxRetries     = 10
	PublisherInitialBackoff = 1 * time.Second
	PublisherMaxBackoff     = 30 * time.Minute
)

// Config describes a bounded exponential backoff schedule.
type Config struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	JitterFactor   float64
}

// DefaultCommandRetryConfig returns the tuning for per-SKU CAS retry.
func DefaultCommandRetryConfig() Config {
	return Config{
		MaxRetries:     DefaultMaxRetries,
		InitialBackoff: DefaultInitialBackoff,
		MaxBackoff:     DefaultMaxBackoff,
		JitterFactor:   DefaultJitterFactor,
	}
}

// DefaultPublisherRetryConfig returns the tuning for outbox bus-failure retry.
func DefaultPublisherRetryConfig() Config {
	return Config{
		MaxRetries:     PublisherMaxRetries,
		InitialBackoff: PublisherInitialBackoff,
		MaxBackoff:     PublisherMaxBackoff,
		JitterFactor:   DefaultJitterFactor,
	}
}

// WithMaxRetries returns a copy of cfg with MaxRetries set.
func (c Config) WithMaxRetries(n int) Config {
	c.MaxRetries = n
	return c
}

// WithInitialBackoff returns a copy of cfg with InitialBackoff set.
func (c Config) WithInitialBackoff(d time.Duration) Config {
	c.InitialBackoff = d
	return c
}

// WithMaxBackoff returns a copy of cfg with MaxBackoff set.
func (c Config) WithMaxBackoff(d time.Duration) Config {
	c.MaxBackoff = d
	return c
}

// WithJitterFactor returns a copy of cfg with JitterFactor set.
func (c Config) WithJitterFactor(f float64) Config {
	c.JitterFactor = f
	return c
}

// ConfigValidationError reports a single invalid Config field.
type ConfigValidationError struct {
	Field   string
	Message string
}

func (e ConfigValidationError) Error() string {
	return fmt.Sprintf("retry: invalid %s: %s", e.Field, e.Message)
}

// Validate checks the schedule is internally consistent.
func (c Config) Validate() error {
	if c.MaxRetries < 1 {
		return ConfigValidationError{Field: "MaxRetries", Message: "must be >= 1"}
	}

	if c.InitialBackoff <= 0 {
		return ConfigValidationError{Field: "InitialBackoff", Message: "must be > 0"}
	}

	if c.MaxBackoff <= 0 {
		return ConfigValidationError{Field: "MaxBackoff", Message: "must be > 0"}
	}

	if c.MaxBackoff < c.InitialBackoff {
		return ConfigValidationError{Field: "MaxBackoff", Message: "must be >= InitialBackoff"}
	}

	if c.JitterFactor < 0.0 || c.JitterFactor > 1.0 {
		return ConfigValidationError{Field: "JitterFactor", Message: "must be in range [0.0, 1.0]"}
	}

	return nil
}
