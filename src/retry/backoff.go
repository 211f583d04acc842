package retry

import (
	"math"
	"time"
)

// Config configures the bounded exponential-backoff retry policy used when
// calling the AI analysis service.
type Config struct {
	// MaxAttempts is the total number of attempts, including the first.
	// Default: 5
	MaxAttempts int

	// InitialBackoff is the floor delay applied after the first failed attempt.
	// Default: 2 seconds
	InitialBackoff time.Duration

	// MaxBackoff is the ceiling delay for any single wait.
	// Default: 60 seconds
	MaxBackoff time.Duration

	// BackoffMultiplier is the exponential growth factor between attempts.
	// Default: 2
	BackoffMultiplier float64
}

// DefaultConfig returns the retry configuration used in production.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:       5,
		InitialBackoff:    2 * time.Second,
		MaxBackoff:        60 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	defaults := DefaultConfig()

	if c.MaxAttempts == 0 {
		c.MaxAttempts = defaults.MaxAttempts
	}
	if c.InitialBackoff == 0 {
		c.InitialBackoff = defaults.InitialBackoff
	}
	if c.MaxBackoff == 0 {
		c.MaxBackoff = defaults.MaxBackoff
	}
	if c.BackoffMultiplier == 0 {
		c.BackoffMultiplier = defaults.BackoffMultiplier
	}
}

// Delay returns the wait before the next try after the given failed attempt
// (1-based). The delay grows as initial * multiplier^(attempt-1), clamped to
// [InitialBackoff, MaxBackoff]. Pure function of the config and attempt count.
func (c Config) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := time.Duration(float64(c.InitialBackoff) * math.Pow(c.BackoffMultiplier, float64(attempt-1)))
	if d < c.InitialBackoff {
		d = c.InitialBackoff
	}
	if d > c.MaxBackoff {
		d = c.MaxBackoff
	}
	return d
}
