package enrich

import (
	"fmt"
	"time"
)

// Config holds configuration for a pipeline run.
type Config struct {
	// InputPath is the JSON document holding the source fault records.
	InputPath string

	// OutputPath is where the enriched document is written. The progress
	// checkpoint lives next to it (see CheckpointPath).
	OutputPath string

	// Model is the generation model identifier recorded in run metadata.
	Model string

	// Workers is the fixed worker pool size.
	Workers int

	// BatchSize is how many record completions sit between output flushes.
	BatchSize int

	// MaxRetries is the per-call retry budget for rate-limited failures.
	MaxRetries int

	// RetryDelay is the initial backoff delay; it doubles per retry.
	RetryDelay time.Duration

	// RateLimit is the sustained external call rate in calls per second.
	// Zero or negative disables throttling.
	RateLimit float64

	// Burst is the token-bucket capacity for short bursts.
	Burst float64

	// TestMode caps the run to the first TestCount records after dedup.
	TestMode  bool
	TestCount int
}

// DefaultConfig returns a Config with sensible defaults. Input, output, and
// model must still be supplied.
func DefaultConfig() *Config {
	return &Config{
		Workers:    4,
		BatchSize:  10,
		MaxRetries: 4,
		RetryDelay: 1 * time.Second,
		RateLimit:  3,
		Burst:      3,
		TestCount:  5,
	}
}

// Validate checks that the configuration is complete and in range.
func (c *Config) Validate() error {
	if c.InputPath == "" {
		return fmt.Errorf("%w: InputPath is required", ErrInvalidConfig)
	}
	if c.OutputPath == "" {
		return fmt.Errorf("%w: OutputPath is required", ErrInvalidConfig)
	}
	if c.Model == "" {
		return fmt.Errorf("%w: Model is required", ErrInvalidConfig)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: Workers must be at least 1", ErrInvalidConfig)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("%w: BatchSize must be at least 1", ErrInvalidConfig)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("%w: MaxRetries must not be negative", ErrInvalidConfig)
	}
	if c.TestMode && c.TestCount < 1 {
		return fmt.Errorf("%w: TestCount must be at least 1 in test mode", ErrInvalidConfig)
	}
	return nil
}
