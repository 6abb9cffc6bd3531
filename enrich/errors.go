package enrich

import "errors"

var (
	// ErrGeneratorRequired is returned when an overview generator is not provided.
	ErrGeneratorRequired = errors.New("overview generator required")

	// ErrInvalidMaxRetries is returned when MaxRetries is negative.
	ErrInvalidMaxRetries = errors.New("MaxRetries must not be negative")

	// ErrInvalidConfig is returned when the pipeline configuration fails validation.
	ErrInvalidConfig = errors.New("invalid pipeline configuration")
)
