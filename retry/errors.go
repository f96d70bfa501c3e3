package retry

import "errors"

var (
	// ErrExhausted is returned when every attempt failed. It wraps the last error.
	ErrExhausted = errors.New("retry attempts exhausted")

	// ErrInvalidMaxAttempts is returned for a policy with MaxAttempts <= 0.
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be positive")
)
