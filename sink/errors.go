package sink

import "errors"

var (
	// ErrNilEmail is returned when Save is called without a record.
	ErrNilEmail = errors.New("email is nil")

	// ErrInvalidIndex is returned for negative record indices.
	ErrInvalidIndex = errors.New("index must be non-negative")

	// ErrDirRequired is returned when a sink is created without a directory.
	ErrDirRequired = errors.New("output directory is required")
)
