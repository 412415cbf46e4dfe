package common

import (
	"errors"
)

// Common error constants
var (
	// ErrInvalidConfig is returned when an invalid configuration is provided
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUnknownJobKind is returned when a job submission names a kind
	// that is not registered
	ErrUnknownJobKind = errors.New("unknown job kind")

	// ErrInvalidPayload is returned when a job payload fails validation
	ErrInvalidPayload = errors.New("invalid job payload")
)
