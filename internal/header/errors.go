package header

import "errors"

var (
	// ErrInvalidArgument is returned when a raw header mode is outside the
	// accepted set, or when Resolve receives a Mode that is not one of the
	// declared constants.
	ErrInvalidArgument = errors.New("invalid header mode")

	// ErrEmptySource is returned when auto-detection is asked to inspect a
	// sample that holds no rows.
	ErrEmptySource = errors.New("empty source")
)
