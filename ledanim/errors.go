package ledanim

import "github.com/pkg/errors"

var (
	// ErrInvalidOptions is returned by RequestTransition for malformed
	// transition options.
	ErrInvalidOptions = errors.New("invalid transition options")
	// ErrTickOrder is returned when an IndexGenerator is advanced with a tick
	// that is not strictly greater than the previous one.
	ErrTickOrder = errors.New("tick out of order")
	// ErrTickRange is returned when an IndexGenerator is advanced past its
	// last step.
	ErrTickRange = errors.New("tick out of range")
	// ErrUnknownAlgorithm is returned when parsing an unknown algorithm name.
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
)
