package led

import "github.com/pkg/errors"

var (
	// ErrInvalidConfiguration is returned for bad construction arguments,
	// such as a non-positive LED count or a malformed color.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrIndexOutOfRange is returned when writing outside of the pixel
	// buffer. It indicates a defect in the caller.
	ErrIndexOutOfRange = errors.New("pixel index out of range")
)
