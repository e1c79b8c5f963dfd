package canvas

import "errors"

// Sentinel errors returned by the compositor.
var (
	// ErrClosed is returned when a composite is attempted after Close.
	ErrClosed = errors.New("canvas: compositor is closed")

	// ErrNilSource is returned when the source pixmap is nil.
	ErrNilSource = errors.New("canvas: source pixmap is nil")

	// ErrInvalidDimensions is returned when output width or height
	// is not positive.
	ErrInvalidDimensions = errors.New("canvas: output dimensions must be positive")
)
