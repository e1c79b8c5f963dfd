package gpu

import "errors"

// Package errors.
var (
	// ErrUnavailable is returned by New when no GPU device can be
	// acquired (no backend compiled in, no adapter present, or the
	// nogpu build tag is set).
	ErrUnavailable = errors.New("gpu: no device available")

	// ErrNilDevice is returned when a device provider hands back a nil
	// or foreign device handle.
	ErrNilDevice = errors.New("gpu: provider returned no usable device")

	// ErrProgramFailed marks an effect program whose shader failed to
	// compile or link. Passes using it are skipped.
	ErrProgramFailed = errors.New("gpu: program failed to compile")
)
