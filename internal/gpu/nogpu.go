//go:build nogpu

package gpu

import "github.com/gogpu/gpucontext"

// Backend is a stub for builds without GPU support. New always fails,
// so the canvas package serves every composite through its CPU path.
type Backend struct{}

// New reports the device as unavailable under the nogpu build tag.
func New(gpucontext.DeviceProvider) (*Backend, error) {
	return nil, ErrUnavailable
}

// Composite is unreachable under nogpu; New never returns a Backend.
func (b *Backend) Composite(string, []byte, int, int, int, int, []Pass) ([]byte, bool, error) {
	return nil, false, ErrUnavailable
}

// UpdateTexture is unreachable under nogpu.
func (b *Backend) UpdateTexture(string, []byte, int, int) error { return ErrUnavailable }

// RemoveTexture is unreachable under nogpu.
func (b *Backend) RemoveTexture(string) {}

// RecompilePrograms is unreachable under nogpu.
func (b *Backend) RecompilePrograms() {}

// Close is unreachable under nogpu.
func (b *Backend) Close() error { return nil }
