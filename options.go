package canvas

import "github.com/gogpu/gpucontext"

// Option configures a Compositor during creation.
//
// Example:
//
//	// Default: standalone GPU device, 50-entry result cache.
//	comp, err := canvas.NewCompositor()
//
//	// Share a host application's device:
//	comp, err := canvas.NewCompositor(canvas.WithDeviceProvider(provider))
type Option func(*compositorOptions)

// compositorOptions holds optional configuration for Compositor creation.
type compositorOptions struct {
	provider        gpucontext.DeviceProvider
	resultCacheSize int
	disableGPU      bool
}

// defaultOptions returns the default compositor options.
func defaultOptions() compositorOptions {
	return compositorOptions{
		resultCacheSize: ResultCacheSize,
	}
}

// WithDeviceProvider shares an existing GPU device instead of acquiring
// a standalone one. Use when embedding the compositor in a host
// application that already owns a device (for example via
// gpucontext.Get()).
func WithDeviceProvider(p gpucontext.DeviceProvider) Option {
	return func(o *compositorOptions) {
		o.provider = p
	}
}

// WithResultCacheSize bounds the number of memoized composite results.
// Values <= 0 keep the default (50).
func WithResultCacheSize(n int) Option {
	return func(o *compositorOptions) {
		o.resultCacheSize = n
	}
}

// WithoutGPU forces every composite down the CPU passthrough path.
// Intended for tests and headless environments without a usable
// adapter.
func WithoutGPU() Option {
	return func(o *compositorOptions) {
		o.disableGPU = true
	}
}
