//go:build !nogpu

package gpu

import (
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// createNoopDevice creates a noop device and queue for testing.
// Returns the device, queue, and a cleanup function.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

// newNoopBackend builds a Backend on a noop device, skipping adapter
// acquisition. The returned cleanup closes the backend and destroys the
// device.
func newNoopBackend(t *testing.T) (*Backend, func()) {
	t.Helper()
	device, queue, cleanup := createNoopDevice(t)
	b := &Backend{device: device, queue: queue, externalDevice: true}
	if err := b.initResources(); err != nil {
		cleanup()
		t.Fatalf("initResources failed: %v", err)
	}
	return b, func() {
		_ = b.Close()
		cleanup()
	}
}

func TestBackendInitResources(t *testing.T) {
	b, cleanup := newNoopBackend(t)
	defer cleanup()

	if b.sampler == nil {
		t.Error("expected non-nil sampler")
	}
	if b.programs == nil || b.textures == nil || b.buffers == nil {
		t.Error("expected caches to be initialized")
	}
	if b.quad == nil || b.quad.buf == nil {
		t.Error("expected quad vertex buffer")
	}
	if b.final.tex != nil {
		t.Error("final target must be created lazily, on first composite")
	}
}

func TestBackendClose(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	b := &Backend{device: device, queue: queue, externalDevice: true}
	if err := b.initResources(); err != nil {
		t.Fatalf("initResources failed: %v", err)
	}

	if err := b.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if b.sampler != nil || b.quad != nil || b.buffers != nil || b.textures != nil || b.programs != nil {
		t.Error("Close must release every resource")
	}
	if b.device != nil {
		t.Error("Close must drop the device reference")
	}

	// Double-close is safe.
	if err := b.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}
