//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	_ "github.com/gogpu/wgpu/hal/vulkan" // register the Vulkan backend
)

// Backend owns the GPU device and every compositing resource tied to
// it: the program cache, the source texture cache, the ping-pong
// framebuffer pair, the shared quad, and the final readback target.
// One Backend per compositor instance; nothing is shared across
// instances.
type Backend struct {
	instance       hal.Instance // non-nil only for standalone devices
	device         hal.Device
	queue          hal.Queue
	externalDevice bool

	programs *programCache
	textures *textureCache
	buffers  *pingPong
	quad     *quad
	sampler  hal.Sampler

	final finalTarget
}

// New acquires a GPU device and builds the compositing resources on
// it. With a nil provider a standalone Vulkan device is created; with
// a provider (for example gpucontext.Get() inside a host application)
// the shared device is used and never destroyed by this package.
func New(provider gpucontext.DeviceProvider) (*Backend, error) {
	b := &Backend{}

	if provider != nil {
		if err := b.useProvider(provider); err != nil {
			return nil, err
		}
	} else if err := b.initStandalone(); err != nil {
		return nil, err
	}

	if err := b.initResources(); err != nil {
		b.releaseDevice()
		return nil, err
	}
	return b, nil
}

// initResources builds the compositing resources on an already
// acquired device and queue.
func (b *Backend) initResources() error {
	sampler, err := b.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "composite_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeLinear,
	})
	if err != nil {
		return fmt.Errorf("gpu: create sampler: %w", err)
	}
	b.sampler = sampler

	b.programs = newProgramCache(b.device)
	b.textures = newTextureCache(b.device, b.queue)
	b.buffers = newPingPong(b.device)

	q, err := newQuad(b.device, b.queue)
	if err != nil {
		b.device.DestroySampler(b.sampler)
		b.sampler = nil
		return err
	}
	b.quad = q
	return nil
}

// useProvider adopts a shared device from a host application. The
// provider must expose the underlying HAL handles via HalDevice() any
// and HalQueue() any.
func (b *Backend) useProvider(provider gpucontext.DeviceProvider) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return fmt.Errorf("%w: provider does not expose HAL types", ErrNilDevice)
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("%w: provider HalDevice is not hal.Device", ErrNilDevice)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("%w: provider HalQueue is not hal.Queue", ErrNilDevice)
	}

	b.device = device
	b.queue = queue
	b.externalDevice = true
	slogger().Debug("compositor using shared GPU device")
	return nil
}

// initStandalone creates a Vulkan device owned by this backend.
func (b *Backend) initStandalone() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("%w: vulkan backend not available", ErrUnavailable)
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("gpu: create instance: %w", err)
	}
	b.instance = instance

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		b.instance = nil
		return fmt.Errorf("%w: no GPU adapters found", ErrUnavailable)
	}

	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		b.instance = nil
		return fmt.Errorf("gpu: open device: %w", err)
	}
	b.device = openDev.Device
	b.queue = openDev.Queue

	slogger().Info("compositor GPU initialized (standalone)", "adapter", selected.Info.Name)
	return nil
}

// UpdateTexture re-uploads pixel data for a source texture. A source
// that was never uploaded is a no-op.
func (b *Backend) UpdateTexture(sourceID string, pixels []byte, width, height int) error {
	return b.textures.update(sourceID, pixels, width, height)
}

// RemoveTexture frees the GPU texture for a source image.
func (b *Backend) RemoveTexture(sourceID string) {
	b.textures.remove(sourceID)
}

// RecompilePrograms drops every cached program, including failure
// marks, so subsequent composites compile fresh.
func (b *Backend) RecompilePrograms() {
	b.programs.reset()
}

// Close releases every GPU resource. The device itself is destroyed
// only when this backend created it.
func (b *Backend) Close() error {
	if b.device == nil {
		return nil
	}
	b.final.destroy(b.device)
	if b.quad != nil {
		b.quad.destroy()
		b.quad = nil
	}
	if b.buffers != nil {
		b.buffers.dispose()
		b.buffers = nil
	}
	if b.textures != nil {
		b.textures.dispose()
		b.textures = nil
	}
	if b.programs != nil {
		b.programs.dispose()
		b.programs = nil
	}
	if b.sampler != nil {
		b.device.DestroySampler(b.sampler)
		b.sampler = nil
	}
	b.releaseDevice()
	return nil
}

// releaseDevice destroys the device and instance when owned.
func (b *Backend) releaseDevice() {
	if !b.externalDevice && b.device != nil {
		b.device.Destroy()
	}
	b.device = nil
	b.queue = nil
	if b.instance != nil {
		b.instance.Destroy()
		b.instance = nil
	}
}
