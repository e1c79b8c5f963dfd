//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// framebuffer pairs one off-screen render target texture with its
// view. The texture doubles as a sampled input for the next pass, so
// it carries both RenderAttachment and TextureBinding usage.
type framebuffer struct {
	tex  hal.Texture
	view hal.TextureView

	// sampled tracks the texture's current layout: false means it is
	// in render-attachment layout, true means it was transitioned for
	// sampling. The session inserts barriers based on this.
	sampled bool
}

func (fb *framebuffer) destroy(device hal.Device) {
	if fb.view != nil {
		device.DestroyTextureView(fb.view)
		fb.view = nil
	}
	if fb.tex != nil {
		device.DestroyTexture(fb.tex)
		fb.tex = nil
	}
	fb.sampled = false
}

// pingPong holds the two equally sized intermediate render targets
// that chain passes: each pass reads the target the previous pass
// wrote and writes the other one.
type pingPong struct {
	device  hal.Device
	buffers [2]framebuffer
	width   uint32
	height  uint32
	readIdx int
}

func newPingPong(device hal.Device) *pingPong {
	return &pingPong{device: device}
}

// resize ensures both framebuffers match the requested dimensions.
// A no-op when dimensions are unchanged. Recreation is all-or-nothing:
// the new pair is fully created before the old one is destroyed, and
// on failure the old pair stays usable.
func (pp *pingPong) resize(width, height uint32) error {
	if pp.width == width && pp.height == height && pp.buffers[0].tex != nil {
		return nil
	}

	var fresh [2]framebuffer
	for i := range fresh {
		fb, err := pp.createFramebuffer(fmt.Sprintf("pingpong_%d", i), width, height)
		if err != nil {
			for j := 0; j < i; j++ {
				fresh[j].destroy(pp.device)
			}
			return fmt.Errorf("gpu: resize ping-pong buffers to %dx%d: %w", width, height, err)
		}
		fresh[i] = fb
	}

	for i := range pp.buffers {
		pp.buffers[i].destroy(pp.device)
	}
	pp.buffers = fresh
	pp.width = width
	pp.height = height
	slogger().Debug("ping-pong buffers recreated", "width", width, "height", height)
	return nil
}

// reset sets the read index to 0. Required once per composite before
// the first pass so the pass protocol is deterministic regardless of
// where the previous composite ended.
func (pp *pingPong) reset() {
	pp.readIdx = 0
}

// read returns the framebuffer at the current read index.
func (pp *pingPong) read() *framebuffer {
	return &pp.buffers[pp.readIdx]
}

// write returns the framebuffer opposite the read index. The pair
// guarantees a pass never samples the target it renders to.
func (pp *pingPong) write() *framebuffer {
	return &pp.buffers[(pp.readIdx+1)%2]
}

// swap advances the read index to the framebuffer just written.
func (pp *pingPong) swap() {
	pp.readIdx = (pp.readIdx + 1) % 2
}

// dispose frees both framebuffers.
func (pp *pingPong) dispose() {
	for i := range pp.buffers {
		pp.buffers[i].destroy(pp.device)
	}
	pp.width = 0
	pp.height = 0
	pp.readIdx = 0
}

func (pp *pingPong) createFramebuffer(label string, width, height uint32) (framebuffer, error) {
	tex, err := pp.device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageTextureBinding,
	})
	if err != nil {
		return framebuffer{}, fmt.Errorf("create texture: %w", err)
	}

	view, err := pp.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         label + "_view",
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		pp.device.DestroyTexture(tex)
		return framebuffer{}, fmt.Errorf("create texture view: %w", err)
	}

	return framebuffer{tex: tex, view: view}, nil
}
