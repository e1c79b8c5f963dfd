//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// sourceTexture is one uploaded source raster.
type sourceTexture struct {
	tex    hal.Texture
	view   hal.TextureView
	width  int
	height int
}

func (st *sourceTexture) destroy(device hal.Device) {
	if st.view != nil {
		device.DestroyTextureView(st.view)
		st.view = nil
	}
	if st.tex != nil {
		device.DestroyTexture(st.tex)
		st.tex = nil
	}
}

// textureCache maps a source identity to exactly one uploaded GPU
// texture. Textures live until removed explicitly or the cache is
// disposed; repeated composites of the same source skip the upload.
type textureCache struct {
	device   hal.Device
	queue    hal.Queue
	textures map[string]*sourceTexture
}

func newTextureCache(device hal.Device, queue hal.Queue) *textureCache {
	return &textureCache{
		device:   device,
		queue:    queue,
		textures: make(map[string]*sourceTexture),
	}
}

// get returns the texture for sourceID, uploading pixels on first use.
// If the cached texture's dimensions differ from the given raster, it
// is recreated.
func (tc *textureCache) get(sourceID string, pixels []byte, width, height int) (*sourceTexture, error) {
	if st, ok := tc.textures[sourceID]; ok {
		if st.width == width && st.height == height {
			return st, nil
		}
		st.destroy(tc.device)
		delete(tc.textures, sourceID)
	}

	st, err := tc.upload(sourceID, pixels, width, height)
	if err != nil {
		return nil, err
	}
	tc.textures[sourceID] = st
	slogger().Debug("uploaded source texture",
		"source", sourceID, "width", width, "height", height)
	return st, nil
}

// update re-uploads pixel data in place for an unchanged identity.
// Dimension changes recreate the texture. A source that was never
// uploaded is a no-op: the next composite uploads the fresh data
// anyway.
func (tc *textureCache) update(sourceID string, pixels []byte, width, height int) error {
	st, ok := tc.textures[sourceID]
	if !ok {
		slogger().Debug("update for source with no uploaded texture", "source", sourceID)
		return nil
	}
	if st.width != width || st.height != height {
		st.destroy(tc.device)
		delete(tc.textures, sourceID)
		fresh, err := tc.upload(sourceID, pixels, width, height)
		if err != nil {
			return err
		}
		tc.textures[sourceID] = fresh
		return nil
	}
	tc.write(st, pixels, width, height)
	return nil
}

// remove frees the texture for one source identity.
func (tc *textureCache) remove(sourceID string) {
	if st, ok := tc.textures[sourceID]; ok {
		st.destroy(tc.device)
		delete(tc.textures, sourceID)
	}
}

// dispose frees every cached texture. The cache repopulates on demand.
func (tc *textureCache) dispose() {
	for id, st := range tc.textures {
		st.destroy(tc.device)
		delete(tc.textures, id)
	}
}

// upload creates a texture and writes the pixel data.
func (tc *textureCache) upload(sourceID string, pixels []byte, width, height int) (*sourceTexture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("gpu: invalid source dimensions %dx%d", width, height)
	}
	if len(pixels) != width*height*4 {
		return nil, fmt.Errorf("gpu: source pixel buffer length %d does not match %dx%d", len(pixels), width, height)
	}

	w, h := uint32(width), uint32(height) //nolint:gosec // dimensions always fit uint32
	tex, err := tc.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "source_" + sourceID,
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create source texture: %w", err)
	}

	view, err := tc.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "source_" + sourceID + "_view",
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		tc.device.DestroyTexture(tex)
		return nil, fmt.Errorf("gpu: create source texture view: %w", err)
	}

	st := &sourceTexture{tex: tex, view: view, width: width, height: height}
	tc.write(st, pixels, width, height)
	return st, nil
}

// write uploads pixel data into an existing texture.
func (tc *textureCache) write(st *sourceTexture, pixels []byte, width, height int) {
	w, h := uint32(width), uint32(height) //nolint:gosec // dimensions always fit uint32
	tc.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  st.tex,
			MipLevel: 0,
		},
		pixels,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  w * 4,
			RowsPerImage: h,
		},
		&hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	)
}
