package canvas

import (
	"fmt"

	"github.com/youngbloodcyb/shader-canvas/internal/gpu"
)

// Compositor orchestrates multi-pass composites. It owns the GPU
// backend (program cache, texture cache, ping-pong buffers, quad
// geometry) and a FIFO result cache, all private to the instance.
//
// A Compositor is not reentrant: callers must not start a second
// composite while one is in flight. Construction, composites, and
// Close must happen on the same goroutine.
type Compositor struct {
	opts    compositorOptions
	backend *gpu.Backend // nil when the GPU is unavailable
	results *ResultCache
	closed  bool
}

// NewCompositor creates a compositor.
//
// Device acquisition failure is not fatal: the compositor logs a
// warning and serves every composite through the CPU passthrough path,
// so callers still get the unprocessed source at the requested size.
func NewCompositor(opts ...Option) (*Compositor, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	c := &Compositor{
		opts:    o,
		results: NewResultCache(o.resultCacheSize),
	}

	if !o.disableGPU {
		backend, err := gpu.New(o.provider)
		if err != nil {
			Logger().Warn("GPU unavailable, composites degrade to passthrough", "error", err)
		} else {
			c.backend = backend
		}
	}

	return c, nil
}

// GPUAvailable reports whether composites run on the GPU. When false,
// every composite takes the passthrough path.
func (c *Compositor) GPUAvailable() bool {
	return c.backend != nil
}

// Results exposes the compositor's result cache for queries and
// explicit invalidation.
func (c *Compositor) Results() *ResultCache {
	return c.results
}

// Composite produces the composed output for one source raster and its
// layer list at the requested output dimensions.
//
// sourceID is a stable identity for the source raster; it keys the GPU
// texture cache and the result fingerprint. Layers may arrive in any
// order: the compositor selects enabled layers whose properties have a
// visible effect and sorts them ascending by Order. With no active
// layer the source is scaled straight to the output size without
// touching the GPU.
//
// The returned pixmap may be served from the result cache on repeated
// calls; callers must not mutate it.
func (c *Compositor) Composite(sourceID string, src *Pixmap, layers []Layer, width, height int) (*Pixmap, error) {
	if c.closed {
		return nil, ErrClosed
	}
	if src == nil {
		return nil, ErrNilSource
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}

	active := activeLayers(layers)
	fp := fingerprint(sourceID, width, height, active)

	if cached, ok := c.results.Get(fp); ok {
		Logger().Debug("composite served from result cache", "source", sourceID, "fingerprint", fp)
		return cached, nil
	}

	out, cacheable, err := c.render(sourceID, src, active, width, height)
	if err != nil {
		return nil, err
	}
	if cacheable {
		c.results.Put(fp, out)
	}
	return out, nil
}

// render executes a cache-miss composite. The second return value
// reports whether the output is the genuine composite of the active
// layer set: degraded results (no backend, GPU failure, dropped
// passes) must not be memoized under the layer set's fingerprint, or a
// later recompile would keep serving the stale raster.
func (c *Compositor) render(sourceID string, src *Pixmap, active []Layer, width, height int) (*Pixmap, bool, error) {
	if len(active) == 0 {
		return c.passthrough(src, width, height), true, nil
	}
	if c.backend == nil {
		Logger().Warn("no GPU backend, rendering unprocessed source", "source", sourceID)
		return c.passthrough(src, width, height), false, nil
	}

	steps := buildSteps(active)
	Logger().Debug("compositing",
		"source", sourceID, "passes", len(steps), "width", width, "height", height)

	pixels, complete, err := c.backend.Composite(sourceID, src.Data(), src.Width(), src.Height(), width, height, gpuPasses(steps))
	if err != nil {
		Logger().Warn("GPU composite failed, rendering unprocessed source",
			"source", sourceID, "error", err)
		return c.passthrough(src, width, height), false, nil
	}
	if !complete {
		Logger().Warn("composite ran with dropped passes, result not cached", "source", sourceID)
	}

	out, err := NewPixmapFromData(width, height, pixels)
	if err != nil {
		return nil, false, err
	}
	return out, complete, nil
}

// passthrough copies the source to the output size without running any
// effect pass.
func (c *Compositor) passthrough(src *Pixmap, width, height int) *Pixmap {
	if src.Width() == width && src.Height() == height {
		return src.Clone()
	}
	return src.Scale(width, height)
}

// UpdateSource re-uploads pixel data for a source whose identity is
// unchanged (in-place edits). Cached results derived from the source
// are invalidated.
func (c *Compositor) UpdateSource(sourceID string, src *Pixmap) error {
	if c.closed {
		return ErrClosed
	}
	if src == nil {
		return ErrNilSource
	}
	c.results.InvalidateBySource(sourceID)
	if c.backend == nil {
		return nil
	}
	return c.backend.UpdateTexture(sourceID, src.Data(), src.Width(), src.Height())
}

// RemoveSource releases the GPU texture for a source image and drops
// its cached results. Call when a source is replaced or deleted.
func (c *Compositor) RemoveSource(sourceID string) {
	if c.closed {
		return
	}
	c.results.InvalidateBySource(sourceID)
	if c.backend != nil {
		c.backend.RemoveTexture(sourceID)
	}
}

// RecompilePrograms clears compile-failure marks and cached programs so
// the next composite recompiles every shader it needs.
func (c *Compositor) RecompilePrograms() {
	if c.closed || c.backend == nil {
		return
	}
	c.backend.RecompilePrograms()
}

// Close releases all GPU resources and empties the result cache. The
// compositor is unusable afterwards.
func (c *Compositor) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.results.Clear()
	if c.backend == nil {
		return nil
	}
	err := c.backend.Close()
	c.backend = nil
	return err
}
