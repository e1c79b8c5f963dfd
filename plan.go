package canvas

import (
	"github.com/youngbloodcyb/shader-canvas/effect"
	"github.com/youngbloodcyb/shader-canvas/internal/gpu"
)

// passStep describes one full-viewport draw in a planned composite.
// Planning is pure so the pass protocol can be tested without a device.
type passStep struct {
	layer Layer

	// readsSource is true when the pass samples the uploaded source
	// texture instead of the previous pass's ping-pong output. Only the
	// first pass reads the source.
	readsSource bool

	// writesFinal is true when the pass renders to the destination
	// surface instead of a ping-pong framebuffer. Only the last pass
	// writes the destination.
	writesFinal bool

	// flipY corrects for the source raster's top-down row order.
	// Intermediate buffers already use the render-target convention,
	// so only the source-reading pass flips.
	flipY bool
}

// planPasses turns an arbitrary layer list into the ordered pass chain
// for one composite. Returns nil when no layer is active, which callers
// treat as the passthrough fast path.
func planPasses(layers []Layer) []passStep {
	return buildSteps(activeLayers(layers))
}

// buildSteps assigns the per-pass input, output, and flip protocol for
// an already filtered and sorted active-layer list.
func buildSteps(active []Layer) []passStep {
	if len(active) == 0 {
		return nil
	}

	steps := make([]passStep, len(active))
	for i, l := range active {
		steps[i] = passStep{
			layer:       l,
			readsSource: i == 0,
			writesFinal: i == len(active)-1,
			flipY:       i == 0,
		}
	}
	return steps
}

// gpuPasses lowers planned steps into the GPU layer's pass descriptors.
// The input/output/flip protocol is positional and the GPU layer
// re-derives it over whatever subset of passes remains executable, so
// only the program identity and parameters cross the boundary. A
// registry lookup cannot fail here: activeLayers already dropped layers
// with unknown types.
func gpuPasses(steps []passStep) []gpu.Pass {
	passes := make([]gpu.Pass, len(steps))
	for i, s := range steps {
		entry, _ := effect.Lookup(s.layer.Type)
		passes[i] = gpu.Pass{
			Program:        s.layer.Type.String(),
			VertexSource:   entry.VertexSource,
			FragmentSource: entry.FragmentSource,
			Params:         entry.Params(s.layer.properties()),
		}
	}
	return passes
}
