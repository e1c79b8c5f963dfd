package canvas

import (
	"sort"

	"github.com/youngbloodcyb/shader-canvas/effect"
)

// Layer is one ordered, independently toggleable effect applied to a
// source image. Layers arrive from the caller in arbitrary order; the
// compositor sorts by Order before planning passes.
type Layer struct {
	// ID is an opaque identifier, stable across property edits.
	ID string

	// Type selects the effect program from the registry.
	Type effect.Type

	// Enabled toggles the layer without removing it.
	Enabled bool

	// Order positions the layer in the pass chain. The owning image
	// keeps orders contiguous in 0..n-1, but the compositor re-sorts
	// defensively regardless.
	Order int

	// Props holds the type-specific property values. A nil Props means
	// the registry defaults for Type.
	Props effect.Properties
}

// properties returns the layer's props, falling back to the registry
// defaults when unset.
func (l Layer) properties() effect.Properties {
	if l.Props != nil {
		return l.Props
	}
	return effect.Defaults(l.Type)
}

// ResequenceLayers rewrites Order values to a contiguous 0..n-1 range,
// preserving the layers' current relative order. Call after removing or
// reordering layers on an image.
func ResequenceLayers(layers []Layer) {
	sorted := make([]*Layer, len(layers))
	for i := range layers {
		sorted[i] = &layers[i]
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})
	for i, l := range sorted {
		l.Order = i
	}
}

// activeLayers filters to enabled layers whose properties have a
// visible effect, sorted ascending by Order. The sort is stable so
// equal orders keep their arrival order.
func activeLayers(layers []Layer) []Layer {
	active := make([]Layer, 0, len(layers))
	for _, l := range layers {
		if !l.Enabled {
			continue
		}
		entry, ok := effect.Lookup(l.Type)
		if !ok {
			Logger().Warn("skipping layer with unknown effect type",
				"layer", l.ID, "type", l.Type)
			continue
		}
		if !entry.HasEffect(l.properties()) {
			continue
		}
		active = append(active, l)
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Order < active[j].Order
	})
	return active
}
