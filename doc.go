// Package canvas implements a GPU-accelerated, multi-pass image
// compositing pipeline. Given a source raster and an ordered list of
// independently toggleable effect layers, it produces a single composed
// raster by running each active layer as one full-viewport shader pass,
// chaining outputs through a pair of alternating off-screen render
// targets.
//
// # Architecture
//
// The pipeline is built from small, separately owned pieces:
//
//   - effect: the static registry mapping an effect type to its WGSL
//     program source, default properties, an activity predicate, and a
//     uniform parameter packer.
//   - internal/gpu: device acquisition, the program cache, the source
//     texture cache, the ping-pong framebuffer pair, the shared quad
//     geometry, and the per-composite render session.
//   - cache: a generic FIFO cache used for composited results.
//   - Compositor (this package): orchestration. It filters and sorts
//     layers, plans the pass chain, consults the result cache, and
//     drives the GPU session.
//
// # Basic usage
//
//	comp, err := canvas.NewCompositor()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer comp.Close()
//
//	src, _ := canvas.LoadPNG("photo.png")
//	layers := []canvas.Layer{
//	    {ID: "l0", Type: effect.Brightness, Enabled: true, Order: 0,
//	        Props: effect.BrightnessProps{Value: 0.2}},
//	    {ID: "l1", Type: effect.Vignette, Enabled: true, Order: 1,
//	        Props: effect.VignetteProps{Strength: 0.5, Smoothness: 0.4}},
//	}
//	out, err := comp.Composite("photo", src, layers, 800, 600)
//
// When no layer is active the source is scaled straight to the output
// size without touching the GPU. When the GPU device or a shader
// program is unavailable, composites degrade to that same passthrough
// rather than failing.
//
// # Logging
//
// The package is silent by default. Call [SetLogger] with a
// *slog.Logger to receive diagnostics from the compositor and the GPU
// layer.
//
// # Concurrency
//
// A Compositor instance is single-threaded: one composite at a time,
// driven by the caller. The result cache and the registry are safe for
// concurrent reads.
package canvas
