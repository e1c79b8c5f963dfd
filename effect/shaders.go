package effect

import _ "embed"

// Embedded WGSL shader sources. The vertex shader is shared by every
// effect: it declares the uniform Params block, the source texture and
// sampler bindings, and emits the fullscreen quad with optional vertical
// flip. Fragment sources only declare fs_main (plus private helpers) and
// are concatenated after the vertex source into one module.

//go:embed shaders/fullscreen.wgsl
var VertexSource string

//go:embed shaders/brightness.wgsl
var brightnessFS string

//go:embed shaders/contrast.wgsl
var contrastFS string

//go:embed shaders/exposure.wgsl
var exposureFS string

//go:embed shaders/saturation.wgsl
var saturationFS string

//go:embed shaders/hue.wgsl
var hueFS string

//go:embed shaders/grayscale.wgsl
var grayscaleFS string

//go:embed shaders/sepia.wgsl
var sepiaFS string

//go:embed shaders/invert.wgsl
var invertFS string

//go:embed shaders/vignette.wgsl
var vignetteFS string

//go:embed shaders/blur.wgsl
var blurFS string

//go:embed shaders/sharpen.wgsl
var sharpenFS string

//go:embed shaders/noise.wgsl
var noiseFS string

//go:embed shaders/pixelate.wgsl
var pixelateFS string

//go:embed shaders/dither.wgsl
var ditherFS string

//go:embed shaders/threshold.wgsl
var thresholdFS string
