// Package effect defines the visual-effect layer types that the canvas
// compositor can apply, together with the registry that maps each type
// to its shader program, default property values, and uniform encoding.
//
// Every effect is identified by a Type tag and carries a small typed
// property struct. Adding a new effect requires only a new registration
// (shader source, defaults, predicate, parameter encoder); no compositor
// changes are needed.
package effect

import "fmt"

// Type identifies one effect kind.
type Type uint8

// Built-in effect types.
const (
	Brightness Type = iota
	Contrast
	Exposure
	Saturation
	Hue
	Grayscale
	Sepia
	Invert
	Vignette
	Blur
	Sharpen
	Noise
	Pixelate
	Dither
	Threshold

	numBuiltinTypes
)

// String returns a human-readable name for the type.
func (t Type) String() string {
	switch t {
	case Brightness:
		return "brightness"
	case Contrast:
		return "contrast"
	case Exposure:
		return "exposure"
	case Saturation:
		return "saturation"
	case Hue:
		return "hue"
	case Grayscale:
		return "grayscale"
	case Sepia:
		return "sepia"
	case Invert:
		return "invert"
	case Vignette:
		return "vignette"
	case Blur:
		return "blur"
	case Sharpen:
		return "sharpen"
	case Noise:
		return "noise"
	case Pixelate:
		return "pixelate"
	case Dither:
		return "dither"
	case Threshold:
		return "threshold"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(t))
	}
}

// Properties is the tagged property set for one layer. Each effect type
// has its own concrete struct; dispatch goes through the registry keyed
// by EffectType, not through further methods on the value.
type Properties interface {
	EffectType() Type
}

// BrightnessProps adds a constant offset to each channel.
// Value 0 is neutral.
type BrightnessProps struct {
	Value float64
}

// EffectType returns Brightness.
func (BrightnessProps) EffectType() Type { return Brightness }

// ContrastProps scales channel distance from mid-gray.
// Value 0 is neutral.
type ContrastProps struct {
	Value float64
}

// EffectType returns Contrast.
func (ContrastProps) EffectType() Type { return Contrast }

// ExposureProps multiplies each channel. Value 1 is neutral.
type ExposureProps struct {
	Value float64
}

// EffectType returns Exposure.
func (ExposureProps) EffectType() Type { return Exposure }

// SaturationProps interpolates between luminance and full color.
// Value 1 is neutral.
type SaturationProps struct {
	Value float64
}

// EffectType returns Saturation.
func (SaturationProps) EffectType() Type { return Saturation }

// HueProps rotates hue by Rotate degrees. 0 is neutral.
type HueProps struct {
	Rotate float64
}

// EffectType returns Hue.
func (HueProps) EffectType() Type { return Hue }

// GrayscaleProps desaturates toward luminance. Amount 0 is neutral.
type GrayscaleProps struct {
	Amount float64
}

// EffectType returns Grayscale.
func (GrayscaleProps) EffectType() Type { return Grayscale }

// SepiaProps blends toward the sepia tone matrix. Amount 0 is neutral.
type SepiaProps struct {
	Amount float64
}

// EffectType returns Sepia.
func (SepiaProps) EffectType() Type { return Sepia }

// InvertProps blends toward the channel-inverted color.
// Amount 0 is neutral.
type InvertProps struct {
	Amount float64
}

// EffectType returns Invert.
func (InvertProps) EffectType() Type { return Invert }

// VignetteProps darkens toward the corners. There is no neutral value;
// a vignette layer is always an active pass.
type VignetteProps struct {
	Strength   float64
	Smoothness float64
}

// EffectType returns Vignette.
func (VignetteProps) EffectType() Type { return Vignette }

// BlurProps applies a gaussian blur with the given pixel radius.
// Radius 0 is neutral; the default radius is 4.
type BlurProps struct {
	Radius float64
}

// EffectType returns Blur.
func (BlurProps) EffectType() Type { return Blur }

// SharpenProps applies an unsharp mask. Amount 0 is neutral.
type SharpenProps struct {
	Amount float64
}

// EffectType returns Sharpen.
func (SharpenProps) EffectType() Type { return Sharpen }

// NoiseProps adds per-pixel film grain. Amount 0 is neutral; the
// default amount is 0.1 so a freshly added layer is visible.
type NoiseProps struct {
	Amount float64
}

// EffectType returns Noise.
func (NoiseProps) EffectType() Type { return Noise }

// PixelateProps snaps sampling to a Size x Size pixel grid. There is no
// neutral value; a pixelate layer is always an active pass.
type PixelateProps struct {
	Size float64
}

// EffectType returns Pixelate.
func (PixelateProps) EffectType() Type { return Pixelate }

// DitherProps applies ordered Bayer dithering quantized to Levels per
// channel. There is no neutral value; always an active pass.
type DitherProps struct {
	Levels float64
}

// EffectType returns Dither.
func (DitherProps) EffectType() Type { return Dither }

// ThresholdProps maps luminance to black or white around Cutoff.
// There is no neutral value; always an active pass.
type ThresholdProps struct {
	Cutoff float64
}

// EffectType returns Threshold.
func (ThresholdProps) EffectType() Type { return Threshold }
