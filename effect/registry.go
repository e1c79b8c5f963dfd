package effect

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Registry errors.
var (
	// ErrUnknownType is returned when looking up an unregistered effect type.
	ErrUnknownType = errors.New("effect: unknown effect type")

	// ErrDuplicateType is returned when registering an already-registered type.
	ErrDuplicateType = errors.New("effect: type already registered")

	// ErrEmptySource is returned when registering an entry without shader source.
	ErrEmptySource = errors.New("effect: empty shader source")
)

// Entry describes one registered effect type. Entries are immutable once
// registered: the registry hands out copies, never pointers into itself.
type Entry struct {
	// Type is the effect tag this entry serves.
	Type Type

	// VertexSource is the shared fullscreen-quad vertex shader. Every
	// built-in entry uses VertexSource (the package-level shared text);
	// external effects must use it too so the quad layout stays fixed.
	VertexSource string

	// FragmentSource is the per-effect fragment shader. It is
	// concatenated after VertexSource into one WGSL module, so it must
	// only declare fs_main and private helpers.
	FragmentSource string

	// Defaults holds the property values a freshly added layer starts
	// with.
	Defaults Properties

	// HasEffect reports whether the given properties produce a visible
	// change. The compositor skips passes for which this returns false.
	// Effects with no neutral value return true unconditionally.
	HasEffect func(Properties) bool

	// Params encodes the properties into the 48-byte uniform parameter
	// block (see ParamBlockSize). The encoding must be deterministic:
	// it doubles as fingerprint material for the result cache.
	Params func(Properties) []byte
}

// registry is the process-wide effect table. Built-ins are registered at
// init; Register allows external effects before first composite use.
var (
	registryMu sync.RWMutex
	registry   = make(map[Type]Entry)
)

// Register adds an effect entry to the registry. It fails if the type is
// already registered or the entry is incomplete. The compositor needs no
// changes to pick up a newly registered effect.
func Register(e Entry) error {
	if e.VertexSource == "" || e.FragmentSource == "" {
		return fmt.Errorf("%w: type %s", ErrEmptySource, e.Type)
	}
	if e.Defaults == nil || e.HasEffect == nil || e.Params == nil {
		return fmt.Errorf("effect: incomplete entry for type %s", e.Type)
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[e.Type]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateType, e.Type)
	}
	registry[e.Type] = e
	return nil
}

// Lookup returns the entry for the given type.
func Lookup(t Type) (Entry, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	e, ok := registry[t]
	return e, ok
}

// Types returns all registered types in ascending tag order.
func Types() []Type {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]Type, 0, len(registry))
	for t := range registry {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Defaults returns the default properties for the given type, or nil if
// the type is not registered.
func Defaults(t Type) Properties {
	e, ok := Lookup(t)
	if !ok {
		return nil
	}
	return e.Defaults
}

// mustRegister registers a built-in entry and panics on failure. Only
// used from init, where a failure is a programming error.
func mustRegister(e Entry) {
	if err := Register(e); err != nil {
		panic(err)
	}
}

// alwaysActive is the HasEffect predicate for effects with no neutral
// value (pixelate, dither, threshold, vignette).
func alwaysActive(Properties) bool { return true }

func init() {
	mustRegister(Entry{
		Type:           Brightness,
		VertexSource:   VertexSource,
		FragmentSource: brightnessFS,
		Defaults:       BrightnessProps{Value: 0},
		HasEffect: func(p Properties) bool {
			v, ok := p.(BrightnessProps)
			return ok && v.Value != 0
		},
		Params: func(p Properties) []byte {
			v, _ := p.(BrightnessProps)
			return paramBlock(float32(v.Value))
		},
	})

	mustRegister(Entry{
		Type:           Contrast,
		VertexSource:   VertexSource,
		FragmentSource: contrastFS,
		Defaults:       ContrastProps{Value: 0},
		HasEffect: func(p Properties) bool {
			v, ok := p.(ContrastProps)
			return ok && v.Value != 0
		},
		Params: func(p Properties) []byte {
			v, _ := p.(ContrastProps)
			return paramBlock(float32(v.Value))
		},
	})

	mustRegister(Entry{
		Type:           Exposure,
		VertexSource:   VertexSource,
		FragmentSource: exposureFS,
		Defaults:       ExposureProps{Value: 1},
		HasEffect: func(p Properties) bool {
			v, ok := p.(ExposureProps)
			return ok && v.Value != 1
		},
		Params: func(p Properties) []byte {
			v, _ := p.(ExposureProps)
			return paramBlock(float32(v.Value))
		},
	})

	mustRegister(Entry{
		Type:           Saturation,
		VertexSource:   VertexSource,
		FragmentSource: saturationFS,
		Defaults:       SaturationProps{Value: 1},
		HasEffect: func(p Properties) bool {
			v, ok := p.(SaturationProps)
			return ok && v.Value != 1
		},
		Params: func(p Properties) []byte {
			v, _ := p.(SaturationProps)
			return paramBlock(float32(v.Value))
		},
	})

	mustRegister(Entry{
		Type:           Hue,
		VertexSource:   VertexSource,
		FragmentSource: hueFS,
		Defaults:       HueProps{Rotate: 0},
		HasEffect: func(p Properties) bool {
			v, ok := p.(HueProps)
			return ok && v.Rotate != 0
		},
		Params: func(p Properties) []byte {
			v, _ := p.(HueProps)
			return paramBlock(float32(v.Rotate))
		},
	})

	mustRegister(Entry{
		Type:           Grayscale,
		VertexSource:   VertexSource,
		FragmentSource: grayscaleFS,
		Defaults:       GrayscaleProps{Amount: 0},
		HasEffect: func(p Properties) bool {
			v, ok := p.(GrayscaleProps)
			return ok && v.Amount != 0
		},
		Params: func(p Properties) []byte {
			v, _ := p.(GrayscaleProps)
			return paramBlock(float32(v.Amount))
		},
	})

	mustRegister(Entry{
		Type:           Sepia,
		VertexSource:   VertexSource,
		FragmentSource: sepiaFS,
		Defaults:       SepiaProps{Amount: 0},
		HasEffect: func(p Properties) bool {
			v, ok := p.(SepiaProps)
			return ok && v.Amount != 0
		},
		Params: func(p Properties) []byte {
			v, _ := p.(SepiaProps)
			return paramBlock(float32(v.Amount))
		},
	})

	mustRegister(Entry{
		Type:           Invert,
		VertexSource:   VertexSource,
		FragmentSource: invertFS,
		Defaults:       InvertProps{Amount: 0},
		HasEffect: func(p Properties) bool {
			v, ok := p.(InvertProps)
			return ok && v.Amount != 0
		},
		Params: func(p Properties) []byte {
			v, _ := p.(InvertProps)
			return paramBlock(float32(v.Amount))
		},
	})

	mustRegister(Entry{
		Type:           Vignette,
		VertexSource:   VertexSource,
		FragmentSource: vignetteFS,
		Defaults:       VignetteProps{Strength: 0.5, Smoothness: 0.5},
		HasEffect:      alwaysActive,
		Params: func(p Properties) []byte {
			v, _ := p.(VignetteProps)
			return paramBlock(float32(v.Strength), float32(v.Smoothness))
		},
	})

	mustRegister(Entry{
		Type:           Blur,
		VertexSource:   VertexSource,
		FragmentSource: blurFS,
		Defaults:       BlurProps{Radius: 4},
		HasEffect: func(p Properties) bool {
			v, ok := p.(BlurProps)
			return ok && v.Radius != 0
		},
		Params: func(p Properties) []byte {
			v, _ := p.(BlurProps)
			return paramBlock(float32(v.Radius))
		},
	})

	mustRegister(Entry{
		Type:           Sharpen,
		VertexSource:   VertexSource,
		FragmentSource: sharpenFS,
		Defaults:       SharpenProps{Amount: 0},
		HasEffect: func(p Properties) bool {
			v, ok := p.(SharpenProps)
			return ok && v.Amount != 0
		},
		Params: func(p Properties) []byte {
			v, _ := p.(SharpenProps)
			return paramBlock(float32(v.Amount))
		},
	})

	mustRegister(Entry{
		Type:           Noise,
		VertexSource:   VertexSource,
		FragmentSource: noiseFS,
		Defaults:       NoiseProps{Amount: 0.1},
		HasEffect: func(p Properties) bool {
			v, ok := p.(NoiseProps)
			return ok && v.Amount != 0
		},
		Params: func(p Properties) []byte {
			v, _ := p.(NoiseProps)
			return paramBlock(float32(v.Amount))
		},
	})

	mustRegister(Entry{
		Type:           Pixelate,
		VertexSource:   VertexSource,
		FragmentSource: pixelateFS,
		Defaults:       PixelateProps{Size: 8},
		HasEffect:      alwaysActive,
		Params: func(p Properties) []byte {
			v, _ := p.(PixelateProps)
			return paramBlock(float32(v.Size))
		},
	})

	mustRegister(Entry{
		Type:           Dither,
		VertexSource:   VertexSource,
		FragmentSource: ditherFS,
		Defaults:       DitherProps{Levels: 4},
		HasEffect:      alwaysActive,
		Params: func(p Properties) []byte {
			v, _ := p.(DitherProps)
			return paramBlock(float32(v.Levels))
		},
	})

	mustRegister(Entry{
		Type:           Threshold,
		VertexSource:   VertexSource,
		FragmentSource: thresholdFS,
		Defaults:       ThresholdProps{Cutoff: 0.5},
		HasEffect:      alwaysActive,
		Params: func(p Properties) []byte {
			v, _ := p.(ThresholdProps)
			return paramBlock(float32(v.Cutoff))
		},
	})
}
