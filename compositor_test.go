package canvas

import (
	"bytes"
	"errors"
	"image/color"
	"testing"

	"github.com/youngbloodcyb/shader-canvas/effect"
)

func newTestCompositor(t *testing.T) *Compositor {
	t.Helper()
	c, err := NewCompositor(WithoutGPU())
	if err != nil {
		t.Fatalf("NewCompositor: %v", err)
	}
	t.Cleanup(func() {
		_ = c.Close()
	})
	return c
}

func gradientPixmap(w, h int) *Pixmap {
	pm := NewPixmap(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			pm.SetPixel(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: 128,
				A: 255,
			})
		}
	}
	return pm
}

func TestCompositeValidation(t *testing.T) {
	c := newTestCompositor(t)
	src := gradientPixmap(4, 4)

	if _, err := c.Composite("img", nil, nil, 4, 4); !errors.Is(err, ErrNilSource) {
		t.Errorf("nil source: got %v", err)
	}
	if _, err := c.Composite("img", src, nil, 0, 4); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("zero width: got %v", err)
	}
	if _, err := c.Composite("img", src, nil, 4, -1); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("negative height: got %v", err)
	}
}

func TestCompositePassthroughSameDims(t *testing.T) {
	// No active layer at matching dimensions: identical bytes, but an
	// independent copy of the source.
	c := newTestCompositor(t)
	src := gradientPixmap(8, 8)

	out, err := c.Composite("img", src, nil, 8, 8)
	if err != nil {
		t.Fatalf("Composite: %v", err)
	}
	if !bytes.Equal(out.Data(), src.Data()) {
		t.Error("passthrough must return identical pixel bytes")
	}
	if out == src {
		t.Error("passthrough must not alias the source")
	}
}

func TestCompositePassthroughScales(t *testing.T) {
	c := newTestCompositor(t)
	src := gradientPixmap(8, 8)

	out, err := c.Composite("img", src, nil, 4, 4)
	if err != nil {
		t.Fatalf("Composite: %v", err)
	}
	if out.Width() != 4 || out.Height() != 4 {
		t.Errorf("expected 4x4 output, got %dx%d", out.Width(), out.Height())
	}
}

func TestCompositeNeutralLayersArePassthrough(t *testing.T) {
	c := newTestCompositor(t)
	src := gradientPixmap(8, 8)
	layers := []Layer{
		{ID: "l0", Type: effect.Brightness, Enabled: true, Order: 0,
			Props: effect.BrightnessProps{Value: 0}},
		{ID: "l1", Type: effect.Blur, Enabled: false, Order: 1,
			Props: effect.BlurProps{Radius: 4}},
	}

	out, err := c.Composite("img", src, layers, 8, 8)
	if err != nil {
		t.Fatalf("Composite: %v", err)
	}
	if !bytes.Equal(out.Data(), src.Data()) {
		t.Error("neutral and disabled layers must not change the output")
	}
}

func TestCompositeCachesResults(t *testing.T) {
	c := newTestCompositor(t)
	src := gradientPixmap(8, 8)

	first, err := c.Composite("img", src, nil, 8, 8)
	if err != nil {
		t.Fatalf("first composite: %v", err)
	}
	second, err := c.Composite("img", src, nil, 8, 8)
	if err != nil {
		t.Fatalf("second composite: %v", err)
	}
	if first != second {
		t.Error("repeat composite must be served from the result cache")
	}

	stats := c.Results().Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("expected 1 hit and 1 miss, got %d/%d", stats.Hits, stats.Misses)
	}
}

func TestCompositeDegradedResultNotCached(t *testing.T) {
	// With an active layer but no GPU the output is a degraded
	// passthrough. Caching it under the layer set's fingerprint would
	// keep serving the stale raster after a recompile.
	c := newTestCompositor(t)
	src := gradientPixmap(8, 8)
	layers := []Layer{{ID: "l0", Type: effect.Vignette, Enabled: true, Order: 0,
		Props: effect.VignetteProps{Strength: 0.5, Smoothness: 0.5}}}

	first, err := c.Composite("img", src, layers, 8, 8)
	if err != nil {
		t.Fatalf("first composite: %v", err)
	}
	if c.Results().Len() != 0 {
		t.Fatalf("degraded result must not be cached, got %d entries", c.Results().Len())
	}

	c.RecompilePrograms()
	second, err := c.Composite("img", src, layers, 8, 8)
	if err != nil {
		t.Fatalf("second composite: %v", err)
	}
	if second == first {
		t.Error("composite after recompile must re-render, not serve the degraded raster")
	}
	if c.Results().Len() != 0 {
		t.Errorf("degraded re-render must stay uncached, got %d entries", c.Results().Len())
	}
}

func TestCompositeDistinctDimsCachedSeparately(t *testing.T) {
	c := newTestCompositor(t)
	src := gradientPixmap(8, 8)

	if _, err := c.Composite("img", src, nil, 8, 8); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Composite("img", src, nil, 4, 4); err != nil {
		t.Fatal(err)
	}
	if c.Results().Len() != 2 {
		t.Errorf("expected 2 cached results, got %d", c.Results().Len())
	}
}

func TestUpdateSourceInvalidates(t *testing.T) {
	c := newTestCompositor(t)
	src := gradientPixmap(8, 8)

	if _, err := c.Composite("img", src, nil, 8, 8); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Composite("other", src, nil, 8, 8); err != nil {
		t.Fatal(err)
	}

	edited := src.Clone()
	edited.SetPixel(0, 0, color.NRGBA{R: 255, A: 255})
	if err := c.UpdateSource("img", edited); err != nil {
		t.Fatalf("UpdateSource: %v", err)
	}

	if c.Results().Len() != 1 {
		t.Errorf("expected only the other source's entry to survive, got %d", c.Results().Len())
	}

	out, err := c.Composite("img", edited, nil, 8, 8)
	if err != nil {
		t.Fatal(err)
	}
	if out.GetPixel(0, 0) != (color.NRGBA{R: 255, A: 255}) {
		t.Error("composite after update must reflect the edited pixels")
	}
}

func TestRemoveSourceDropsResults(t *testing.T) {
	c := newTestCompositor(t)
	src := gradientPixmap(8, 8)

	if _, err := c.Composite("img", src, nil, 8, 8); err != nil {
		t.Fatal(err)
	}
	c.RemoveSource("img")
	if c.Results().Len() != 0 {
		t.Errorf("expected empty result cache, got %d", c.Results().Len())
	}
}

func TestCompositorWithoutGPUNotAvailable(t *testing.T) {
	c := newTestCompositor(t)
	if c.GPUAvailable() {
		t.Error("GPU must be unavailable with WithoutGPU")
	}
}

func TestCompositorClose(t *testing.T) {
	c, err := NewCompositor(WithoutGPU())
	if err != nil {
		t.Fatal(err)
	}
	src := gradientPixmap(4, 4)
	if _, err := c.Composite("img", src, nil, 4, 4); err != nil {
		t.Fatal(err)
	}

	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close must be a no-op, got %v", err)
	}

	if _, err := c.Composite("img", src, nil, 4, 4); !errors.Is(err, ErrClosed) {
		t.Errorf("Composite after Close: got %v", err)
	}
	if err := c.UpdateSource("img", src); !errors.Is(err, ErrClosed) {
		t.Errorf("UpdateSource after Close: got %v", err)
	}
}

func TestWithResultCacheSize(t *testing.T) {
	c, err := NewCompositor(WithoutGPU(), WithResultCacheSize(2))
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = c.Close()
	}()

	src := gradientPixmap(4, 4)
	for _, dims := range [][2]int{{4, 4}, {3, 3}, {2, 2}} {
		if _, err := c.Composite("img", src, nil, dims[0], dims[1]); err != nil {
			t.Fatal(err)
		}
	}
	if c.Results().Len() != 2 {
		t.Errorf("expected 2 cached results, got %d", c.Results().Len())
	}
}
