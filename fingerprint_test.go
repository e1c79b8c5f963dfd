package canvas

import (
	"testing"

	"github.com/youngbloodcyb/shader-canvas/effect"
)

func TestFingerprintDeterministic(t *testing.T) {
	layers := []Layer{
		{ID: "l0", Type: effect.Brightness, Enabled: true, Order: 0,
			Props: effect.BrightnessProps{Value: 0.2}},
	}
	a := fingerprint("img1", 100, 100, activeLayers(layers))
	b := fingerprint("img1", 100, 100, activeLayers(layers))
	if a != b {
		t.Error("same inputs must produce the same fingerprint")
	}
}

func TestFingerprintValueBased(t *testing.T) {
	// Distinct property instances with equal values hit the same key.
	l1 := []Layer{{ID: "l0", Type: effect.Vignette, Enabled: true, Order: 0,
		Props: effect.VignetteProps{Strength: 0.5, Smoothness: 0.3}}}
	l2 := []Layer{{ID: "l0", Type: effect.Vignette, Enabled: true, Order: 0,
		Props: effect.VignetteProps{Strength: 0.5, Smoothness: 0.3}}}

	if fingerprint("img", 50, 50, activeLayers(l1)) != fingerprint("img", 50, 50, activeLayers(l2)) {
		t.Error("equal-value layers must produce equal fingerprints")
	}
}

func TestFingerprintDistinguishesInputs(t *testing.T) {
	base := []Layer{{ID: "l0", Type: effect.Brightness, Enabled: true, Order: 0,
		Props: effect.BrightnessProps{Value: 0.2}}}
	fp := fingerprint("img", 100, 100, activeLayers(base))

	otherSource := fingerprint("img2", 100, 100, activeLayers(base))
	if fp == otherSource {
		t.Error("different sources must differ")
	}

	otherDims := fingerprint("img", 200, 100, activeLayers(base))
	if fp == otherDims {
		t.Error("different dimensions must differ")
	}

	otherValue := []Layer{{ID: "l0", Type: effect.Brightness, Enabled: true, Order: 0,
		Props: effect.BrightnessProps{Value: 0.3}}}
	if fp == fingerprint("img", 100, 100, activeLayers(otherValue)) {
		t.Error("different property values must differ")
	}

	otherID := []Layer{{ID: "l1", Type: effect.Brightness, Enabled: true, Order: 0,
		Props: effect.BrightnessProps{Value: 0.2}}}
	if fp == fingerprint("img", 100, 100, activeLayers(otherID)) {
		t.Error("different layer ids must differ")
	}
}

func TestFingerprintIgnoresInactiveLayers(t *testing.T) {
	active := []Layer{{ID: "l0", Type: effect.Brightness, Enabled: true, Order: 0,
		Props: effect.BrightnessProps{Value: 0.2}}}
	withNeutral := append([]Layer{}, active...)
	withNeutral = append(withNeutral, Layer{
		ID: "l1", Type: effect.Contrast, Enabled: true, Order: 1,
		Props: effect.ContrastProps{Value: 0},
	})

	if fingerprint("img", 100, 100, activeLayers(active)) !=
		fingerprint("img", 100, 100, activeLayers(withNeutral)) {
		t.Error("neutral layers must not affect the fingerprint")
	}
}

func TestFingerprintMatchesSource(t *testing.T) {
	fp := fingerprint("img1", 100, 100, nil)
	if !fingerprintMatchesSource(fp, "img1") {
		t.Error("expected fingerprint to match its source")
	}
	if fingerprintMatchesSource(fp, "img") {
		t.Error("prefix of a source id must not match")
	}
	if fingerprintMatchesSource(fp, "img2") {
		t.Error("different source must not match")
	}
}

func TestFingerprintSeparatorInSourceID(t *testing.T) {
	// Identifiers containing the separator must not bleed across field
	// boundaries in either direction.
	plain := fingerprint("img", 100, 100, nil)
	piped := fingerprint("img|x", 100, 100, nil)
	if plain == piped {
		t.Fatal("sources differing only by a separator suffix must differ")
	}

	if fingerprintMatchesSource(piped, "img") {
		t.Error(`invalidating "img" must not match source "img|x"`)
	}
	if !fingerprintMatchesSource(piped, "img|x") {
		t.Error(`expected fingerprint to match its own source "img|x"`)
	}
	if fingerprintMatchesSource(plain, "img|x") {
		t.Error(`invalidating "img|x" must not match source "img"`)
	}

	escaped := fingerprint(`img\`, 100, 100, nil)
	if fingerprintMatchesSource(escaped, "img") || fingerprintMatchesSource(plain, `img\`) {
		t.Error("backslash in a source id must not break matching")
	}
}
