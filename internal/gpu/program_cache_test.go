//go:build !nogpu

package gpu

import (
	"errors"
	"testing"
)

// Minimal valid shader pair matching the compositing bind group layout
// and quad vertex layout. Concatenated into one module like production
// effect programs.
const testVertexWGSL = `
struct Params {
    resolution: vec2<f32>,
    flip: u32,
    _pad: u32,
    p0: vec4<f32>,
    p1: vec4<f32>,
    p2: vec4<f32>,
};

@group(0) @binding(0) var<uniform> params: Params;
@group(0) @binding(1) var src: texture_2d<f32>;
@group(0) @binding(2) var samp: sampler;

struct VsOut {
    @builtin(position) pos: vec4<f32>,
    @location(0) uv: vec2<f32>,
};

@vertex
fn vs_main(@location(0) pos: vec2<f32>, @location(1) uv: vec2<f32>) -> VsOut {
    var out: VsOut;
    out.pos = vec4<f32>(pos, 0.0, 1.0);
    out.uv = uv;
    return out;
}
`

const testFragmentWGSL = `
@fragment
fn fs_main(in: VsOut) -> @location(0) vec4<f32> {
    return textureSample(src, samp, in.uv) + params.p0;
}
`

const brokenFragmentWGSL = `
@fragment
fn fs_main( this is not wgsl
`

func TestProgramCacheCompileAndMemoize(t *testing.T) {
	device, _, cleanup := createNoopDevice(t)
	defer cleanup()

	pc := newProgramCache(device)
	defer pc.dispose()

	first, err := pc.get("fx", testVertexWGSL, testFragmentWGSL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if first.shader == nil || first.uniformLayout == nil || first.pipeLayout == nil || first.pipeline == nil {
		t.Fatal("expected a fully built program")
	}

	second, err := pc.get("fx", testVertexWGSL, testFragmentWGSL)
	if err != nil {
		t.Fatalf("second get: %v", err)
	}
	if second != first {
		t.Error("repeat get must return the memoized program")
	}
}

func TestProgramCacheFailureMarked(t *testing.T) {
	device, _, cleanup := createNoopDevice(t)
	defer cleanup()

	pc := newProgramCache(device)
	defer pc.dispose()

	if _, err := pc.get("broken", testVertexWGSL, brokenFragmentWGSL); !errors.Is(err, ErrProgramFailed) {
		t.Fatalf("expected ErrProgramFailed, got %v", err)
	}

	// The failure mark is permanent until reset, even with now-valid
	// source under the same key.
	if _, err := pc.get("broken", testVertexWGSL, testFragmentWGSL); !errors.Is(err, ErrProgramFailed) {
		t.Errorf("failed program must stay failed without reset, got %v", err)
	}
	if len(pc.failed) != 1 {
		t.Errorf("expected 1 failure mark, got %d", len(pc.failed))
	}

	// An unrelated program still compiles.
	if _, err := pc.get("fine", testVertexWGSL, testFragmentWGSL); err != nil {
		t.Errorf("unrelated program: %v", err)
	}
}

func TestProgramCacheEmptySource(t *testing.T) {
	device, _, cleanup := createNoopDevice(t)
	defer cleanup()

	pc := newProgramCache(device)
	defer pc.dispose()

	if _, err := pc.get("empty", "", testFragmentWGSL); !errors.Is(err, ErrProgramFailed) {
		t.Errorf("expected ErrProgramFailed for empty vertex source, got %v", err)
	}
}

func TestProgramCacheReset(t *testing.T) {
	device, _, cleanup := createNoopDevice(t)
	defer cleanup()

	pc := newProgramCache(device)
	defer pc.dispose()

	if _, err := pc.get("broken", testVertexWGSL, brokenFragmentWGSL); err == nil {
		t.Fatal("expected compile failure")
	}
	if _, err := pc.get("fx", testVertexWGSL, testFragmentWGSL); err != nil {
		t.Fatalf("get fx: %v", err)
	}

	pc.reset()
	if len(pc.programs) != 0 || len(pc.failed) != 0 {
		t.Fatal("reset must clear programs and failure marks")
	}

	// The previously failed key recompiles once given valid source.
	if _, err := pc.get("broken", testVertexWGSL, testFragmentWGSL); err != nil {
		t.Errorf("recompile after reset: %v", err)
	}
	if _, err := pc.get("fx", testVertexWGSL, testFragmentWGSL); err != nil {
		t.Errorf("recompile fx after reset: %v", err)
	}
}
