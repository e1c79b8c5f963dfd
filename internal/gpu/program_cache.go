//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// program holds one compiled effect pipeline and the layout objects it
// owns. Destroyed in reverse creation order.
type program struct {
	shader        hal.ShaderModule
	uniformLayout hal.BindGroupLayout
	pipeLayout    hal.PipelineLayout
	pipeline      hal.RenderPipeline
}

func (p *program) destroy(device hal.Device) {
	if p.pipeline != nil {
		device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.pipeLayout != nil {
		device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.uniformLayout != nil {
		device.DestroyBindGroupLayout(p.uniformLayout)
		p.uniformLayout = nil
	}
	if p.shader != nil {
		device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}

// programCache compiles one pipeline per effect type and memoizes it
// for the backend's lifetime. A failed compile is remembered: the
// effect's passes become no-ops until reset clears the mark, so one
// broken shader never aborts a composite or triggers a recompile storm.
type programCache struct {
	device   hal.Device
	programs map[string]*program
	failed   map[string]error
}

func newProgramCache(device hal.Device) *programCache {
	return &programCache{
		device:   device,
		programs: make(map[string]*program),
		failed:   make(map[string]error),
	}
}

// get returns the compiled program for key, compiling on first use.
// Returns ErrProgramFailed (wrapping the original diagnostic) when the
// program is marked failed.
func (pc *programCache) get(key, vertexSource, fragmentSource string) (*program, error) {
	if p, ok := pc.programs[key]; ok {
		return p, nil
	}
	if cause, ok := pc.failed[key]; ok {
		return nil, fmt.Errorf("%w: %s: %v", ErrProgramFailed, key, cause)
	}

	p, err := pc.compile(key, vertexSource, fragmentSource)
	if err != nil {
		pc.failed[key] = err
		slogger().Warn("shader program failed, passes become no-ops",
			"program", key, "error", err)
		return nil, fmt.Errorf("%w: %s: %v", ErrProgramFailed, key, err)
	}
	pc.programs[key] = p
	slogger().Debug("compiled shader program", "program", key)
	return p, nil
}

// compile validates the WGSL with naga, then builds the shader module,
// layouts, and render pipeline for one effect.
func (pc *programCache) compile(key, vertexSource, fragmentSource string) (*program, error) {
	if vertexSource == "" || fragmentSource == "" {
		return nil, fmt.Errorf("empty shader source")
	}
	source := vertexSource + "\n" + fragmentSource

	// Validate before handing the source to the backend so diagnostics
	// carry naga's message instead of a backend-specific error.
	if _, err := naga.Compile(source); err != nil {
		return nil, fmt.Errorf("validate shader: %w", err)
	}

	p := &program{}
	shader, err := pc.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  key + "_shader",
		Source: hal.ShaderSource{WGSL: source},
	})
	if err != nil {
		return nil, fmt.Errorf("compile shader: %w", err)
	}
	p.shader = shader

	// Bind group layout, identical for every effect:
	//   Binding 0: Params (uniform buffer, vertex+fragment)
	//   Binding 1: input texture (texture_2d, fragment)
	//   Binding 2: sampler (fragment)
	uniformLayout, err := pc.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: key + "_uniform_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		p.destroy(pc.device)
		return nil, fmt.Errorf("create bind group layout: %w", err)
	}
	p.uniformLayout = uniformLayout

	pipeLayout, err := pc.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            key + "_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.uniformLayout},
	})
	if err != nil {
		p.destroy(pc.device)
		return nil, fmt.Errorf("create pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	pipeline, err := pc.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  key + "_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: "vs_main",
			Buffers:    quadVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    gputypes.TextureFormatRGBA8Unorm,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		p.destroy(pc.device)
		return nil, fmt.Errorf("create pipeline: %w", err)
	}
	p.pipeline = pipeline

	return p, nil
}

// reset frees every cached program and clears failure marks.
// Subsequent get calls recompile.
func (pc *programCache) reset() {
	for key, p := range pc.programs {
		p.destroy(pc.device)
		delete(pc.programs, key)
	}
	for key := range pc.failed {
		delete(pc.failed, key)
	}
}

// dispose frees all cached programs at backend teardown.
func (pc *programCache) dispose() {
	pc.reset()
}
