//go:build !nogpu

package gpu

import (
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// fenceTimeout bounds the wait for composite submission.
const fenceTimeout = 5 * time.Second

// finalTarget is the destination surface for the last pass. It is
// copied to a staging buffer and read back to the CPU after submit.
type finalTarget struct {
	tex    hal.Texture
	view   hal.TextureView
	width  uint32
	height uint32
}

// ensure creates or recreates the final target at the requested size.
// A no-op when dimensions match.
func (ft *finalTarget) ensure(device hal.Device, width, height uint32) error {
	if ft.width == width && ft.height == height && ft.tex != nil {
		return nil
	}
	ft.destroy(device)

	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "composite_final",
		Size:          hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("gpu: create final target: %w", err)
	}
	ft.tex = tex

	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: "composite_final_view",
	})
	if err != nil {
		ft.destroy(device)
		return fmt.Errorf("gpu: create final target view: %w", err)
	}
	ft.view = view
	ft.width = width
	ft.height = height
	return nil
}

func (ft *finalTarget) destroy(device hal.Device) {
	if ft.view != nil {
		device.DestroyTextureView(ft.view)
		ft.view = nil
	}
	if ft.tex != nil {
		device.DestroyTexture(ft.tex)
		ft.tex = nil
	}
	ft.width = 0
	ft.height = 0
}

// passResources holds the per-pass frame objects built before encoding.
type passResources struct {
	prog       *program
	uniformBuf hal.Buffer
	bindGroup  hal.BindGroup
	inputView  hal.TextureView
	inputFB    *framebuffer // nil when the pass reads the source texture
	outputFB   *framebuffer // nil when the pass writes the final target
	outputView hal.TextureView
}

func (pr *passResources) destroy(device hal.Device) {
	if pr.bindGroup != nil {
		device.DestroyBindGroup(pr.bindGroup)
		pr.bindGroup = nil
	}
	if pr.uniformBuf != nil {
		device.DestroyBuffer(pr.uniformBuf)
		pr.uniformBuf = nil
	}
}

// Composite uploads the source raster (cached by sourceID), runs the
// pass chain through the ping-pong buffers, and reads the final target
// back as tightly packed RGBA pixels of size width*height*4.
//
// Passes whose program failed to compile are dropped from the chain;
// the remaining passes run on the unmodified input from the prior
// stage, so one broken shader costs only its own transform. The second
// return value reports whether every requested pass executed: callers
// must not memoize a result rendered from a reduced chain. An error is
// returned only when nothing can be rendered at all.
func (b *Backend) Composite(sourceID string, pixels []byte, srcWidth, srcHeight, width, height int, passes []Pass) ([]byte, bool, error) {
	if len(passes) == 0 {
		return nil, false, fmt.Errorf("gpu: composite with no passes")
	}
	if width <= 0 || height <= 0 {
		return nil, false, fmt.Errorf("gpu: invalid output dimensions %dx%d", width, height)
	}

	src, err := b.textures.get(sourceID, pixels, srcWidth, srcHeight)
	if err != nil {
		return nil, false, err
	}

	w, h := uint32(width), uint32(height) //nolint:gosec // dimensions always fit uint32

	// Resolve programs first so failed passes drop out before any
	// buffer state is touched.
	executable := make([]Pass, 0, len(passes))
	progs := make([]*program, 0, len(passes))
	for _, pass := range passes {
		prog, err := b.programs.get(pass.Program, pass.VertexSource, pass.FragmentSource)
		if err != nil {
			slogger().Warn("dropping pass with failed program", "program", pass.Program)
			continue
		}
		executable = append(executable, pass)
		progs = append(progs, prog)
	}
	if len(executable) == 0 {
		return nil, false, fmt.Errorf("%w: every pass dropped", ErrProgramFailed)
	}
	complete := len(executable) == len(passes)

	if err := b.buffers.resize(w, h); err != nil {
		return nil, false, err
	}
	b.buffers.reset()
	if err := b.final.ensure(b.device, w, h); err != nil {
		return nil, false, err
	}

	// Build per-pass frame resources, walking the ping-pong protocol
	// the encoder will replay: the first executable pass reads the
	// source (and flips), the last writes the final target, everything
	// in between alternates the buffer pair.
	resources := make([]*passResources, 0, len(executable))
	destroyAll := func() {
		for _, pr := range resources {
			pr.destroy(b.device)
		}
	}
	for i, pass := range executable {
		isFirst := i == 0
		isLast := i == len(executable)-1

		pr := &passResources{prog: progs[i]}
		if isFirst {
			pr.inputView = src.view
		} else {
			fb := b.buffers.read()
			pr.inputView = fb.view
			pr.inputFB = fb
		}
		if isLast {
			pr.outputView = b.final.view
		} else {
			fb := b.buffers.write()
			pr.outputView = fb.view
			pr.outputFB = fb
		}

		uniform := makeUniformBlock(w, h, isFirst, pass.Params)
		uniformBuf, err := b.device.CreateBuffer(&hal.BufferDescriptor{
			Label: pass.Program + "_uniform",
			Size:  uint64(len(uniform)),
			Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			destroyAll()
			return nil, false, fmt.Errorf("gpu: create uniform buffer: %w", err)
		}
		pr.uniformBuf = uniformBuf
		b.queue.WriteBuffer(uniformBuf, 0, uniform)

		bindGroup, err := b.device.CreateBindGroup(&hal.BindGroupDescriptor{
			Label:  pass.Program + "_bind",
			Layout: pr.prog.uniformLayout,
			Entries: []gputypes.BindGroupEntry{
				{Binding: 0, Resource: gputypes.BufferBinding{
					Buffer: uniformBuf.NativeHandle(), Offset: 0, Size: uniformBlockSize,
				}},
				{Binding: 1, Resource: gputypes.TextureViewBinding{
					TextureView: pr.inputView.NativeHandle(),
				}},
				{Binding: 2, Resource: gputypes.SamplerBinding{
					Sampler: b.sampler.NativeHandle(),
				}},
			},
		})
		if err != nil {
			pr.destroy(b.device)
			destroyAll()
			return nil, false, fmt.Errorf("gpu: create bind group: %w", err)
		}
		pr.bindGroup = bindGroup

		resources = append(resources, pr)
		if !isLast {
			b.buffers.swap()
		}
	}
	defer destroyAll()

	out, err := b.encodeSubmitReadback(w, h, resources)
	if err != nil {
		return nil, false, err
	}
	return out, complete, nil
}

// encodeSubmitReadback records every pass into one command stream,
// copies the final target to a staging buffer, submits, waits, and
// returns the tightly packed pixels.
func (b *Backend) encodeSubmitReadback(w, h uint32, resources []*passResources) ([]byte, error) {
	encoder, err := b.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "composite_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("composite"); err != nil {
		return nil, fmt.Errorf("gpu: begin encoding: %w", err)
	}

	for _, pr := range resources {
		// The input framebuffer was written by the previous pass and is
		// still in render-attachment layout. Transition for sampling.
		if pr.inputFB != nil && !pr.inputFB.sampled {
			encoder.TransitionTextures([]hal.TextureBarrier{{
				Texture: pr.inputFB.tex,
				Usage: hal.TextureUsageTransition{
					OldUsage: gputypes.TextureUsageRenderAttachment,
					NewUsage: gputypes.TextureUsageTextureBinding,
				},
			}})
			pr.inputFB.sampled = true
		}
		// The output framebuffer may have been sampled by an earlier
		// composite or pass. Transition back before rendering into it.
		if pr.outputFB != nil && pr.outputFB.sampled {
			encoder.TransitionTextures([]hal.TextureBarrier{{
				Texture: pr.outputFB.tex,
				Usage: hal.TextureUsageTransition{
					OldUsage: gputypes.TextureUsageTextureBinding,
					NewUsage: gputypes.TextureUsageRenderAttachment,
				},
			}})
			pr.outputFB.sampled = false
		}

		rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
			Label: "composite_pass",
			ColorAttachments: []hal.RenderPassColorAttachment{{
				View:       pr.outputView,
				LoadOp:     gputypes.LoadOpClear,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 0},
			}},
		})
		rp.SetPipeline(pr.prog.pipeline)
		rp.SetBindGroup(0, pr.bindGroup, nil)
		b.quad.record(rp)
		rp.End()
	}

	// The final target leaves the last render pass in render-attachment
	// layout; CopyTextureToBuffer needs transfer-source.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: b.final.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})

	// WebGPU (and DX12) requires BytesPerRow aligned to 256 bytes.
	bytesPerRow := w * 4
	const copyPitchAlignment = 256
	alignedBytesPerRow := (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	stagingSize := uint64(alignedBytesPerRow) * uint64(h)

	stagingBuf, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "composite_staging",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		encoder.DiscardEncoding()
		return nil, fmt.Errorf("gpu: create staging buffer: %w", err)
	}
	defer b.device.DestroyBuffer(stagingBuf)

	encoder.CopyTextureToBuffer(b.final.tex, stagingBuf, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedBytesPerRow, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: b.final.tex, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})

	// Return the final target to render-attachment layout so the next
	// composite's last pass can render into it.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: b.final.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("gpu: end encoding: %w", err)
	}
	defer b.device.FreeCommandBuffer(cmdBuf)

	fence, err := b.device.CreateFence()
	if err != nil {
		return nil, fmt.Errorf("gpu: create fence: %w", err)
	}
	defer b.device.DestroyFence(fence)

	if err := b.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return nil, fmt.Errorf("gpu: submit: %w", err)
	}
	fenceOK, err := b.device.Wait(fence, 1, fenceTimeout)
	if err != nil || !fenceOK {
		return nil, fmt.Errorf("gpu: wait for GPU: ok=%v err=%w", fenceOK, err)
	}

	readback := make([]byte, stagingSize)
	if err := b.queue.ReadBuffer(stagingBuf, 0, readback); err != nil {
		return nil, fmt.Errorf("gpu: readback: %w", err)
	}

	if alignedBytesPerRow == bytesPerRow {
		return readback[:uint64(bytesPerRow)*uint64(h)], nil
	}
	// Strip per-row padding from the aligned readback data.
	tight := make([]byte, uint64(bytesPerRow)*uint64(h))
	for row := uint32(0); row < h; row++ {
		srcOff := int(row) * int(alignedBytesPerRow)
		dstOff := int(row) * int(bytesPerRow)
		copy(tight[dstOff:dstOff+int(bytesPerRow)], readback[srcOff:srcOff+int(bytesPerRow)])
	}
	return tight, nil
}
