//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// quad owns the single static vertex buffer for the viewport-filling
// two-triangle mesh. Shared by every pass and never recreated during
// normal composite cycles.
type quad struct {
	device hal.Device
	buf    hal.Buffer
}

func newQuad(device hal.Device, queue hal.Queue) (*quad, error) {
	data := buildQuadVertexData()
	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: "fullscreen_quad",
		Size:  uint64(len(data)),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create quad buffer: %w", err)
	}
	queue.WriteBuffer(buf, 0, data)
	return &quad{device: device, buf: buf}, nil
}

// record binds the quad's vertex buffer and issues the 6-vertex draw.
// The pipeline must already be set on the render pass; attribute
// locations come from that pipeline's vertex layout.
func (q *quad) record(rp hal.RenderPassEncoder) {
	rp.SetVertexBuffer(0, q.buf, 0)
	rp.Draw(quadVertexCount, 1, 0, 0)
}

func (q *quad) destroy() {
	if q.buf != nil {
		q.device.DestroyBuffer(q.buf)
		q.buf = nil
	}
}

// quadVertexLayout returns the vertex buffer layout matching VsIn in
// the shared vertex shader:
//
//	location 0: pos (vec2<f32>)
//	location 1: uv  (vec2<f32>)
func quadVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: quadVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0}, // pos
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1}, // uv
			},
		},
	}
}
