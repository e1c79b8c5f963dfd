package gpu

import (
	"encoding/binary"
	"math"
)

// Pass describes one full-viewport draw in a composite. The canvas
// package plans passes; this package only executes them. Input, output,
// and flip assignment follow from a pass's position in the executable
// chain (after failed programs drop out): the first pass samples the
// source texture and flips, the last writes the readback target.
type Pass struct {
	// Program is the program-cache key, unique per effect type.
	Program string

	// VertexSource and FragmentSource are concatenated into one WGSL
	// module on first compile of Program.
	VertexSource   string
	FragmentSource string

	// Params is the packed effect parameter block appended to the
	// shared uniform header. Must be paramBlockSize bytes.
	Params []byte
}

// Uniform block layout, shared by every effect program:
//
//	resolution (vec2<f32>) =  8 bytes
//	flip       (u32)       =  4 bytes
//	_pad       (u32)       =  4 bytes
//	p0,p1,p2   (3x vec4)   = 48 bytes
//
// Total = 64 bytes.
const (
	uniformBlockSize = 64
	paramBlockSize   = 48
)

// makeUniformBlock packs the shared per-pass uniform buffer. A short
// or missing params slice leaves the remaining slots zero.
func makeUniformBlock(width, height uint32, flip bool, params []byte) []byte {
	buf := make([]byte, uniformBlockSize)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(float32(width)))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(float32(height)))
	if flip {
		binary.LittleEndian.PutUint32(buf[8:12], 1)
	}
	// buf[12:16] is padding.
	n := len(params)
	if n > paramBlockSize {
		n = paramBlockSize
	}
	copy(buf[16:16+n], params[:n])
	return buf
}

// Quad vertex layout:
//
//	position (vec2<f32>) = 8 bytes (location 0)
//	uv       (vec2<f32>) = 8 bytes (location 1)
//
// Total = 16 bytes per vertex, 6 vertices (two triangles), non-indexed.
const (
	quadVertexStride = 16
	quadVertexCount  = 6
)

// buildQuadVertexData serializes the viewport-filling quad: two
// triangles in clip space -1..1 with UVs 0..1, V pointing down so UV
// (0,0) maps to the texture's first row.
func buildQuadVertexData() []byte {
	verts := [quadVertexCount][4]float32{
		{-1, -1, 0, 1},
		{1, -1, 1, 1},
		{1, 1, 1, 0},
		{-1, -1, 0, 1},
		{1, 1, 1, 0},
		{-1, 1, 0, 0},
	}
	data := make([]byte, quadVertexCount*quadVertexStride)
	off := 0
	for _, v := range verts {
		for _, f := range v {
			binary.LittleEndian.PutUint32(data[off:], math.Float32bits(f))
			off += 4
		}
	}
	return data
}
