package effect

import (
	"encoding/binary"
	"math"
)

// ParamBlockSize is the byte size of the per-effect uniform parameter
// block: three vec4<f32> slots (p0, p1, p2). Every effect's WGSL Params
// struct declares exactly this tail after the shared header, so one bind
// group layout serves all pipelines.
const ParamBlockSize = 48

// paramBlock packs up to 12 float32 values into a 48-byte little-endian
// block matching the p0..p2 vec4 slots. Unused slots stay zero.
func paramBlock(vals ...float32) []byte {
	buf := make([]byte, ParamBlockSize)
	for i, v := range vals {
		if i >= ParamBlockSize/4 {
			break
		}
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// Params returns the canonical uniform parameter block for the given
// properties. The block is both uploaded to the GPU and used as
// fingerprint material, so equal property values always produce
// identical bytes regardless of the underlying instance.
//
// Unknown property types yield a zero block.
func Params(props Properties) []byte {
	if props == nil {
		return paramBlock()
	}
	e, ok := Lookup(props.EffectType())
	if !ok {
		return paramBlock()
	}
	return e.Params(props)
}
