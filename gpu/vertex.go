package gpu

import (
	"encoding/binary"
	"math"

	"github.com/db47h/sprite"
	"github.com/go-gl/mathgl/mgl32"
)

// Vertex layout: position (3 x float32), color (4 x normalized uint8), texture
// coordinates (2 x float32).
//
const (
	VertexSize     = 24
	PositionOffset = 0
	ColorOffset    = 12
	UVOffset       = 16
	// IndexSize is the size of an index. Indices are 16 bits.
	IndexSize = 2
	// MaxVertices is the largest vertex count addressable by one draw call.
	MaxVertices = 1 << 16
)

// A Vertex as streamed to vertex buffers.
//
type Vertex struct {
	Position mgl32.Vec3
	Color    sprite.Color
	UV       mgl32.Vec2
}

// Put encodes v into b, which must be at least VertexSize bytes long.
//
func (v *Vertex) Put(b []byte) {
	_ = b[VertexSize-1]
	ne := binary.NativeEndian
	ne.PutUint32(b[0:], math.Float32bits(v.Position[0]))
	ne.PutUint32(b[4:], math.Float32bits(v.Position[1]))
	ne.PutUint32(b[8:], math.Float32bits(v.Position[2]))
	b[12], b[13], b[14], b[15] = v.Color.R, v.Color.G, v.Color.B, v.Color.A
	ne.PutUint32(b[16:], math.Float32bits(v.UV[0]))
	ne.PutUint32(b[20:], math.Float32bits(v.UV[1]))
}

// GetVertex decodes a vertex from b.
//
func GetVertex(b []byte) Vertex {
	_ = b[VertexSize-1]
	ne := binary.NativeEndian
	return Vertex{
		Position: mgl32.Vec3{
			math.Float32frombits(ne.Uint32(b[0:])),
			math.Float32frombits(ne.Uint32(b[4:])),
			math.Float32frombits(ne.Uint32(b[8:])),
		},
		Color: sprite.Color{R: b[12], G: b[13], B: b[14], A: b[15]},
		UV: mgl32.Vec2{
			math.Float32frombits(ne.Uint32(b[16:])),
			math.Float32frombits(ne.Uint32(b[20:])),
		},
	}
}

// PutIndex encodes index i into b.
//
func PutIndex(b []byte, i uint16) {
	binary.NativeEndian.PutUint16(b, i)
}

// GetIndex decodes an index from b.
//
func GetIndex(b []byte) uint16 {
	return binary.NativeEndian.Uint16(b)
}
