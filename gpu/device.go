// Package gpu defines the GPU device abstraction consumed by the sprite batcher
// and the pipeline state cache, along with the value types they exchange.
//
// Implementations are not required to be safe for concurrent use: all calls
// are made from the rendering goroutine.
//
package gpu

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// BufferKind selects the usage of a streaming buffer.
//
type BufferKind int

const (
	VertexBuffer BufferKind = iota
	IndexBuffer
)

func (k BufferKind) String() string {
	switch k {
	case VertexBuffer:
		return "vertex"
	case IndexBuffer:
		return "index"
	}
	return "unknown"
}

// Topology is the primitive topology of an indexed draw call.
//
type Topology int

const (
	TriangleList Topology = iota
	TriangleStrip
)

// Releaser is implemented by device resources.
//
type Releaser interface {
	Release() error
}

// A Buffer is a fixed capacity GPU buffer.
//
type Buffer interface {
	Releaser
	Kind() BufferKind
	// Size returns the buffer capacity in bytes.
	Size() int
}

// A Texture is a GPU texture resource. Textures are compared by identity, and
// NativeID must be unique among live textures of a device.
//
type Texture interface {
	Releaser
	Width() int
	Height() int
	NativeID() uint32
}

// A Program is a linked shader program.
//
type Program interface {
	Releaser
}

// Viewport describes the render target area.
//
type Viewport struct {
	X, Y          int
	Width, Height int
}

// Bounds returns the viewport as a rectangle.
//
func (v Viewport) Bounds() image.Rectangle {
	return image.Rect(v.X, v.Y, v.X+v.Width, v.Y+v.Height)
}

// AspectRatio returns Width / Height, or 0 if the viewport is empty.
//
func (v Viewport) AspectRatio() float32 {
	if v.Height == 0 {
		return 0
	}
	return float32(v.Width) / float32(v.Height)
}

// Device is the low level GPU device used by the sprite batcher.
//
type Device interface {
	StateDevice

	// CreateStreamingBuffer allocates a buffer of the given capacity meant to
	// be partially overwritten many times per frame.
	CreateStreamingBuffer(kind BufferKind, byteCapacity int) (Buffer, error)
	// UpdateBufferRange copies data into b at the given byte offset. A write at
	// offset 0 signals the start of a new fill: the device may discard the
	// previous content.
	UpdateBufferRange(b Buffer, byteOffset int, data []byte) error
	// SetGeometry binds a vertex and index buffer pair using the vertex layout
	// described by Vertex.
	SetGeometry(vb, ib Buffer) error
	// BindTexture binds t to the given texture unit.
	BindTexture(unit int, t Texture) error
	// DrawIndexed draws triangleCount triangles using indices starting at
	// startIndex, each index being offset by baseVertex.
	DrawIndexed(topology Topology, baseVertex, startIndex, triangleCount int) error

	// Viewport returns the current viewport.
	Viewport() Viewport
	// CreateTexture uploads img to a new RGBA texture.
	CreateTexture(img image.Image) (Texture, error)
	// CreateProgram compiles and links a shader program.
	CreateProgram(vertex, fragment []byte) (Program, error)
	// UseProgram makes p the active program.
	UseProgram(p Program) error
	// SetUniformMatrix sets the named mat4 uniform of p.
	SetUniformMatrix(p Program, name string, m *mgl32.Mat4) error
}
