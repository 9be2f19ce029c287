// Package gputest provides a gpu.Device that records every call made to it.
//
package gputest

import (
	"fmt"
	"image"

	"github.com/db47h/sprite"
	"github.com/db47h/sprite/gpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// Call is a recorded device call.
//
type Call struct {
	Name string
	Args []interface{}
}

func (c Call) String() string {
	return fmt.Sprintf("%s%v", c.Name, c.Args)
}

// Texture is a fake texture.
//
type Texture struct {
	ID       uint32
	W, H     int
	Released bool
}

// NewTexture returns a new fake texture.
//
func NewTexture(id uint32, w, h int) *Texture {
	return &Texture{ID: id, W: w, H: h}
}

func (t *Texture) Width() int       { return t.W }
func (t *Texture) Height() int      { return t.H }
func (t *Texture) NativeID() uint32 { return t.ID }
func (t *Texture) Release() error   { t.Released = true; return nil }

// Buffer is a fake buffer backed by a byte slice.
//
type Buffer struct {
	kind     gpu.BufferKind
	Data     []byte
	Released bool
}

func (b *Buffer) Kind() gpu.BufferKind { return b.kind }
func (b *Buffer) Size() int            { return len(b.Data) }
func (b *Buffer) Release() error       { b.Released = true; return nil }

// Program is a fake shader program.
//
type Program struct {
	Vertex, Fragment []byte
	Uniforms         map[string]mgl32.Mat4
	Released         bool
}

func (p *Program) Release() error { p.Released = true; return nil }

// Draw is a recorded draw call with the geometry it referenced.
//
type Draw struct {
	Texture    gpu.Texture
	Program    gpu.Program
	Topology   gpu.Topology
	BaseVertex int
	StartIndex int
	Triangles  int
	// Indices holds the absolute vertex indices (i.e. with BaseVertex added).
	Indices []int
	// Vertices holds the vertex buffer content at draw time, indexed by
	// absolute vertex index.
	Vertices []gpu.Vertex
}

// Quads returns the quads drawn, assuming the quad index pattern
// (0, 1, 2, 1, 3, 2). Each quad is returned as top-left, top-right,
// bottom-left, bottom-right.
//
func (d *Draw) Quads() [][4]gpu.Vertex {
	var qs [][4]gpu.Vertex
	for i := 0; i+6 <= len(d.Indices); i += 6 {
		ix := d.Indices[i:]
		qs = append(qs, [4]gpu.Vertex{d.Vertices[ix[0]], d.Vertices[ix[1]], d.Vertices[ix[2]], d.Vertices[ix[4]]})
	}
	return qs
}

// Device is a gpu.Device that records calls. The zero value is not usable, use
// New.
//
type Device struct {
	VP    gpu.Viewport
	Calls []Call
	Draws []Draw

	// MaxTextureUnits limits the number of distinct textures that can be bound
	// during the device lifetime. 0 means unlimited.
	MaxTextureUnits int
	// Error injection.
	FailCreateBuffer  error
	FailCreateProgram error
	FailDraw          error

	vb, ib   *Buffer
	textures map[int]gpu.Texture
	seen     map[gpu.Texture]struct{}
	program  gpu.Program
	nextID   uint32
}

// New returns a new Device with a viewport of the given size.
//
func New(width, height int) *Device {
	return &Device{
		VP:       gpu.Viewport{Width: width, Height: height},
		textures: make(map[int]gpu.Texture),
		seen:     make(map[gpu.Texture]struct{}),
		nextID:   1000,
	}
}

func (d *Device) record(name string, args ...interface{}) {
	d.Calls = append(d.Calls, Call{name, args})
}

// Count returns the number of recorded calls with the given name.
//
func (d *Device) Count(name string) int {
	n := 0
	for _, c := range d.Calls {
		if c.Name == name {
			n++
		}
	}
	return n
}

// Names returns the names of all recorded calls, in order.
//
func (d *Device) Names() []string {
	ns := make([]string, len(d.Calls))
	for i := range d.Calls {
		ns[i] = d.Calls[i].Name
	}
	return ns
}

// Last returns the last recorded call with the given name.
//
func (d *Device) Last(name string) (Call, bool) {
	for i := len(d.Calls) - 1; i >= 0; i-- {
		if d.Calls[i].Name == name {
			return d.Calls[i], true
		}
	}
	return Call{}, false
}

// Reset clears recorded calls and draws.
//
func (d *Device) Reset() {
	d.Calls = nil
	d.Draws = nil
}

// Bound returns the texture bound to the given unit.
//
func (d *Device) Bound(unit int) gpu.Texture {
	return d.textures[unit]
}

func (d *Device) CreateStreamingBuffer(kind gpu.BufferKind, byteCapacity int) (gpu.Buffer, error) {
	d.record("CreateStreamingBuffer", kind, byteCapacity)
	if d.FailCreateBuffer != nil {
		return nil, d.FailCreateBuffer
	}
	return &Buffer{kind: kind, Data: make([]byte, byteCapacity)}, nil
}

func (d *Device) UpdateBufferRange(b gpu.Buffer, byteOffset int, data []byte) error {
	d.record("UpdateBufferRange", b.Kind(), byteOffset, len(data))
	buf := b.(*Buffer)
	if byteOffset < 0 || byteOffset+len(data) > len(buf.Data) {
		return errors.Errorf("%v buffer overflow: offset %d, size %d, capacity %d", buf.kind, byteOffset, len(data), len(buf.Data))
	}
	copy(buf.Data[byteOffset:], data)
	return nil
}

func (d *Device) SetGeometry(vb, ib gpu.Buffer) error {
	d.record("SetGeometry")
	d.vb, d.ib = vb.(*Buffer), ib.(*Buffer)
	return nil
}

func (d *Device) BindTexture(unit int, t gpu.Texture) error {
	d.record("BindTexture", unit, t)
	if _, ok := d.seen[t]; !ok {
		if d.MaxTextureUnits > 0 && len(d.seen) >= d.MaxTextureUnits {
			return errors.Errorf("no free texture slot for texture %d", t.NativeID())
		}
		d.seen[t] = struct{}{}
	}
	d.textures[unit] = t
	return nil
}

func (d *Device) DrawIndexed(topology gpu.Topology, baseVertex, startIndex, triangleCount int) error {
	d.record("DrawIndexed", topology, baseVertex, startIndex, triangleCount)
	if d.FailDraw != nil {
		return d.FailDraw
	}
	if d.vb == nil || d.ib == nil {
		return errors.New("no geometry bound")
	}
	dr := Draw{
		Texture:    d.textures[0],
		Program:    d.program,
		Topology:   topology,
		BaseVertex: baseVertex,
		StartIndex: startIndex,
		Triangles:  triangleCount,
	}
	n := triangleCount * 3
	if (startIndex+n)*gpu.IndexSize > len(d.ib.Data) {
		return errors.Errorf("index range [%d, %d) out of bounds", startIndex, startIndex+n)
	}
	for i := startIndex; i < startIndex+n; i++ {
		v := baseVertex + int(gpu.GetIndex(d.ib.Data[i*gpu.IndexSize:]))
		if (v+1)*gpu.VertexSize > len(d.vb.Data) {
			return errors.Errorf("vertex %d out of bounds", v)
		}
		dr.Indices = append(dr.Indices, v)
	}
	dr.Vertices = make([]gpu.Vertex, len(d.vb.Data)/gpu.VertexSize)
	for i := range dr.Vertices {
		dr.Vertices[i] = gpu.GetVertex(d.vb.Data[i*gpu.VertexSize:])
	}
	d.Draws = append(d.Draws, dr)
	return nil
}

func (d *Device) Viewport() gpu.Viewport {
	return d.VP
}

func (d *Device) CreateTexture(img image.Image) (gpu.Texture, error) {
	sz := img.Bounds().Size()
	d.record("CreateTexture", sz.X, sz.Y)
	d.nextID++
	return NewTexture(d.nextID, sz.X, sz.Y), nil
}

func (d *Device) CreateProgram(vertex, fragment []byte) (gpu.Program, error) {
	d.record("CreateProgram")
	if d.FailCreateProgram != nil {
		return nil, d.FailCreateProgram
	}
	return &Program{Vertex: vertex, Fragment: fragment, Uniforms: make(map[string]mgl32.Mat4)}, nil
}

func (d *Device) UseProgram(p gpu.Program) error {
	d.record("UseProgram")
	d.program = p
	return nil
}

func (d *Device) SetUniformMatrix(p gpu.Program, name string, m *mgl32.Mat4) error {
	d.record("SetUniformMatrix", name, *m)
	p.(*Program).Uniforms[name] = *m
	return nil
}

func (d *Device) SetBlendEnabled(enabled bool) { d.record("SetBlendEnabled", enabled) }
func (d *Device) SetBlendColor(c sprite.Color) { d.record("SetBlendColor", c) }
func (d *Device) SetBlendEquation(color, alpha gpu.BlendFunction) {
	d.record("SetBlendEquation", color, alpha)
}
func (d *Device) SetBlendFactors(colorSrc, colorDst, alphaSrc, alphaDst gpu.Blend) {
	d.record("SetBlendFactors", colorSrc, colorDst, alphaSrc, alphaDst)
}
func (d *Device) SetColorMask(mask gpu.ColorWriteChannels) { d.record("SetColorMask", mask) }

func (d *Device) SetDepthTest(enabled bool)           { d.record("SetDepthTest", enabled) }
func (d *Device) SetDepthMask(write bool)             { d.record("SetDepthMask", write) }
func (d *Device) SetDepthFunc(f gpu.CompareFunction) { d.record("SetDepthFunc", f) }
func (d *Device) SetStencilTest(enabled bool)         { d.record("SetStencilTest", enabled) }
func (d *Device) SetStencilFunc(f gpu.CompareFunction, ref int, mask uint32) {
	d.record("SetStencilFunc", f, ref, mask)
}
func (d *Device) SetStencilOp(fail, depthFail, pass gpu.StencilOperation) {
	d.record("SetStencilOp", fail, depthFail, pass)
}
func (d *Device) SetStencilWriteMask(mask uint32) { d.record("SetStencilWriteMask", mask) }

func (d *Device) SetCullMode(m gpu.CullMode)            { d.record("SetCullMode", m) }
func (d *Device) SetFillMode(m gpu.FillMode)            { d.record("SetFillMode", m) }
func (d *Device) SetDepthBias(bias, slopeScale float32) { d.record("SetDepthBias", bias, slopeScale) }
func (d *Device) SetScissorTest(enabled bool)           { d.record("SetScissorTest", enabled) }
func (d *Device) SetMultiSample(enabled bool)           { d.record("SetMultiSample", enabled) }

func (d *Device) SetSampler(unit int, s gpu.SamplerDesc) { d.record("SetSampler", unit, s) }

var _ gpu.Device = (*Device)(nil)
