package gl

import (
	"github.com/db47h/sprite/gpu"
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/pkg/errors"
)

// Buffer is a streaming OpenGL buffer object.
//
type Buffer struct {
	id   uint32
	kind gpu.BufferKind
	size int
}

func (b *Buffer) Kind() gpu.BufferKind { return b.kind }
func (b *Buffer) Size() int            { return b.size }

// Release deletes the buffer object.
//
func (b *Buffer) Release() error {
	if b.id == 0 {
		return errors.New("buffer already released")
	}
	gl.DeleteBuffers(1, &b.id)
	b.id = 0
	return nil
}

func target(k gpu.BufferKind) uint32 {
	if k == gpu.IndexBuffer {
		return gl.ELEMENT_ARRAY_BUFFER
	}
	return gl.ARRAY_BUFFER
}

// CreateStreamingBuffer implements gpu.Device.
//
func (d *Device) CreateStreamingBuffer(kind gpu.BufferKind, byteCapacity int) (gpu.Buffer, error) {
	if byteCapacity <= 0 {
		return nil, errors.Errorf("invalid %s buffer size %d", kind, byteCapacity)
	}
	b := &Buffer{kind: kind, size: byteCapacity}
	gl.BindVertexArray(d.vao)
	gl.GenBuffers(1, &b.id)
	gl.BindBuffer(target(kind), b.id)
	gl.BufferData(target(kind), byteCapacity, nil, gl.DYNAMIC_DRAW)
	if err := d.check("create " + kind.String() + " buffer"); err != nil {
		gl.DeleteBuffers(1, &b.id)
		return nil, err
	}
	// the index buffer binding is part of the VAO state
	d.restoreBindings()
	return b, nil
}

func (d *Device) restoreBindings() {
	var vb, ib uint32
	if d.vb != nil {
		vb = d.vb.id
	}
	if d.ib != nil {
		ib = d.ib.id
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, vb)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ib)
}

// UpdateBufferRange implements gpu.Device. A write at offset 0 orphans the
// buffer storage.
//
func (d *Device) UpdateBufferRange(buf gpu.Buffer, byteOffset int, data []byte) error {
	b, ok := buf.(*Buffer)
	if !ok || b.id == 0 {
		return errors.New("invalid buffer")
	}
	if byteOffset < 0 || byteOffset+len(data) > b.size {
		return errors.Errorf("%s buffer update [%d, %d) out of range [0, %d)", b.kind, byteOffset, byteOffset+len(data), b.size)
	}
	if len(data) == 0 {
		return nil
	}
	t := target(b.kind)
	gl.BindVertexArray(d.vao)
	gl.BindBuffer(t, b.id)
	if byteOffset == 0 {
		gl.BufferData(t, b.size, nil, gl.DYNAMIC_DRAW)
	}
	gl.BufferSubData(t, byteOffset, len(data), gl.Ptr(data))
	err := d.check("update " + b.kind.String() + " buffer")
	d.restoreBindings()
	return err
}

// SetGeometry implements gpu.Device.
//
func (d *Device) SetGeometry(vb, ib gpu.Buffer) error {
	v, ok := vb.(*Buffer)
	if !ok || v.id == 0 || v.kind != gpu.VertexBuffer {
		return errors.New("invalid vertex buffer")
	}
	i, ok := ib.(*Buffer)
	if !ok || i.id == 0 || i.kind != gpu.IndexBuffer {
		return errors.New("invalid index buffer")
	}
	gl.BindVertexArray(d.vao)
	if d.vb != v {
		gl.BindBuffer(gl.ARRAY_BUFFER, v.id)
		gl.EnableVertexAttribArray(0)
		gl.VertexAttribPointer(0, 3, gl.FLOAT, false, gpu.VertexSize, gl.PtrOffset(gpu.PositionOffset))
		gl.EnableVertexAttribArray(1)
		gl.VertexAttribPointer(1, 4, gl.UNSIGNED_BYTE, true, gpu.VertexSize, gl.PtrOffset(gpu.ColorOffset))
		gl.EnableVertexAttribArray(2)
		gl.VertexAttribPointer(2, 2, gl.FLOAT, false, gpu.VertexSize, gl.PtrOffset(gpu.UVOffset))
		d.vb = v
	}
	if d.ib != i {
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, i.id)
		d.ib = i
	}
	return d.check("set geometry")
}

// DrawIndexed implements gpu.Device.
//
func (d *Device) DrawIndexed(topology gpu.Topology, baseVertex, startIndex, triangleCount int) error {
	if d.vb == nil || d.ib == nil {
		return errors.New("draw: no geometry bound")
	}
	if d.program == nil {
		return errors.New("draw: no program in use")
	}
	var mode uint32
	var count int
	switch topology {
	case gpu.TriangleList:
		mode, count = gl.TRIANGLES, triangleCount*3
	case gpu.TriangleStrip:
		mode, count = gl.TRIANGLE_STRIP, triangleCount+2
	default:
		return errors.Errorf("draw: invalid topology %d", topology)
	}
	gl.BindVertexArray(d.vao)
	gl.DrawElementsBaseVertex(mode, int32(count), gl.UNSIGNED_SHORT, gl.PtrOffset(startIndex*gpu.IndexSize), int32(baseVertex))
	return d.check("draw")
}
