package batch

import (
	"github.com/db47h/sprite"
	"github.com/db47h/sprite/gpu"
	"github.com/pkg/errors"
)

const (
	verticesPerQuad = 4
	indicesPerQuad  = 6
)

// GeometryBuffers is a pair of fixed capacity streaming vertex and index
// buffers. Runs are appended to the buffers until they are full, at which
// point writing restarts at offset 0, starting a new fill.
//
type GeometryBuffers struct {
	dev      gpu.Device
	vb, ib   gpu.Buffer
	capacity int

	// cursors, in vertices and indices
	vertexCursor int
	indexCursor  int

	vertices []byte
	indices  []byte
	fills    int
}

// NewGeometryBuffers allocates buffers for the given number of quads.
//
func NewGeometryBuffers(dev gpu.Device, quads int) (*GeometryBuffers, error) {
	if quads < 1 || quads*verticesPerQuad > gpu.MaxVertices {
		return nil, errors.Errorf("invalid geometry buffer capacity %d", quads)
	}
	vb, err := dev.CreateStreamingBuffer(gpu.VertexBuffer, quads*verticesPerQuad*gpu.VertexSize)
	if err != nil {
		return nil, errors.Wrap(err, "create vertex buffer")
	}
	ib, err := dev.CreateStreamingBuffer(gpu.IndexBuffer, quads*indicesPerQuad*gpu.IndexSize)
	if err != nil {
		vb.Release()
		return nil, errors.Wrap(err, "create index buffer")
	}
	return &GeometryBuffers{
		dev:      dev,
		vb:       vb,
		ib:       ib,
		capacity: quads,
		vertices: make([]byte, quads*verticesPerQuad*gpu.VertexSize),
		indices:  make([]byte, quads*indicesPerQuad*gpu.IndexSize),
	}, nil
}

// Capacity returns the buffer capacity in quads.
//
func (g *GeometryBuffers) Capacity() int { return g.capacity }

// Fills returns the number of fills started since the last Reset.
//
func (g *GeometryBuffers) Fills() int { return g.fills }

// Reset rewinds the cursors so that the next write starts a new fill.
//
func (g *GeometryBuffers) Reset() {
	g.vertexCursor, g.indexCursor = 0, 0
	g.fills = 0
}

// Bind binds the buffers to the device.
//
func (g *GeometryBuffers) Bind() error {
	return errors.Wrap(g.dev.SetGeometry(g.vb, g.ib), "bind geometry buffers")
}

// Write uploads the geometry of a run of at most Capacity items and returns
// the base vertex and start index to draw it with. Indices are relative to
// the first vertex of the run.
//
func (g *GeometryBuffers) Write(run []*Item) (baseVertex, startIndex int, err error) {
	n := len(run)
	if n > g.capacity {
		panic(errors.Errorf("run of %d quads exceeds capacity %d", n, g.capacity))
	}
	if g.vertexCursor+n*verticesPerQuad > g.capacity*verticesPerQuad {
		sprite.Logger().Debug("geometry buffers wrapped", "quads", g.vertexCursor/verticesPerQuad)
		g.vertexCursor, g.indexCursor = 0, 0
	}
	if g.vertexCursor == 0 {
		g.fills++
	}
	vb := g.vertices[:n*verticesPerQuad*gpu.VertexSize]
	ib := g.indices[:n*indicesPerQuad*gpu.IndexSize]
	for i, it := range run {
		it.put(vb[i*verticesPerQuad*gpu.VertexSize:])
		j := uint16(i * verticesPerQuad)
		ix := ib[i*indicesPerQuad*gpu.IndexSize:]
		gpu.PutIndex(ix[0:], j)
		gpu.PutIndex(ix[2:], j+1)
		gpu.PutIndex(ix[4:], j+2)
		gpu.PutIndex(ix[6:], j+1)
		gpu.PutIndex(ix[8:], j+3)
		gpu.PutIndex(ix[10:], j+2)
	}
	if err = g.dev.UpdateBufferRange(g.vb, g.vertexCursor*gpu.VertexSize, vb); err != nil {
		return 0, 0, errors.Wrap(err, "update vertex buffer")
	}
	if err = g.dev.UpdateBufferRange(g.ib, g.indexCursor*gpu.IndexSize, ib); err != nil {
		return 0, 0, errors.Wrap(err, "update index buffer")
	}
	baseVertex, startIndex = g.vertexCursor, g.indexCursor
	g.vertexCursor += n * verticesPerQuad
	g.indexCursor += n * indicesPerQuad
	return baseVertex, startIndex, nil
}

// Release releases the device buffers.
//
func (g *GeometryBuffers) Release() error {
	err := g.vb.Release()
	if e := g.ib.Release(); err == nil {
		err = e
	}
	return errors.Wrap(err, "release geometry buffers")
}
