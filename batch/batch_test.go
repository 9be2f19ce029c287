package batch

import (
	"image"
	"math"
	"testing"

	"github.com/db47h/sprite"
	"github.com/db47h/sprite/effect"
	"github.com/db47h/sprite/gpu"
	"github.com/db47h/sprite/internal/gputest"
	"github.com/db47h/sprite/state"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catch(f func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = r.(error)
		}
	}()
	f()
	return nil
}

func newBatch(t *testing.T, dev *gputest.Device, opts ...Option) *SpriteBatch {
	t.Helper()
	sb, err := New(dev, opts...)
	require.NoError(t, err)
	dev.Reset()
	return sb
}

// tag returns a color identifying the i-th sprite.
func tag(i int) sprite.Color { return sprite.Color{R: uint8(i), A: 255} }

func tags(d gputest.Draw) []int {
	var ts []int
	for _, q := range d.Quads() {
		ts = append(ts, int(q[0].Color.R))
	}
	return ts
}

func drawAt(sb *SpriteBatch, tex gpu.Texture, i int, depth float32) {
	sb.DrawSized(tex, mgl32.Vec2{float32(i), 0}, nil, tag(i), 0, mgl32.Vec2{}, mgl32.Vec2{1, 1}, sprite.FlipNone, depth)
}

func TestDrawCallMinimality(t *testing.T) {
	dev := gputest.New(640, 480)
	sb := newBatch(t, dev)
	a, b, c := gputest.NewTexture(1, 8, 8), gputest.NewTexture(2, 8, 8), gputest.NewTexture(3, 8, 8)
	seq := []gpu.Texture{a, a, b, b, b, a, c, c}

	sb.Begin(Settings{})
	for i, tex := range seq {
		drawAt(sb, tex, i, 0)
	}
	require.NoError(t, sb.End())

	require.Len(t, dev.Draws, 4)
	want := []struct {
		id   uint32
		tags []int
	}{
		{1, []int{0, 1}},
		{2, []int{2, 3, 4}},
		{1, []int{5}},
		{3, []int{6, 7}},
	}
	for i, w := range want {
		d := dev.Draws[i]
		assert.Equal(t, w.id, d.Texture.NativeID(), "draw %d", i)
		assert.Equal(t, len(w.tags)*2, d.Triangles, "draw %d", i)
		assert.Equal(t, w.tags, tags(d), "draw %d", i)
		assert.Equal(t, gpu.TriangleList, d.Topology)
	}
	assert.Equal(t, Stats{Sprites: 8, DrawCalls: 4, Runs: 4, Fills: 1}, sb.Stats())
}

func TestCapacitySplitting(t *testing.T) {
	dev := gputest.New(640, 480)
	sb := newBatch(t, dev)
	tex := gputest.NewTexture(1, 8, 8)

	sb.Begin(Settings{})
	for i := 0; i < MaxBatchCapacity+1; i++ {
		drawAt(sb, tex, i, 0)
	}
	require.NoError(t, sb.End())

	require.Len(t, dev.Draws, 2)
	assert.Equal(t, MaxBatchCapacity*2, dev.Draws[0].Triangles)
	assert.Equal(t, 2, dev.Draws[1].Triangles)
	// the second run does not fit in the remaining space and starts a new fill
	assert.Equal(t, 0, dev.Draws[1].BaseVertex)
	assert.Equal(t, 0, dev.Draws[1].StartIndex)
	assert.Equal(t, []int{MaxBatchCapacity & 0xff}, tags(dev.Draws[1]))
	assert.Equal(t, 2, sb.Stats().Fills)
}

func TestRunsShareFill(t *testing.T) {
	dev := gputest.New(640, 480)
	sb := newBatch(t, dev, Capacity(4))
	a, b := gputest.NewTexture(1, 8, 8), gputest.NewTexture(2, 8, 8)

	sb.Begin(Settings{})
	drawAt(sb, a, 0, 0)
	drawAt(sb, b, 1, 0)
	drawAt(sb, b, 2, 0)
	drawAt(sb, a, 3, 0)
	drawAt(sb, a, 4, 0)
	require.NoError(t, sb.End())

	require.Len(t, dev.Draws, 3)
	assert.Equal(t, []int{0, 4, 0}, []int{dev.Draws[0].BaseVertex, dev.Draws[1].BaseVertex, dev.Draws[2].BaseVertex})
	assert.Equal(t, []int{0, 6, 0}, []int{dev.Draws[0].StartIndex, dev.Draws[1].StartIndex, dev.Draws[2].StartIndex})
	assert.Equal(t, []int{3, 4}, tags(dev.Draws[2]))
	assert.Equal(t, 2, sb.Stats().Fills)

	// vertex uploads start at the vertex cursor
	var offsets []int
	for _, c := range dev.Calls {
		if c.Name == "UpdateBufferRange" && c.Args[0] == gpu.VertexBuffer {
			offsets = append(offsets, c.Args[1].(int))
		}
	}
	assert.Equal(t, []int{0, 4 * gpu.VertexSize, 0}, offsets)
}

func TestCapacityOption(t *testing.T) {
	dev := gputest.New(640, 480)
	sb := newBatch(t, dev, Capacity(3))
	tex := gputest.NewTexture(1, 8, 8)
	sb.Begin(Settings{})
	for i := 0; i < 7; i++ {
		drawAt(sb, tex, i, 0)
	}
	require.NoError(t, sb.End())
	require.Len(t, dev.Draws, 3)
	assert.Equal(t, []int{0, 1, 2}, tags(dev.Draws[0]))
	assert.Equal(t, []int{6}, tags(dev.Draws[2]))
}

func TestSortStability(t *testing.T) {
	tests := []struct {
		mode sprite.SortMode
		want []int
	}{
		{sprite.BackToFront, []int{1, 0, 2, 3}},
		{sprite.FrontToBack, []int{3, 0, 2, 1}},
		{sprite.Deferred, []int{0, 1, 2, 3}},
	}
	depths := []float32{0.5, 0.2, 0.5, 0.8}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			dev := gputest.New(640, 480)
			sb := newBatch(t, dev)
			tex := gputest.NewTexture(1, 8, 8)
			sb.Begin(Settings{SortMode: tt.mode})
			for i, d := range depths {
				drawAt(sb, tex, i, d)
			}
			require.NoError(t, sb.End())
			require.Len(t, dev.Draws, 1)
			assert.Equal(t, tt.want, tags(dev.Draws[0]))
		})
	}
}

func TestTextureSort(t *testing.T) {
	dev := gputest.New(640, 480)
	sb := newBatch(t, dev)
	a, b := gputest.NewTexture(1, 8, 8), gputest.NewTexture(2, 8, 8)
	sb.Begin(Settings{SortMode: sprite.Texture})
	for i, tex := range []gpu.Texture{a, b, a, b, a} {
		drawAt(sb, tex, i, float32(i))
	}
	require.NoError(t, sb.End())
	require.Len(t, dev.Draws, 2)
	assert.Equal(t, uint32(2), dev.Draws[0].Texture.NativeID())
	assert.Equal(t, []int{1, 3}, tags(dev.Draws[0]))
	assert.Equal(t, []int{0, 2, 4}, tags(dev.Draws[1]))
}

func TestDeferredOrderPreservation(t *testing.T) {
	dev := gputest.New(640, 480)
	sb := newBatch(t, dev)
	a, b := gputest.NewTexture(1, 8, 8), gputest.NewTexture(2, 8, 8)
	sb.Begin(Settings{})
	for i, tex := range []gpu.Texture{a, b, a, b} {
		drawAt(sb, tex, i, float32(-i))
	}
	require.NoError(t, sb.End())
	require.Len(t, dev.Draws, 4)
	for i, d := range dev.Draws {
		assert.Equal(t, []int{i}, tags(d))
	}
}

func TestEmptyPassIssuesNoCalls(t *testing.T) {
	dev := gputest.New(640, 480)
	sb := newBatch(t, dev)
	sb.Begin(Settings{})
	require.NoError(t, sb.End())
	assert.Empty(t, dev.Calls)
	assert.Equal(t, Stats{}, sb.Stats())

	sb.Begin(Settings{})
	sb.DrawText(nil, "", mgl32.Vec2{}, sprite.White)
	require.NoError(t, sb.End())
	assert.Empty(t, dev.Calls)
}

func TestStatesAndProjection(t *testing.T) {
	dev := gputest.New(640, 480)
	sb := newBatch(t, dev)
	tex := gputest.NewTexture(1, 8, 8)

	sb.Begin(Settings{})
	sb.Draw(tex, mgl32.Vec2{}, sprite.White)
	require.NoError(t, sb.End())

	c, ok := dev.Last("SetBlendFactors")
	require.True(t, ok)
	assert.Equal(t, []interface{}{gpu.BlendOne, gpu.BlendInverseSourceAlpha, gpu.BlendOne, gpu.BlendInverseSourceAlpha}, c.Args)
	c, ok = dev.Last("SetDepthTest")
	require.True(t, ok)
	assert.Equal(t, false, c.Args[0])
	c, ok = dev.Last("SetCullMode")
	require.True(t, ok)
	assert.Equal(t, gpu.CullCounterClockwiseFace, c.Args[0])
	c, ok = dev.Last("SetSampler")
	require.True(t, ok)
	assert.Equal(t, state.LinearClamp.Desc(), c.Args[1])
	c, ok = dev.Last("SetUniformMatrix")
	require.True(t, ok)
	assert.Equal(t, mgl32.Ortho(0, 640, 480, 0, 0, -1), c.Args[1])
	assert.Equal(t, 1, dev.Count("SetGeometry"))

	// the same settings issue no state call
	dev.Reset()
	sb.Begin(Settings{})
	sb.Draw(tex, mgl32.Vec2{}, sprite.White)
	require.NoError(t, sb.End())
	assert.Equal(t, []string{"SetGeometry", "UpdateBufferRange", "UpdateBufferRange", "BindTexture", "UseProgram", "DrawIndexed"}, dev.Names())

	// a transform changes the matrix; Opaque only changes blend enable and factors
	dev.Reset()
	tr := mgl32.Translate3D(5, 6, 0)
	sb.Begin(Settings{Blend: state.Opaque, Transform: &tr})
	sb.Draw(tex, mgl32.Vec2{}, sprite.White)
	require.NoError(t, sb.End())
	assert.Equal(t, 1, dev.Count("SetBlendEnabled"))
	assert.Equal(t, 1, dev.Count("SetBlendFactors"))
	assert.Zero(t, dev.Count("SetBlendEquation"))
	c, ok = dev.Last("SetUniformMatrix")
	require.True(t, ok)
	assert.Equal(t, mgl32.Ortho(0, 640, 480, 0, 0, -1).Mul4(tr), c.Args[1])
}

func TestGeometry(t *testing.T) {
	dev := gputest.New(640, 480)
	sb := newBatch(t, dev)
	tex := gputest.NewTexture(1, 4, 2)

	sb.Begin(Settings{})
	sb.DrawSized(tex, mgl32.Vec2{10, 10}, nil, sprite.White, 0, mgl32.Vec2{}, mgl32.Vec2{4, 2}, sprite.FlipNone, 0)
	require.NoError(t, sb.End())
	require.Len(t, dev.Draws, 1)
	q := dev.Draws[0].Quads()[0]
	want := [4]mgl32.Vec3{{10, 10, 0}, {14, 10, 0}, {10, 12, 0}, {14, 12, 0}}
	uv := [4]mgl32.Vec2{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
	for i := range q {
		assert.Equal(t, want[i], q[i].Position, "corner %d", i)
		assert.Equal(t, uv[i], q[i].UV, "corner %d", i)
		assert.Equal(t, sprite.White, q[i].Color)
	}
}

func assertVec3(t *testing.T, want, got mgl32.Vec3, msg string) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-4, "%s[%d]: want %v, got %v", msg, i, want, got)
	}
}

func TestRotation(t *testing.T) {
	pool := NewItemPool(0)
	tex := gputest.NewTexture(1, 2, 2)
	it := pool.Acquire(tex, mgl32.Vec2{}, nil, sprite.White, math.Pi/2, mgl32.Vec2{}, mgl32.Vec2{2, 0}, sprite.FlipNone, 0, sprite.Deferred)
	assertVec3(t, mgl32.Vec3{0, 0, 0}, it.Corners[0], "top-left")
	assertVec3(t, mgl32.Vec3{0, 2, 0}, it.Corners[1], "top-right")

	// normalized into [0, 2π)
	it2 := pool.Acquire(tex, mgl32.Vec2{}, nil, sprite.White, -3*math.Pi/2, mgl32.Vec2{}, mgl32.Vec2{2, 0}, sprite.FlipNone, 0, sprite.Deferred)
	assertVec3(t, it.Corners[1], it2.Corners[1], "top-right")

	// full turns skip rotation
	it3 := pool.Acquire(tex, mgl32.Vec2{3, 4}, nil, sprite.White, 2*math.Pi, mgl32.Vec2{}, mgl32.Vec2{2, 1}, sprite.FlipNone, 0, sprite.Deferred)
	assertVec3(t, mgl32.Vec3{5, 5, 0}, it3.Corners[3], "bottom-right")

	// rotation around the origin
	it4 := pool.Acquire(tex, mgl32.Vec2{10, 10}, nil, sprite.White, math.Pi, mgl32.Vec2{1, 1}, mgl32.Vec2{2, 2}, sprite.FlipNone, 0.5, sprite.Deferred)
	assertVec3(t, mgl32.Vec3{12, 12, 0.5}, it4.Corners[0], "top-left")
	assertVec3(t, mgl32.Vec3{10, 10, 0.5}, it4.Corners[3], "bottom-right")
}

func TestFlip(t *testing.T) {
	pool := NewItemPool(0)
	tex := gputest.NewTexture(1, 1, 1)
	src := image.Rect(0, 0, 1, 1)
	it := pool.Acquire(tex, mgl32.Vec2{}, &src, sprite.White, 0, mgl32.Vec2{}, mgl32.Vec2{1, 1}, sprite.FlipHorizontally, 0, sprite.Deferred)
	assert.Equal(t, mgl32.Vec2{1, 0}, it.UVTopLeft)
	assert.Equal(t, mgl32.Vec2{0, 1}, it.UVBottomRight)

	it = pool.Acquire(tex, mgl32.Vec2{}, &src, sprite.White, 0, mgl32.Vec2{}, mgl32.Vec2{1, 1}, sprite.FlipVertically, 0, sprite.Deferred)
	assert.Equal(t, mgl32.Vec2{0, 1}, it.UVTopLeft)
	assert.Equal(t, mgl32.Vec2{1, 0}, it.UVBottomRight)

	it = pool.Acquire(tex, mgl32.Vec2{}, nil, sprite.White, 0, mgl32.Vec2{}, mgl32.Vec2{1, 1}, sprite.FlipHorizontally|sprite.FlipVertically, 0, sprite.Deferred)
	assert.Equal(t, mgl32.Vec2{1, 1}, it.UVTopLeft)
	assert.Equal(t, mgl32.Vec2{0, 0}, it.UVBottomRight)
}

func TestSortKeys(t *testing.T) {
	pool := NewItemPool(0)
	tex := gputest.NewTexture(42, 1, 1)
	acquire := func(m sprite.SortMode) *Item {
		return pool.Acquire(tex, mgl32.Vec2{}, nil, sprite.White, 0, mgl32.Vec2{}, mgl32.Vec2{1, 1}, sprite.FlipNone, 0.25, m)
	}
	assert.Equal(t, -0.25, acquire(sprite.BackToFront).SortKey)
	assert.Equal(t, 0.25, acquire(sprite.FrontToBack).SortKey)
	assert.Equal(t, 42.0, acquire(sprite.Texture).SortKey)
	assert.Equal(t, 0.0, acquire(sprite.Deferred).SortKey)
}

func TestDrawVariants(t *testing.T) {
	tex := gputest.NewTexture(1, 8, 4)
	tests := []struct {
		name   string
		draw   func(sb *SpriteBatch)
		corner [4]mgl32.Vec3
		uvTL   mgl32.Vec2
		uvBR   mgl32.Vec2
	}{
		{
			"Draw",
			func(sb *SpriteBatch) { sb.Draw(tex, mgl32.Vec2{1, 2}, sprite.White) },
			[4]mgl32.Vec3{{1, 2, 0}, {9, 2, 0}, {1, 6, 0}, {9, 6, 0}},
			mgl32.Vec2{0, 0}, mgl32.Vec2{1, 1},
		},
		{
			"DrawRegion",
			func(sb *SpriteBatch) {
				src := image.Rect(2, 1, 6, 3)
				sb.DrawRegion(tex, mgl32.Vec2{0, 0}, &src, sprite.White)
			},
			[4]mgl32.Vec3{{0, 0, 0}, {4, 0, 0}, {0, 2, 0}, {4, 2, 0}},
			mgl32.Vec2{0.25, 0.25}, mgl32.Vec2{0.75, 0.75},
		},
		{
			"DrawScaled",
			func(sb *SpriteBatch) {
				sb.DrawScaled(tex, mgl32.Vec2{}, nil, sprite.White, math.Pi, mgl32.Vec2{1, 1}, mgl32.Vec2{2, 3}, sprite.FlipNone, 0)
			},
			// size (16, 12), origin (2, 3)
			[4]mgl32.Vec3{{4, 6, 0}, {-12, 6, 0}, {4, -6, 0}, {-12, -6, 0}},
			mgl32.Vec2{0, 0}, mgl32.Vec2{1, 1},
		},
		{
			"DrawDest",
			func(sb *SpriteBatch) {
				sb.DrawDest(tex, image.Rect(10, 20, 26, 60), nil, sprite.White, 0, mgl32.Vec2{4, 2}, sprite.FlipNone, 0)
			},
			[4]mgl32.Vec3{{10, 20, 0}, {26, 20, 0}, {10, 60, 0}, {26, 60, 0}},
			mgl32.Vec2{0, 0}, mgl32.Vec2{1, 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := gputest.New(640, 480)
			sb := newBatch(t, dev)
			sb.Begin(Settings{})
			tt.draw(sb)
			require.NoError(t, sb.End())
			require.Len(t, dev.Draws, 1)
			q := dev.Draws[0].Quads()[0]
			for i := range q {
				assertVec3(t, tt.corner[i], q[i].Position, "corner")
			}
			assert.Equal(t, tt.uvTL, q[0].UV)
			assert.Equal(t, tt.uvBR, q[3].UV)
		})
	}
}

func TestDrawDestRotatesAroundScaledOrigin(t *testing.T) {
	dev := gputest.New(640, 480)
	sb := newBatch(t, dev)
	tex := gputest.NewTexture(1, 8, 4)
	sb.Begin(Settings{})
	// dst is twice the source size: origin (4, 2) becomes (8, 4)
	sb.DrawDest(tex, image.Rect(0, 0, 16, 8), nil, sprite.White, math.Pi, mgl32.Vec2{4, 2}, sprite.FlipNone, 0)
	require.NoError(t, sb.End())
	q := dev.Draws[0].Quads()[0]
	assertVec3(t, mgl32.Vec3{16, 8, 0}, q[0].Position, "top-left")
	assertVec3(t, mgl32.Vec3{0, 0, 0}, q[3].Position, "bottom-right")
}

func TestPoolIntegrity(t *testing.T) {
	dev := gputest.New(640, 480)
	sb := newBatch(t, dev, PoolSize(2))
	pool := sb.Pool()
	tex := gputest.NewTexture(1, 8, 8)
	assert.Equal(t, 2, pool.Free())

	sb.Begin(Settings{})
	for i := 0; i < 5; i++ {
		drawAt(sb, tex, i, 0)
	}
	assert.Equal(t, 0, pool.Free())
	assert.Equal(t, 5, pool.Allocated())
	require.NoError(t, sb.End())
	assert.Equal(t, 0, pool.Free(), "items stay referenced until the next Begin")

	sb.Begin(Settings{})
	assert.Equal(t, 5, pool.Free())
	for i := 0; i < 3; i++ {
		drawAt(sb, tex, i, 0)
	}
	require.NoError(t, sb.End())
	sb.Begin(Settings{})
	assert.Equal(t, 5, pool.Free())
	assert.Equal(t, 5, pool.Allocated())
	require.NoError(t, sb.End())
}

func TestPoolDoubleRelease(t *testing.T) {
	pool := NewItemPool(1)
	tex := gputest.NewTexture(1, 1, 1)
	it := pool.Acquire(tex, mgl32.Vec2{}, nil, sprite.White, 0, mgl32.Vec2{}, mgl32.Vec2{1, 1}, sprite.FlipNone, 0, sprite.Deferred)
	assert.Equal(t, 0, pool.Free())
	pool.Release(it)
	err := catch(func() { pool.Release(it) })
	assert.True(t, errors.Is(err, ErrDoubleRelease), "got %v", err)
	assert.Equal(t, 1, pool.Free())

	// acquired items are recomputed
	it2 := pool.Acquire(tex, mgl32.Vec2{5, 5}, nil, sprite.Black, 0, mgl32.Vec2{}, mgl32.Vec2{1, 1}, sprite.FlipNone, 0, sprite.Deferred)
	assert.Same(t, it, it2)
	assert.Equal(t, sprite.Black, it2.Color)
	assert.Equal(t, mgl32.Vec3{5, 5, 0}, it2.Corners[0])
}

func TestUsageErrors(t *testing.T) {
	dev := gputest.New(640, 480)
	sb := newBatch(t, dev)
	tex := gputest.NewTexture(1, 8, 8)

	err := catch(func() { sb.End() })
	assert.True(t, errors.Is(err, ErrNotBegun), "End: %v", err)
	err = catch(func() { sb.Draw(tex, mgl32.Vec2{}, sprite.White) })
	assert.True(t, errors.Is(err, ErrNotBegun), "Draw: %v", err)
	err = catch(func() { sb.DrawText(nil, "x", mgl32.Vec2{}, sprite.White) })
	assert.True(t, errors.Is(err, ErrNotBegun), "DrawText: %v", err)

	sb.Begin(Settings{})
	err = catch(func() { sb.Begin(Settings{}) })
	assert.True(t, errors.Is(err, ErrAlreadyBegun), "Begin: %v", err)
	err = catch(func() { sb.Draw(nil, mgl32.Vec2{}, sprite.White) })
	assert.True(t, errors.Is(err, ErrNilTexture), "Draw: %v", err)
	require.NoError(t, sb.End())

	err = catch(func() { sb.End() })
	assert.True(t, errors.Is(err, ErrNotBegun), "End: %v", err)
}

func TestAddWhileFlushing(t *testing.T) {
	dev := gputest.New(640, 480)
	sb := newBatch(t, dev)
	tex := gputest.NewTexture(1, 8, 8)
	b := sb.batcher
	e := &testEffect{}
	e.tech.Passes = []*effect.Pass{{Name: "reentrant", Bind: func(gpu.Device) error {
		b.Add(sb.pool.Acquire(tex, mgl32.Vec2{}, nil, sprite.White, 0, mgl32.Vec2{}, mgl32.Vec2{1, 1}, sprite.FlipNone, 0, sprite.Deferred))
		return nil
	}}}

	b.Begin(sprite.Deferred)
	b.Add(sb.pool.Acquire(tex, mgl32.Vec2{}, nil, sprite.White, 0, mgl32.Vec2{}, mgl32.Vec2{1, 1}, sprite.FlipNone, 0, sprite.Deferred))
	err := catch(func() { b.End(e) })
	assert.True(t, errors.Is(err, ErrFlushing), "got %v", err)

	// the batcher is usable again
	b.Begin(sprite.Deferred)
	assert.Equal(t, 0, b.Len())
	require.NoError(t, b.End(e))
}

func TestImmediateMode(t *testing.T) {
	dev := gputest.New(640, 480)
	sb := newBatch(t, dev)
	tex := gputest.NewTexture(1, 8, 8)

	sb.Begin(Settings{SortMode: sprite.Immediate})
	assert.Equal(t, 1, dev.Count("SetBlendEnabled"), "states are applied by Begin")
	for i := 0; i < 3; i++ {
		drawAt(sb, tex, i, 0)
		assert.Len(t, dev.Draws, i+1)
	}
	require.NoError(t, sb.End())
	require.Len(t, dev.Draws, 3)
	for i, d := range dev.Draws {
		assert.Equal(t, []int{i}, tags(d))
		assert.Equal(t, i*4, d.BaseVertex)
	}
	assert.Equal(t, 1, dev.Count("SetGeometry"))
	assert.Equal(t, 1, dev.Count("SetUniformMatrix"))
	assert.Equal(t, Stats{Sprites: 3, DrawCalls: 3, Runs: 3, Fills: 1}, sb.Stats())
}

func TestImmediateModeError(t *testing.T) {
	dev := gputest.New(640, 480)
	sb := newBatch(t, dev)
	tex := gputest.NewTexture(1, 8, 8)
	dev.FailDraw = errors.New("device lost")

	sb.Begin(Settings{SortMode: sprite.Immediate})
	drawAt(sb, tex, 0, 0)
	drawAt(sb, tex, 1, 0)
	err := sb.End()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device lost")

	dev.FailDraw = nil
	sb.Begin(Settings{SortMode: sprite.Immediate})
	drawAt(sb, tex, 0, 0)
	assert.NoError(t, sb.End())
}

func TestTextureSlotExhaustion(t *testing.T) {
	dev := gputest.New(640, 480)
	sb := newBatch(t, dev)
	dev.MaxTextureUnits = 2
	sb.Begin(Settings{})
	for i := 0; i < 3; i++ {
		drawAt(sb, gputest.NewTexture(uint32(i+1), 8, 8), i, 0)
	}
	err := sb.End()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no free texture slot")
	assert.Len(t, dev.Draws, 2)

	// the next pass starts from a clean state
	sb.Begin(Settings{})
	assert.Equal(t, DefaultPoolSize, sb.Pool().Free())
	require.NoError(t, sb.End())
}

func TestNewErrors(t *testing.T) {
	dev := gputest.New(640, 480)
	dev.FailCreateBuffer = errors.New("out of memory")
	_, err := New(dev)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of memory")

	dev = gputest.New(640, 480)
	dev.FailCreateProgram = errors.New("link error")
	_, err = New(dev)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "link error")
}

func TestCustomEffect(t *testing.T) {
	dev := gputest.New(100, 50)
	var binds int
	e := &testEffect{}
	e.tech.Passes = []*effect.Pass{
		{Name: "one", Bind: func(gpu.Device) error { binds++; return nil }},
		{Name: "two", Blend: state.Additive, Bind: func(gpu.Device) error { binds++; return nil }},
	}
	sb := newBatch(t, dev, WithEffect(e))
	assert.Zero(t, dev.Count("CreateProgram"))
	tex := gputest.NewTexture(1, 8, 8)

	sb.Begin(Settings{})
	drawAt(sb, tex, 0, 0)
	require.NoError(t, sb.End())
	assert.Equal(t, 2, binds)
	assert.Len(t, dev.Draws, 2)
	assert.Equal(t, mgl32.Ortho(0, 100, 50, 0, 0, -1), e.m)
	assert.Equal(t, Stats{Sprites: 1, DrawCalls: 2, Runs: 1, Fills: 1}, sb.Stats())
	assert.Same(t, state.Additive, sb.Cache().Blend())
}

func TestSharedStateCache(t *testing.T) {
	dev := gputest.New(100, 50)
	cache := state.NewCache(dev)
	sb1 := newBatch(t, dev, WithStateCache(cache))
	sb2 := newBatch(t, dev, WithStateCache(cache))
	tex := gputest.NewTexture(1, 8, 8)

	sb1.Begin(Settings{})
	sb1.Draw(tex, mgl32.Vec2{}, sprite.White)
	require.NoError(t, sb1.End())
	n := dev.Count("SetBlendFactors")
	sb2.Begin(Settings{})
	sb2.Draw(tex, mgl32.Vec2{}, sprite.White)
	require.NoError(t, sb2.End())
	assert.Equal(t, n, dev.Count("SetBlendFactors"))
}

type testEffect struct {
	tech effect.Technique
	m    mgl32.Mat4
}

func (e *testEffect) SetTransform(m mgl32.Mat4)           { e.m = m }
func (e *testEffect) CurrentTechnique() *effect.Technique { return &e.tech }

// windings returns the winding of every triangle of d after projection to
// normalized device coordinates.
func windings(d gputest.Draw, proj mgl32.Mat4) []gpu.Winding {
	var ws []gpu.Winding
	for i := 0; i+3 <= len(d.Indices); i += 3 {
		var p [3]mgl32.Vec2
		for j := range p {
			v := d.Vertices[d.Indices[i+j]].Position
			p[j] = mgl32.TransformCoordinate(v, proj).Vec2()
		}
		ws = append(ws, gpu.TriangleWinding(p[0], p[1], p[2]))
	}
	return ws
}

func TestDefaultCullingKeepsSprites(t *testing.T) {
	dev := gputest.New(640, 480)
	sb := newBatch(t, dev)
	tex := gputest.NewTexture(1, 8, 8)
	sb.Begin(Settings{})
	sb.Draw(tex, mgl32.Vec2{10, 10}, sprite.White)
	sb.DrawScaled(tex, mgl32.Vec2{100, 100}, nil, sprite.White, 2, mgl32.Vec2{4, 4}, mgl32.Vec2{2, 2}, sprite.FlipHorizontally, 0)
	require.NoError(t, sb.End())

	c, ok := dev.Last("SetCullMode")
	require.True(t, ok)
	mode := c.Args[0].(gpu.CullMode)
	assert.Equal(t, gpu.CullCounterClockwiseFace, mode)
	front, cull := mode.FrontFace()
	require.True(t, cull)

	proj := mgl32.Ortho(0, 640, 480, 0, 0, -1)
	require.Len(t, dev.Draws, 1)
	ws := windings(dev.Draws[0], proj)
	require.Len(t, ws, 4)
	for i, w := range ws {
		assert.Equal(t, front, w, "triangle %d", i)
	}

	// culling clockwise faces discards sprites
	front, _ = gpu.CullClockwiseFace.FrontFace()
	assert.NotEqual(t, front, ws[0])
}

func TestZeroAreaSprites(t *testing.T) {
	dev := gputest.New(640, 480)
	sb := newBatch(t, dev)
	a, b := gputest.NewTexture(1, 8, 8), gputest.NewTexture(2, 8, 8)
	sb.Begin(Settings{})
	drawAt(sb, a, 0, 0)
	sb.DrawSized(b, mgl32.Vec2{}, nil, tag(1), 0, mgl32.Vec2{}, mgl32.Vec2{4, 0}, sprite.FlipNone, 0)
	sb.DrawScaled(b, mgl32.Vec2{}, nil, tag(2), 0, mgl32.Vec2{}, mgl32.Vec2{0, 1}, sprite.FlipNone, 0)
	sb.DrawDest(b, image.Rect(5, 5, 5, 9), nil, tag(3), 0, mgl32.Vec2{}, sprite.FlipNone, 0)
	drawAt(sb, a, 4, 0)
	require.NoError(t, sb.End())

	require.Len(t, dev.Draws, 1)
	assert.Equal(t, []int{0, 4}, tags(dev.Draws[0]))
	assert.Equal(t, 2, sb.Stats().Sprites)
	assert.Equal(t, DefaultPoolSize, sb.Pool().Free()+2)

	// usage errors still apply
	err := catch(func() { sb.DrawSized(a, mgl32.Vec2{}, nil, sprite.White, 0, mgl32.Vec2{}, mgl32.Vec2{}, sprite.FlipNone, 0) })
	assert.True(t, errors.Is(err, ErrNotBegun), "DrawSized: %v", err)
	sb.Begin(Settings{})
	err = catch(func() { sb.DrawScaled(nil, mgl32.Vec2{}, nil, sprite.White, 0, mgl32.Vec2{}, mgl32.Vec2{}, sprite.FlipNone, 0) })
	assert.True(t, errors.Is(err, ErrNilTexture), "DrawScaled: %v", err)
	require.NoError(t, sb.End())
}
