package batch

import (
	"image"
	"math"

	"github.com/db47h/sprite"
	"github.com/db47h/sprite/gpu"
	"github.com/go-gl/mathgl/mgl32"
)

// An Item is a pending sprite draw request. Items are owned by an ItemPool.
// Their geometry is fully resolved when acquired.
//
type Item struct {
	Texture gpu.Texture
	// Corners in top-left, top-right, bottom-left, bottom-right order. Z is
	// the depth.
	Corners       [4]mgl32.Vec3
	UVTopLeft     mgl32.Vec2
	UVBottomRight mgl32.Vec2
	Color         sprite.Color
	SortKey       float64

	free bool
}

const twoPi = 2 * math.Pi

func (it *Item) set(tex gpu.Texture, position mgl32.Vec2, src *image.Rectangle, c sprite.Color,
	rotation float32, origin, size mgl32.Vec2, flip sprite.Flip, depth float32, mode sprite.SortMode) {
	it.Texture = tex
	it.Color = c

	tl, br := mgl32.Vec2{0, 0}, mgl32.Vec2{1, 1}
	if src != nil {
		w, h := float32(tex.Width()), float32(tex.Height())
		tl = mgl32.Vec2{float32(src.Min.X) / w, float32(src.Min.Y) / h}
		br = mgl32.Vec2{float32(src.Max.X) / w, float32(src.Max.Y) / h}
	}
	if flip.Horizontal() {
		tl[0], br[0] = br[0], tl[0]
	}
	if flip.Vertical() {
		tl[1], br[1] = br[1], tl[1]
	}
	it.UVTopLeft, it.UVBottomRight = tl, br

	x0, y0 := -origin[0], -origin[1]
	x1, y1 := x0+size[0], y0+size[1]
	tx, ty := origin[0]+position[0], origin[1]+position[1]

	theta := math.Mod(float64(rotation), twoPi)
	if theta < 0 {
		theta += twoPi
	}
	if theta == 0 {
		it.Corners = [4]mgl32.Vec3{
			{x0 + tx, y0 + ty, depth},
			{x1 + tx, y0 + ty, depth},
			{x0 + tx, y1 + ty, depth},
			{x1 + tx, y1 + ty, depth},
		}
	} else {
		s64, c64 := math.Sincos(theta)
		sin, cos := float32(s64), float32(c64)
		rot := func(x, y float32) mgl32.Vec3 {
			return mgl32.Vec3{x*cos - y*sin + tx, x*sin + y*cos + ty, depth}
		}
		it.Corners = [4]mgl32.Vec3{rot(x0, y0), rot(x1, y0), rot(x0, y1), rot(x1, y1)}
	}

	switch mode {
	case sprite.BackToFront:
		it.SortKey = float64(-depth)
	case sprite.FrontToBack:
		it.SortKey = float64(depth)
	case sprite.Texture:
		it.SortKey = float64(tex.NativeID())
	default:
		it.SortKey = 0
	}
}

// put writes the four vertices of the item to b, which must be at least
// 4*gpu.VertexSize bytes long.
//
func (it *Item) put(b []byte) {
	uv := [4]mgl32.Vec2{
		it.UVTopLeft,
		{it.UVBottomRight[0], it.UVTopLeft[1]},
		{it.UVTopLeft[0], it.UVBottomRight[1]},
		it.UVBottomRight,
	}
	for i := range it.Corners {
		v := gpu.Vertex{Position: it.Corners[i], Color: it.Color, UV: uv[i]}
		v.Put(b[i*gpu.VertexSize:])
	}
}
