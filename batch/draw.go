package batch

import (
	"image"

	"github.com/db47h/sprite"
	"github.com/db47h/sprite/gpu"
	"github.com/go-gl/mathgl/mgl32"
)

// Draw draws the whole texture tex with its top-left corner at position.
//
func (sb *SpriteBatch) Draw(tex gpu.Texture, position mgl32.Vec2, c sprite.Color) {
	sb.DrawScaled(tex, position, nil, c, 0, mgl32.Vec2{}, mgl32.Vec2{1, 1}, sprite.FlipNone, 0)
}

// DrawRegion draws the src region of tex with its top-left corner at position.
// A nil src selects the whole texture.
//
func (sb *SpriteBatch) DrawRegion(tex gpu.Texture, position mgl32.Vec2, src *image.Rectangle, c sprite.Color) {
	sb.DrawScaled(tex, position, src, c, 0, mgl32.Vec2{}, mgl32.Vec2{1, 1}, sprite.FlipNone, 0)
}

// DrawScaled draws the src region of tex scaled by scale. The origin is
// relative to the top-left corner of the unscaled region. It is the center of
// rotation and is scaled along with the sprite.
//
func (sb *SpriteBatch) DrawScaled(tex gpu.Texture, position mgl32.Vec2, src *image.Rectangle, c sprite.Color,
	rotation float32, origin, scale mgl32.Vec2, flip sprite.Flip, depth float32) {
	sb.check("SpriteBatch.DrawScaled", tex)
	sz := sourceSize(tex, src)
	size := mgl32.Vec2{sz[0] * scale[0], sz[1] * scale[1]}
	origin = mgl32.Vec2{origin[0] * scale[0], origin[1] * scale[1]}
	sb.push(tex, position, src, c, rotation, origin, size, flip, depth)
}

// DrawDest draws the src region of tex stretched to fill dst. The origin is
// relative to the top-left corner of the source region and is scaled by the
// ratio between dst and src sizes.
//
func (sb *SpriteBatch) DrawDest(tex gpu.Texture, dst image.Rectangle, src *image.Rectangle, c sprite.Color,
	rotation float32, origin mgl32.Vec2, flip sprite.Flip, depth float32) {
	sb.check("SpriteBatch.DrawDest", tex)
	sz := sourceSize(tex, src)
	size := mgl32.Vec2{float32(dst.Dx()), float32(dst.Dy())}
	if sz[0] != 0 {
		origin[0] *= size[0] / sz[0]
	}
	if sz[1] != 0 {
		origin[1] *= size[1] / sz[1]
	}
	position := mgl32.Vec2{float32(dst.Min.X), float32(dst.Min.Y)}
	sb.push(tex, position, src, c, rotation, origin, size, flip, depth)
}

// DrawSized draws the src region of tex with the given size, in pixels. The
// origin, relative to the top-left corner of the destination quad, is the
// center of rotation.
//
// The sprite corners are computed by rotating the corners relative to origin,
// then translating the result by origin+position.
//
func (sb *SpriteBatch) DrawSized(tex gpu.Texture, position mgl32.Vec2, src *image.Rectangle, c sprite.Color,
	rotation float32, origin, size mgl32.Vec2, flip sprite.Flip, depth float32) {
	sb.add("SpriteBatch.DrawSized", tex, position, src, c, rotation, origin, size, flip, depth)
}

func sourceSize(tex gpu.Texture, src *image.Rectangle) mgl32.Vec2 {
	if src == nil {
		return mgl32.Vec2{float32(tex.Width()), float32(tex.Height())}
	}
	return mgl32.Vec2{float32(src.Dx()), float32(src.Dy())}
}

// check panics if sb has not begun or tex is nil.
func (sb *SpriteBatch) check(op string, tex gpu.Texture) {
	if !sb.begun {
		misuse(ErrNotBegun, op)
	}
	if tex == nil {
		misuse(ErrNilTexture, op)
	}
}

func (sb *SpriteBatch) add(op string, tex gpu.Texture, position mgl32.Vec2, src *image.Rectangle, c sprite.Color,
	rotation float32, origin, size mgl32.Vec2, flip sprite.Flip, depth float32) {
	sb.check(op, tex)
	sb.push(tex, position, src, c, rotation, origin, size, flip, depth)
}

// push adds a sprite to the batch. Sprites with a zero area are dropped.
//
func (sb *SpriteBatch) push(tex gpu.Texture, position mgl32.Vec2, src *image.Rectangle, c sprite.Color,
	rotation float32, origin, size mgl32.Vec2, flip sprite.Flip, depth float32) {
	if size[0] == 0 || size[1] == 0 {
		return
	}
	sb.batcher.Add(sb.pool.Acquire(tex, position, src, c, rotation, origin, size, flip, depth, sb.s.SortMode))
	if sb.s.SortMode == sprite.Immediate {
		if err := sb.batcher.Flush(sb.s.Effect); err != nil && sb.err == nil {
			sb.err = err
		}
	}
}
