package batch

import (
	"github.com/db47h/sprite"
	"github.com/db47h/sprite/text"
	"github.com/go-gl/mathgl/mgl32"
)

// DrawText draws s with its top-left corner at position.
//
func (sb *SpriteBatch) DrawText(font *text.SpriteFont, s string, position mgl32.Vec2, c sprite.Color) {
	sb.DrawString(font, s, position, c, 0, mgl32.Vec2{}, mgl32.Vec2{1, 1}, sprite.FlipNone, 0)
}

// DrawString draws s with font. Glyphs are laid out as by
// font.Layout, then scaled by scale. The whole string is rotated around
// origin, which is relative to the top-left corner of the unscaled text and
// is scaled along with it.
//
// Flipping mirrors the layout of the string as well as each glyph.
//
func (sb *SpriteBatch) DrawString(font *text.SpriteFont, s string, position mgl32.Vec2, c sprite.Color,
	rotation float32, origin, scale mgl32.Vec2, flip sprite.Flip, depth float32) {
	if !sb.begun {
		misuse(ErrNotBegun, "SpriteBatch.DrawString")
	}
	if len(s) == 0 {
		return
	}
	tex := font.Texture()
	if tex == nil {
		misuse(ErrNilTexture, "SpriteBatch.DrawString")
	}
	var size mgl32.Vec2
	if flip != sprite.FlipNone {
		size = font.MeasureString(s)
	}
	origin = mgl32.Vec2{origin[0] * scale[0], origin[1] * scale[1]}
	var rot mgl32.Mat2
	if rotation != 0 {
		rot = mgl32.Rotate2D(rotation)
	}

	font.Layout(s, func(_ rune, g *text.Glyph, p mgl32.Vec2) {
		w, h := float32(g.Bounds.Dx()), float32(g.Bounds.Dy())
		if flip.Horizontal() {
			p[0] = size[0] - p[0] - w
		}
		if flip.Vertical() {
			p[1] = size[1] - p[1] - h
		}
		off := mgl32.Vec2{p[0]*scale[0] - origin[0], p[1]*scale[1] - origin[1]}
		if rotation != 0 {
			off = rot.Mul2x1(off)
		}
		pos := position.Add(origin).Add(off)
		src := g.Bounds
		sb.push(tex, pos, &src, c, rotation, mgl32.Vec2{},
			mgl32.Vec2{w * scale[0], h * scale[1]}, flip, depth)
	})
}
