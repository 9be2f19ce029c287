package batch

import (
	"image"
	"math"
	"testing"

	"github.com/db47h/sprite"
	"github.com/db47h/sprite/internal/gputest"
	"github.com/db47h/sprite/text"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testFont has two 4x8 glyphs with an advance of 5, drawn one pixel below the
// pen position, and a line spacing of 10.
func testFont(t *testing.T, opts ...text.Option) *text.SpriteFont {
	t.Helper()
	glyphs := map[rune]text.Glyph{
		'a': {Bounds: image.Rect(0, 0, 4, 8), Cropping: mgl32.Vec2{0, 1}, Width: 5},
		'b': {Bounds: image.Rect(8, 0, 12, 8), Cropping: mgl32.Vec2{0, 1}, Width: 5},
		' ': {Width: 3},
	}
	f, err := text.NewSpriteFont(gputest.NewTexture(7, 16, 8), glyphs, 10, opts...)
	require.NoError(t, err)
	return f
}

func drawString(t *testing.T, draw func(sb *SpriteBatch)) [][4]mgl32.Vec3 {
	t.Helper()
	dev := gputest.New(640, 480)
	sb := newBatch(t, dev)
	sb.Begin(Settings{})
	draw(sb)
	require.NoError(t, sb.End())
	var cs [][4]mgl32.Vec3
	for _, d := range dev.Draws {
		assert.Equal(t, uint32(7), d.Texture.NativeID())
		for _, q := range d.Quads() {
			cs = append(cs, [4]mgl32.Vec3{q[0].Position, q[1].Position, q[2].Position, q[3].Position})
		}
	}
	return cs
}

func topLefts(qs [][4]mgl32.Vec3) []mgl32.Vec2 {
	var ps []mgl32.Vec2
	for _, q := range qs {
		ps = append(ps, q[0].Vec2())
	}
	return ps
}

func TestDrawTextLayout(t *testing.T) {
	f := testFont(t)
	qs := drawString(t, func(sb *SpriteBatch) {
		sb.DrawText(f, "ab\r\nb?a", mgl32.Vec2{100, 50}, sprite.White)
	})
	// '?' is skipped
	assert.Equal(t, []mgl32.Vec2{{100, 51}, {105, 51}, {100, 61}, {105, 61}}, topLefts(qs))
	assert.Equal(t, mgl32.Vec3{104, 59, 0}, qs[0][3])
}

func TestDrawTextDefaultCharacter(t *testing.T) {
	f := testFont(t, text.DefaultCharacter('a'))
	qs := drawString(t, func(sb *SpriteBatch) {
		sb.DrawText(f, "b?", mgl32.Vec2{}, sprite.White)
	})
	assert.Equal(t, []mgl32.Vec2{{0, 1}, {5, 1}}, topLefts(qs))
}

func TestDrawTextSpacesAndKerning(t *testing.T) {
	f := testFont(t, text.Spacing(1))
	f.SetKerning('a', 'b', -2)
	qs := drawString(t, func(sb *SpriteBatch) {
		sb.DrawText(f, "ab a", mgl32.Vec2{}, sprite.White)
	})
	// a at 0, b at 5+1-2, space advances 1+3, a at 4+5+1+3+1
	assert.Equal(t, []mgl32.Vec2{{0, 1}, {4, 1}, {14, 1}}, topLefts(qs))
}

func TestDrawStringScaled(t *testing.T) {
	f := testFont(t)
	qs := drawString(t, func(sb *SpriteBatch) {
		sb.DrawString(f, "ab", mgl32.Vec2{100, 50}, sprite.White, 0, mgl32.Vec2{}, mgl32.Vec2{2, 2}, sprite.FlipNone, 0)
	})
	require.Len(t, qs, 2)
	assert.Equal(t, mgl32.Vec3{110, 52, 0}, qs[1][0])
	assert.Equal(t, mgl32.Vec3{118, 68, 0}, qs[1][3])
}

func TestDrawStringRotated(t *testing.T) {
	f := testFont(t)
	qs := drawString(t, func(sb *SpriteBatch) {
		sb.DrawString(f, "ab", mgl32.Vec2{100, 50}, sprite.White, math.Pi/2, mgl32.Vec2{}, mgl32.Vec2{1, 1}, sprite.FlipNone, 0)
	})
	require.Len(t, qs, 2)
	// the pen offset (5, 1) of 'b' is rotated along with the glyph
	assertVec3(t, mgl32.Vec3{99, 55, 0}, qs[1][0], "b top-left")
	assertVec3(t, mgl32.Vec3{99, 59, 0}, qs[1][1], "b top-right")
	assertVec3(t, mgl32.Vec3{91, 55, 0}, qs[1][2], "b bottom-left")
}

func TestDrawStringRotatedAroundOrigin(t *testing.T) {
	f := testFont(t)
	qs := drawString(t, func(sb *SpriteBatch) {
		sb.DrawString(f, "a", mgl32.Vec2{0, 0}, sprite.White, math.Pi, mgl32.Vec2{2, 5}, mgl32.Vec2{1, 1}, sprite.FlipNone, 0)
	})
	require.Len(t, qs, 1)
	// the glyph spans (0, 1)-(4, 9): a half turn around (2, 5) maps it onto itself
	assertVec3(t, mgl32.Vec3{4, 9, 0}, qs[0][0], "top-left")
	assertVec3(t, mgl32.Vec3{0, 1, 0}, qs[0][3], "bottom-right")
}

func TestDrawStringFlipped(t *testing.T) {
	f := testFont(t)
	dev := gputest.New(640, 480)
	sb := newBatch(t, dev)
	sb.Begin(Settings{})
	sb.DrawString(f, "ab", mgl32.Vec2{100, 50}, sprite.White, 0, mgl32.Vec2{}, mgl32.Vec2{1, 1}, sprite.FlipHorizontally, 0)
	require.NoError(t, sb.End())
	require.Len(t, dev.Draws, 1)
	qs := dev.Draws[0].Quads()
	require.Len(t, qs, 2)
	// text width is 10: 'a' moves to 10-0-4, 'b' to 10-5-4
	assert.Equal(t, mgl32.Vec2{106, 51}, qs[0][0].Position.Vec2())
	assert.Equal(t, mgl32.Vec2{101, 51}, qs[1][0].Position.Vec2())
	// glyph images are mirrored
	assert.Equal(t, mgl32.Vec2{0.25, 0}, qs[0][0].UV)
	assert.Equal(t, mgl32.Vec2{0, 1}, qs[0][3].UV)
}

func TestDrawStringEmpty(t *testing.T) {
	f := testFont(t)
	qs := drawString(t, func(sb *SpriteBatch) {
		sb.DrawText(f, "", mgl32.Vec2{}, sprite.White)
		sb.DrawText(f, "   \n", mgl32.Vec2{}, sprite.White)
	})
	assert.Empty(t, qs)
}
