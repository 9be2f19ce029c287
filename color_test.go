package sprite

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorFromStd(t *testing.T) {
	tests := []struct {
		name string
		in   color.Color
		want Color
	}{
		{"white", color.White, White},
		{"black", color.Black, Black},
		{"transparent", color.Transparent, Transparent},
		{"rgba", color.RGBA{0x10, 0x20, 0x30, 0x40}, Color{0x10, 0x20, 0x30, 0x40}},
		{"nrgba half alpha", color.NRGBA{0xff, 0, 0, 0x80}, Color{0x80, 0, 0, 0x80}},
		{"identity", Color{1, 2, 3, 4}, Color{1, 2, 3, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ColorFromStd(tt.in))
			assert.Equal(t, tt.want, ColorModel.Convert(tt.in).(Color))
		})
	}
}

func TestColorPacked(t *testing.T) {
	c := RGBA(0x11, 0x22, 0x33, 0x44)
	assert.Equal(t, uint32(0x44332211), c.Packed())
	assert.Equal(t, c, Unpack(c.Packed()))
}

func TestColorStdRoundTrip(t *testing.T) {
	c := RGBA(0x12, 0x34, 0x56, 0x78)
	r, g, b, a := c.RGBA()
	assert.Equal(t, uint32(0x1212), r)
	assert.Equal(t, uint32(0x3434), g)
	assert.Equal(t, uint32(0x5656), b)
	assert.Equal(t, uint32(0x7878), a)
	assert.Equal(t, c, ColorFromStd(color.RGBA64{uint16(r), uint16(g), uint16(b), uint16(a)}))
}

func TestColorScale(t *testing.T) {
	assert.Equal(t, Transparent, White.Scale(0))
	assert.Equal(t, White, White.Scale(1))
	assert.Equal(t, Color{0x80, 0x80, 0x80, 0x80}, White.Scale(0.5))
}

func TestSortMode(t *testing.T) {
	assert.False(t, Deferred.Sorted())
	assert.False(t, Immediate.Sorted())
	assert.True(t, Texture.Sorted())
	assert.True(t, BackToFront.Sorted())
	assert.True(t, FrontToBack.Sorted())
	assert.Equal(t, "BackToFront", BackToFront.String())
}

func TestFlip(t *testing.T) {
	f := FlipHorizontally | FlipVertically
	assert.True(t, f.Horizontal())
	assert.True(t, f.Vertical())
	assert.False(t, FlipNone.Horizontal())
	assert.False(t, FlipHorizontally.Vertical())
}
