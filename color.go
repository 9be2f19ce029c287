package sprite

import (
	"fmt"
	"image/color"
)

// Color is a 32 bits RGBA color with alpha premultiplied components. It is the
// per-vertex tint used by the sprite batcher.
//
// Color implements color.Color, but no implicit conversion exists between Color
// and other color types: use ColorFromStd or ColorModel.
//
type Color struct {
	R, G, B, A uint8
}

// Predefined colors.
//
var (
	Transparent = Color{}
	Black       = Color{0, 0, 0, 0xff}
	White       = Color{0xff, 0xff, 0xff, 0xff}
)

// RGBA returns a Color from alpha premultiplied components.
//
func RGBA(r, g, b, a uint8) Color {
	return Color{r, g, b, a}
}

// NRGBA returns a Color from non-alpha-premultiplied components.
//
func NRGBA(r, g, b, a uint8) Color {
	return ColorFromStd(color.NRGBA{r, g, b, a})
}

// ColorFromStd converts any color.Color to a Color.
//
func ColorFromStd(c color.Color) Color {
	if c, ok := c.(Color); ok {
		return c
	}
	r, g, b, a := c.RGBA()
	return Color{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
}

// ColorModel converts any color.Color to a Color; i.e. the result can safely be
// casted to a Color.
//
var ColorModel = color.ModelFunc(func(c color.Color) color.Color {
	return ColorFromStd(c)
})

// RGBA implements color.Color.
//
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	a = uint32(c.A)
	a |= a << 8
	return
}

// Packed returns the color packed in a uint32 with R in the lowest byte, which
// is the memory layout of a normalized unsigned byte vec4 on little endian
// hosts.
//
func (c Color) Packed() uint32 {
	return uint32(c.R) | uint32(c.G)<<8 | uint32(c.B)<<16 | uint32(c.A)<<24
}

// Unpack is the inverse of Packed.
//
func Unpack(v uint32) Color {
	return Color{uint8(v), uint8(v >> 8), uint8(v >> 16), uint8(v >> 24)}
}

// Scale multiplies all components of c by f, which is expected to be in
// the range [0, 1]. Since components are premultiplied, this fades the color.
//
func (c Color) Scale(f float32) Color {
	if f <= 0 {
		return Transparent
	}
	if f >= 1 {
		return c
	}
	return Color{
		uint8(float32(c.R)*f + 0.5),
		uint8(float32(c.G)*f + 0.5),
		uint8(float32(c.B)*f + 0.5),
		uint8(float32(c.A)*f + 0.5),
	}
}

// Vec4 returns the color components mapped to the range [0, 1].
//
func (c Color) Vec4() [4]float32 {
	return [4]float32{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(c.A) / 255}
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
