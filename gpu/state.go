package gpu

import (
	"github.com/db47h/sprite"
	"github.com/go-gl/mathgl/mgl32"
)

// Blend is a blending factor.
//
type Blend int

const (
	BlendOne Blend = iota
	BlendZero
	BlendSourceColor
	BlendInverseSourceColor
	BlendSourceAlpha
	BlendInverseSourceAlpha
	BlendDestinationColor
	BlendInverseDestinationColor
	BlendDestinationAlpha
	BlendInverseDestinationAlpha
	BlendFactor
	BlendInverseBlendFactor
	BlendSourceAlphaSaturation
)

// BlendFunction is the equation used to combine source and destination.
//
type BlendFunction int

const (
	BlendAdd BlendFunction = iota
	BlendSubtract
	BlendReverseSubtract
	BlendMin
	BlendMax
)

// ColorWriteChannels is a mask of the color channels written to the render target.
//
type ColorWriteChannels uint8

const (
	ColorWriteNone  ColorWriteChannels = 0
	ColorWriteRed   ColorWriteChannels = 1
	ColorWriteGreen ColorWriteChannels = 2
	ColorWriteBlue  ColorWriteChannels = 4
	ColorWriteAlpha ColorWriteChannels = 8
	ColorWriteAll                      = ColorWriteRed | ColorWriteGreen | ColorWriteBlue | ColorWriteAlpha
)

// CompareFunction is used by depth and stencil tests.
//
type CompareFunction int

const (
	CompareAlways CompareFunction = iota
	CompareNever
	CompareLess
	CompareLessEqual
	CompareEqual
	CompareGreaterEqual
	CompareGreater
	CompareNotEqual
)

// StencilOperation is the action taken on the stencil buffer.
//
type StencilOperation int

const (
	StencilKeep StencilOperation = iota
	StencilZero
	StencilReplace
	StencilIncrement
	StencilDecrement
	StencilIncrementSaturation
	StencilDecrementSaturation
	StencilInvert
)

// CullMode selects which faces get culled.
//
type CullMode int

const (
	CullNone CullMode = iota
	CullClockwiseFace
	CullCounterClockwiseFace
)

// Winding is the vertex order of a triangle as seen on screen.
//
type Winding int

const (
	CounterClockwise Winding = iota
	Clockwise
)

func (w Winding) String() string {
	if w == Clockwise {
		return "Clockwise"
	}
	return "CounterClockwise"
}

// FrontFace returns the winding of the faces kept by m, and whether culling
// is enabled at all. Windings are those seen on screen: the y-down projection
// of the sprite batch does not change them.
//
func (m CullMode) FrontFace() (front Winding, cull bool) {
	switch m {
	case CullClockwiseFace:
		return CounterClockwise, true
	case CullCounterClockwiseFace:
		return Clockwise, true
	}
	return CounterClockwise, false
}

// TriangleWinding returns the winding of the triangle abc given in normalized
// device coordinates (y up). Degenerate triangles are counter-clockwise.
//
func TriangleWinding(a, b, c mgl32.Vec2) Winding {
	ab, ac := b.Sub(a), c.Sub(a)
	if ab[0]*ac[1]-ab[1]*ac[0] < 0 {
		return Clockwise
	}
	return CounterClockwise
}

// FillMode selects how triangles are filled.
//
type FillMode int

const (
	FillSolid FillMode = iota
	FillWireFrame
)

// TextureFilter selects how textures are sampled.
//
type TextureFilter int

const (
	FilterLinear TextureFilter = iota
	FilterPoint
	FilterAnisotropic
	FilterLinearMipPoint
	FilterPointMipLinear
)

// TextureAddressMode selects how texture coordinates outside of [0, 1] are resolved.
//
type TextureAddressMode int

const (
	AddressWrap TextureAddressMode = iota
	AddressClamp
	AddressMirror
	AddressBorder
)

// SamplerDesc is the full description of a texture sampler.
//
type SamplerDesc struct {
	Filter        TextureFilter
	AddressU      TextureAddressMode
	AddressV      TextureAddressMode
	AddressW      TextureAddressMode
	BorderColor   sprite.Color
	MaxAnisotropy int
	MaxMipLevel   int
	MipMapLODBias float32
}

// StateDevice is the set of pipeline state setters. Each method maps to one
// underlying device call; the state cache groups fields accordingly.
//
type StateDevice interface {
	SetBlendEnabled(enabled bool)
	SetBlendColor(c sprite.Color)
	SetBlendEquation(color, alpha BlendFunction)
	SetBlendFactors(colorSrc, colorDst, alphaSrc, alphaDst Blend)
	SetColorMask(mask ColorWriteChannels)

	SetDepthTest(enabled bool)
	SetDepthMask(write bool)
	SetDepthFunc(f CompareFunction)
	SetStencilTest(enabled bool)
	SetStencilFunc(f CompareFunction, ref int, mask uint32)
	SetStencilOp(fail, depthFail, pass StencilOperation)
	SetStencilWriteMask(mask uint32)

	SetCullMode(m CullMode)
	SetFillMode(m FillMode)
	SetDepthBias(bias, slopeScale float32)
	SetScissorTest(enabled bool)
	SetMultiSample(enabled bool)

	SetSampler(unit int, s SamplerDesc)
}
