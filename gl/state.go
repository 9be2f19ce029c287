package gl

import (
	"github.com/db47h/sprite"
	"github.com/db47h/sprite/gpu"
	"github.com/go-gl/gl/v3.3-core/gl"
)

var blendFactors = [...]uint32{
	gpu.BlendOne:                     gl.ONE,
	gpu.BlendZero:                    gl.ZERO,
	gpu.BlendSourceColor:             gl.SRC_COLOR,
	gpu.BlendInverseSourceColor:      gl.ONE_MINUS_SRC_COLOR,
	gpu.BlendSourceAlpha:             gl.SRC_ALPHA,
	gpu.BlendInverseSourceAlpha:      gl.ONE_MINUS_SRC_ALPHA,
	gpu.BlendDestinationColor:        gl.DST_COLOR,
	gpu.BlendInverseDestinationColor: gl.ONE_MINUS_DST_COLOR,
	gpu.BlendDestinationAlpha:        gl.DST_ALPHA,
	gpu.BlendInverseDestinationAlpha: gl.ONE_MINUS_DST_ALPHA,
	gpu.BlendFactor:                  gl.CONSTANT_COLOR,
	gpu.BlendInverseBlendFactor:      gl.ONE_MINUS_CONSTANT_COLOR,
	gpu.BlendSourceAlphaSaturation:   gl.SRC_ALPHA_SATURATE,
}

var blendEquations = [...]uint32{
	gpu.BlendAdd:             gl.FUNC_ADD,
	gpu.BlendSubtract:        gl.FUNC_SUBTRACT,
	gpu.BlendReverseSubtract: gl.FUNC_REVERSE_SUBTRACT,
	gpu.BlendMin:             gl.MIN,
	gpu.BlendMax:             gl.MAX,
}

var compareFuncs = [...]uint32{
	gpu.CompareAlways:       gl.ALWAYS,
	gpu.CompareNever:        gl.NEVER,
	gpu.CompareLess:         gl.LESS,
	gpu.CompareLessEqual:    gl.LEQUAL,
	gpu.CompareEqual:        gl.EQUAL,
	gpu.CompareGreaterEqual: gl.GEQUAL,
	gpu.CompareGreater:      gl.GREATER,
	gpu.CompareNotEqual:     gl.NOTEQUAL,
}

var stencilOps = [...]uint32{
	gpu.StencilKeep:                gl.KEEP,
	gpu.StencilZero:                gl.ZERO,
	gpu.StencilReplace:             gl.REPLACE,
	gpu.StencilIncrement:           gl.INCR_WRAP,
	gpu.StencilDecrement:           gl.DECR_WRAP,
	gpu.StencilIncrementSaturation: gl.INCR,
	gpu.StencilDecrementSaturation: gl.DECR,
	gpu.StencilInvert:              gl.INVERT,
}

// OpenGL computes windings in window coordinates, which preserve on-screen
// windings.
var frontFaces = [...]uint32{
	gpu.CounterClockwise: gl.CCW,
	gpu.Clockwise:        gl.CW,
}

var addressModes = [...]int32{
	gpu.AddressWrap:   gl.REPEAT,
	gpu.AddressClamp:  gl.CLAMP_TO_EDGE,
	gpu.AddressMirror: gl.MIRRORED_REPEAT,
	gpu.AddressBorder: gl.CLAMP_TO_BORDER,
}

func addressMode(m gpu.TextureAddressMode) int32 {
	if int(m) < 0 || int(m) >= len(addressModes) {
		return gl.CLAMP_TO_EDGE
	}
	return addressModes[m]
}

// filter returns the GL min and mag filters for f.
//
func filter(f gpu.TextureFilter) (min, mag int32) {
	switch f {
	case gpu.FilterPoint:
		return gl.NEAREST_MIPMAP_NEAREST, gl.NEAREST
	case gpu.FilterLinearMipPoint:
		return gl.LINEAR_MIPMAP_NEAREST, gl.LINEAR
	case gpu.FilterPointMipLinear:
		return gl.NEAREST_MIPMAP_LINEAR, gl.NEAREST
	}
	// linear, anisotropic
	return gl.LINEAR_MIPMAP_LINEAR, gl.LINEAR
}

func enable(c uint32, enabled bool) {
	if enabled {
		gl.Enable(c)
	} else {
		gl.Disable(c)
	}
}

func (d *Device) SetBlendEnabled(enabled bool) { enable(gl.BLEND, enabled) }

func (d *Device) SetBlendColor(c sprite.Color) {
	v := c.Vec4()
	gl.BlendColor(v[0], v[1], v[2], v[3])
}

func (d *Device) SetBlendEquation(color, alpha gpu.BlendFunction) {
	gl.BlendEquationSeparate(blendEquations[color], blendEquations[alpha])
}

func (d *Device) SetBlendFactors(colorSrc, colorDst, alphaSrc, alphaDst gpu.Blend) {
	gl.BlendFuncSeparate(blendFactors[colorSrc], blendFactors[colorDst], blendFactors[alphaSrc], blendFactors[alphaDst])
}

func (d *Device) SetColorMask(mask gpu.ColorWriteChannels) {
	gl.ColorMask(mask&gpu.ColorWriteRed != 0, mask&gpu.ColorWriteGreen != 0,
		mask&gpu.ColorWriteBlue != 0, mask&gpu.ColorWriteAlpha != 0)
}

func (d *Device) SetDepthTest(enabled bool) { enable(gl.DEPTH_TEST, enabled) }
func (d *Device) SetDepthMask(write bool)   { gl.DepthMask(write) }

func (d *Device) SetDepthFunc(f gpu.CompareFunction) { gl.DepthFunc(compareFuncs[f]) }

func (d *Device) SetStencilTest(enabled bool) { enable(gl.STENCIL_TEST, enabled) }

func (d *Device) SetStencilFunc(f gpu.CompareFunction, ref int, mask uint32) {
	gl.StencilFunc(compareFuncs[f], int32(ref), mask)
}

func (d *Device) SetStencilOp(fail, depthFail, pass gpu.StencilOperation) {
	gl.StencilOp(stencilOps[fail], stencilOps[depthFail], stencilOps[pass])
}

func (d *Device) SetStencilWriteMask(mask uint32) { gl.StencilMask(mask) }

// SetCullMode implements gpu.StateDevice.
//
func (d *Device) SetCullMode(m gpu.CullMode) {
	front, cull := m.FrontFace()
	if !cull {
		gl.Disable(gl.CULL_FACE)
		return
	}
	gl.FrontFace(frontFaces[front])
	gl.CullFace(gl.BACK)
	gl.Enable(gl.CULL_FACE)
}

func (d *Device) SetFillMode(m gpu.FillMode) {
	if m == gpu.FillWireFrame {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
}

func (d *Device) SetDepthBias(bias, slopeScale float32) {
	if bias == 0 && slopeScale == 0 {
		gl.Disable(gl.POLYGON_OFFSET_FILL)
		return
	}
	gl.Enable(gl.POLYGON_OFFSET_FILL)
	gl.PolygonOffset(slopeScale, bias)
}

func (d *Device) SetScissorTest(enabled bool) { enable(gl.SCISSOR_TEST, enabled) }
func (d *Device) SetMultiSample(enabled bool) { enable(gl.MULTISAMPLE, enabled) }
