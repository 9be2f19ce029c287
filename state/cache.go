package state

import (
	"github.com/db47h/sprite"
	"github.com/db47h/sprite/gpu"
)

// A Cache tracks the pipeline states last applied to a device and applies new
// states by only issuing the device calls for field groups that differ.
//
// A Cache must be the single point of truth for the pipeline state of its
// device: any code changing the device pipeline state behind its back must
// call Invalidate.
//
type Cache struct {
	dev gpu.StateDevice

	blend     *BlendState
	blendDesc blendDesc
	depth     *DepthStencilState
	depthDesc depthDesc
	raster    *RasterizerState
	rastDesc  rasterDesc
	samplers  map[int]gpu.SamplerDesc
}

// NewCache returns a new Cache for the given device. The first state applied
// in each category issues all of its field groups.
//
func NewCache(dev gpu.StateDevice) *Cache {
	return &Cache{dev: dev, samplers: make(map[int]gpu.SamplerDesc)}
}

// Blend returns the last applied BlendState, or nil.
//
func (c *Cache) Blend() *BlendState { return c.blend }

// DepthStencil returns the last applied DepthStencilState, or nil.
//
func (c *Cache) DepthStencil() *DepthStencilState { return c.depth }

// Rasterizer returns the last applied RasterizerState, or nil.
//
func (c *Cache) Rasterizer() *RasterizerState { return c.raster }

// Invalidate forgets all previously applied states. It does not issue any
// device call.
//
func (c *Cache) Invalidate() {
	c.blend, c.depth, c.raster = nil, nil, nil
	for k := range c.samplers {
		delete(c.samplers, k)
	}
	sprite.Logger().Debug("state cache invalidated")
}

// ApplyBlend applies s to the device.
//
func (c *Cache) ApplyBlend(s *BlendState) {
	n, o := &s.desc, &c.blendDesc
	all := c.blend == nil
	if en := n.enabled(); all || en != o.enabled() {
		c.dev.SetBlendEnabled(en)
	}
	if all || n.factor != o.factor {
		c.dev.SetBlendColor(n.factor)
	}
	if all || n.colorFunc != o.colorFunc || n.alphaFunc != o.alphaFunc {
		c.dev.SetBlendEquation(n.colorFunc, n.alphaFunc)
	}
	if all || n.colorSrc != o.colorSrc || n.colorDst != o.colorDst ||
		n.alphaSrc != o.alphaSrc || n.alphaDst != o.alphaDst {
		c.dev.SetBlendFactors(n.colorSrc, n.colorDst, n.alphaSrc, n.alphaDst)
	}
	if all || n.writeChannels != o.writeChannels {
		c.dev.SetColorMask(n.writeChannels)
	}
	c.blend, c.blendDesc = s, *n
}

// ApplyDepthStencil applies s to the device.
//
func (c *Cache) ApplyDepthStencil(s *DepthStencilState) {
	n, o := &s.desc, &c.depthDesc
	all := c.depth == nil
	if all || n.depthEnable != o.depthEnable {
		c.dev.SetDepthTest(n.depthEnable)
	}
	if all || n.depthWrite != o.depthWrite {
		c.dev.SetDepthMask(n.depthWrite)
	}
	if all || n.depthFunc != o.depthFunc {
		c.dev.SetDepthFunc(n.depthFunc)
	}
	if all || n.stencilEnable != o.stencilEnable {
		c.dev.SetStencilTest(n.stencilEnable)
	}
	if all || n.stencilFunc != o.stencilFunc || n.stencilRef != o.stencilRef || n.stencilMask != o.stencilMask {
		c.dev.SetStencilFunc(n.stencilFunc, n.stencilRef, n.stencilMask)
	}
	if all || n.stencilFail != o.stencilFail || n.stencilDepthFail != o.stencilDepthFail || n.stencilPass != o.stencilPass {
		c.dev.SetStencilOp(n.stencilFail, n.stencilDepthFail, n.stencilPass)
	}
	if all || n.stencilWriteMask != o.stencilWriteMask {
		c.dev.SetStencilWriteMask(n.stencilWriteMask)
	}
	c.depth, c.depthDesc = s, *n
}

// ApplyRasterizer applies s to the device.
//
func (c *Cache) ApplyRasterizer(s *RasterizerState) {
	n, o := &s.desc, &c.rastDesc
	all := c.raster == nil
	if all || n.cullMode != o.cullMode {
		c.dev.SetCullMode(n.cullMode)
	}
	if all || n.fillMode != o.fillMode {
		c.dev.SetFillMode(n.fillMode)
	}
	if all || n.depthBias != o.depthBias || n.slopeScaleBias != o.slopeScaleBias {
		c.dev.SetDepthBias(n.depthBias, n.slopeScaleBias)
	}
	if all || n.scissorTest != o.scissorTest {
		c.dev.SetScissorTest(n.scissorTest)
	}
	if all || n.multiSample != o.multiSample {
		c.dev.SetMultiSample(n.multiSample)
	}
	c.raster, c.rastDesc = s, *n
}

// ApplySampler applies s to the given texture unit. Samplers have a single
// field group.
//
func (c *Cache) ApplySampler(unit int, s *SamplerState) {
	if d, ok := c.samplers[unit]; ok && d == s.desc {
		return
	}
	c.dev.SetSampler(unit, s.desc)
	c.samplers[unit] = s.desc
}
