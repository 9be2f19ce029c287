package state

import (
	"github.com/db47h/sprite"
	"github.com/db47h/sprite/gpu"
)

type blendDesc struct {
	colorFunc     gpu.BlendFunction
	alphaFunc     gpu.BlendFunction
	colorSrc      gpu.Blend
	colorDst      gpu.Blend
	alphaSrc      gpu.Blend
	alphaDst      gpu.Blend
	writeChannels gpu.ColorWriteChannels
	factor        sprite.Color
}

// enabled returns false when the factors make blending a no-op.
func (d *blendDesc) enabled() bool {
	return !(d.colorSrc == gpu.BlendOne && d.colorDst == gpu.BlendZero &&
		d.alphaSrc == gpu.BlendOne && d.alphaDst == gpu.BlendZero)
}

// A BlendState describes how pixel colors are combined with the render target.
//
type BlendState struct {
	preset
	desc blendDesc
}

// Blend state presets.
//
var (
	// Additive adds the source to the destination, weighted by source alpha.
	Additive = newBlendPreset("Additive", gpu.BlendSourceAlpha, gpu.BlendOne)
	// AlphaBlend blends premultiplied source colors with the destination.
	AlphaBlend = newBlendPreset("AlphaBlend", gpu.BlendOne, gpu.BlendInverseSourceAlpha)
	// NonPremultiplied blends non-premultiplied source colors with the destination.
	NonPremultiplied = newBlendPreset("NonPremultiplied", gpu.BlendSourceAlpha, gpu.BlendInverseSourceAlpha)
	// Opaque overwrites the destination.
	Opaque = newBlendPreset("Opaque", gpu.BlendOne, gpu.BlendZero)
)

func newBlendPreset(name string, src, dst gpu.Blend) *BlendState {
	s := NewBlendState()
	s.desc.colorSrc, s.desc.alphaSrc = src, src
	s.desc.colorDst, s.desc.alphaDst = dst, dst
	s.preset = preset{name: "BlendState." + name, readOnly: true}
	return s
}

// NewBlendState returns a new mutable BlendState equivalent to Opaque.
//
func NewBlendState() *BlendState {
	return &BlendState{desc: blendDesc{
		colorFunc:     gpu.BlendAdd,
		alphaFunc:     gpu.BlendAdd,
		colorSrc:      gpu.BlendOne,
		colorDst:      gpu.BlendZero,
		alphaSrc:      gpu.BlendOne,
		alphaDst:      gpu.BlendZero,
		writeChannels: gpu.ColorWriteAll,
		factor:        sprite.White,
	}}
}

// Clone returns a mutable copy of s.
//
func (s *BlendState) Clone() *BlendState {
	return &BlendState{desc: s.desc}
}

// Enabled returns false if the blend factors make blending a no-op.
//
func (s *BlendState) Enabled() bool { return s.desc.enabled() }

func (s *BlendState) ColorBlendFunction() gpu.BlendFunction { return s.desc.colorFunc }
func (s *BlendState) AlphaBlendFunction() gpu.BlendFunction { return s.desc.alphaFunc }
func (s *BlendState) ColorSourceBlend() gpu.Blend           { return s.desc.colorSrc }
func (s *BlendState) ColorDestinationBlend() gpu.Blend      { return s.desc.colorDst }
func (s *BlendState) AlphaSourceBlend() gpu.Blend           { return s.desc.alphaSrc }
func (s *BlendState) AlphaDestinationBlend() gpu.Blend      { return s.desc.alphaDst }
func (s *BlendState) ColorWriteChannels() gpu.ColorWriteChannels {
	return s.desc.writeChannels
}
func (s *BlendState) BlendFactor() sprite.Color { return s.desc.factor }

func (s *BlendState) SetColorBlendFunction(f gpu.BlendFunction) {
	s.checkWrite("ColorBlendFunction")
	s.desc.colorFunc = f
}

func (s *BlendState) SetAlphaBlendFunction(f gpu.BlendFunction) {
	s.checkWrite("AlphaBlendFunction")
	s.desc.alphaFunc = f
}

func (s *BlendState) SetColorSourceBlend(b gpu.Blend) {
	s.checkWrite("ColorSourceBlend")
	s.desc.colorSrc = b
}

func (s *BlendState) SetColorDestinationBlend(b gpu.Blend) {
	s.checkWrite("ColorDestinationBlend")
	s.desc.colorDst = b
}

func (s *BlendState) SetAlphaSourceBlend(b gpu.Blend) {
	s.checkWrite("AlphaSourceBlend")
	s.desc.alphaSrc = b
}

func (s *BlendState) SetAlphaDestinationBlend(b gpu.Blend) {
	s.checkWrite("AlphaDestinationBlend")
	s.desc.alphaDst = b
}

func (s *BlendState) SetColorWriteChannels(c gpu.ColorWriteChannels) {
	s.checkWrite("ColorWriteChannels")
	s.desc.writeChannels = c
}

func (s *BlendState) SetBlendFactor(c sprite.Color) {
	s.checkWrite("BlendFactor")
	s.desc.factor = c
}
