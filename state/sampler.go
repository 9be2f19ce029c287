package state

import (
	"github.com/db47h/sprite"
	"github.com/db47h/sprite/gpu"
)

// A SamplerState controls how a texture unit samples its texture.
//
type SamplerState struct {
	preset
	desc gpu.SamplerDesc
}

// Sampler presets.
//
var (
	PointClamp       = newSamplerPreset("PointClamp", gpu.FilterPoint, gpu.AddressClamp)
	PointWrap        = newSamplerPreset("PointWrap", gpu.FilterPoint, gpu.AddressWrap)
	LinearClamp      = newSamplerPreset("LinearClamp", gpu.FilterLinear, gpu.AddressClamp)
	LinearWrap       = newSamplerPreset("LinearWrap", gpu.FilterLinear, gpu.AddressWrap)
	AnisotropicClamp = newSamplerPreset("AnisotropicClamp", gpu.FilterAnisotropic, gpu.AddressClamp)
	AnisotropicWrap  = newSamplerPreset("AnisotropicWrap", gpu.FilterAnisotropic, gpu.AddressWrap)
)

func newSamplerPreset(name string, f gpu.TextureFilter, a gpu.TextureAddressMode) *SamplerState {
	s := NewSamplerState()
	s.desc.Filter = f
	s.desc.AddressU, s.desc.AddressV, s.desc.AddressW = a, a, a
	s.preset = preset{name: "SamplerState." + name, readOnly: true}
	return s
}

// NewSamplerState returns a new mutable SamplerState equivalent to LinearWrap.
//
func NewSamplerState() *SamplerState {
	return &SamplerState{desc: gpu.SamplerDesc{
		Filter:        gpu.FilterLinear,
		AddressU:      gpu.AddressWrap,
		AddressV:      gpu.AddressWrap,
		AddressW:      gpu.AddressWrap,
		BorderColor:   sprite.White,
		MaxAnisotropy: 4,
	}}
}

// Clone returns a mutable copy of s.
//
func (s *SamplerState) Clone() *SamplerState {
	return &SamplerState{desc: s.desc}
}

// Desc returns the sampler description.
//
func (s *SamplerState) Desc() gpu.SamplerDesc { return s.desc }

func (s *SamplerState) Filter() gpu.TextureFilter        { return s.desc.Filter }
func (s *SamplerState) AddressU() gpu.TextureAddressMode { return s.desc.AddressU }
func (s *SamplerState) AddressV() gpu.TextureAddressMode { return s.desc.AddressV }
func (s *SamplerState) AddressW() gpu.TextureAddressMode { return s.desc.AddressW }
func (s *SamplerState) BorderColor() sprite.Color        { return s.desc.BorderColor }
func (s *SamplerState) MaxAnisotropy() int               { return s.desc.MaxAnisotropy }
func (s *SamplerState) MaxMipLevel() int                 { return s.desc.MaxMipLevel }
func (s *SamplerState) MipMapLevelOfDetailBias() float32 { return s.desc.MipMapLODBias }

func (s *SamplerState) SetFilter(f gpu.TextureFilter) {
	s.checkWrite("Filter")
	s.desc.Filter = f
}

func (s *SamplerState) SetAddressU(a gpu.TextureAddressMode) {
	s.checkWrite("AddressU")
	s.desc.AddressU = a
}

func (s *SamplerState) SetAddressV(a gpu.TextureAddressMode) {
	s.checkWrite("AddressV")
	s.desc.AddressV = a
}

func (s *SamplerState) SetAddressW(a gpu.TextureAddressMode) {
	s.checkWrite("AddressW")
	s.desc.AddressW = a
}

func (s *SamplerState) SetBorderColor(c sprite.Color) {
	s.checkWrite("BorderColor")
	s.desc.BorderColor = c
}

func (s *SamplerState) SetMaxAnisotropy(n int) {
	s.checkWrite("MaxAnisotropy")
	s.desc.MaxAnisotropy = n
}

func (s *SamplerState) SetMaxMipLevel(n int) {
	s.checkWrite("MaxMipLevel")
	s.desc.MaxMipLevel = n
}

func (s *SamplerState) SetMipMapLevelOfDetailBias(b float32) {
	s.checkWrite("MipMapLevelOfDetailBias")
	s.desc.MipMapLODBias = b
}
