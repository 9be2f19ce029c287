package state

import "github.com/db47h/sprite/gpu"

type rasterDesc struct {
	cullMode       gpu.CullMode
	fillMode       gpu.FillMode
	depthBias      float32
	slopeScaleBias float32
	scissorTest    bool
	multiSample    bool
}

// A RasterizerState controls how triangles are rasterized.
//
type RasterizerState struct {
	preset
	desc rasterDesc
}

// Rasterizer presets.
//
var (
	CullClockwise        = newRasterPreset("CullClockwise", gpu.CullClockwiseFace)
	CullCounterClockwise = newRasterPreset("CullCounterClockwise", gpu.CullCounterClockwiseFace)
	CullNone             = newRasterPreset("CullNone", gpu.CullNone)
)

func newRasterPreset(name string, cull gpu.CullMode) *RasterizerState {
	s := NewRasterizerState()
	s.desc.cullMode = cull
	s.preset = preset{name: "RasterizerState." + name, readOnly: true}
	return s
}

// NewRasterizerState returns a new mutable RasterizerState equivalent to
// CullCounterClockwise.
//
func NewRasterizerState() *RasterizerState {
	return &RasterizerState{desc: rasterDesc{
		cullMode:    gpu.CullCounterClockwiseFace,
		fillMode:    gpu.FillSolid,
		multiSample: true,
	}}
}

// Clone returns a mutable copy of s.
//
func (s *RasterizerState) Clone() *RasterizerState {
	return &RasterizerState{desc: s.desc}
}

func (s *RasterizerState) CullMode() gpu.CullMode       { return s.desc.cullMode }
func (s *RasterizerState) FillMode() gpu.FillMode       { return s.desc.fillMode }
func (s *RasterizerState) DepthBias() float32           { return s.desc.depthBias }
func (s *RasterizerState) SlopeScaleDepthBias() float32 { return s.desc.slopeScaleBias }
func (s *RasterizerState) ScissorTestEnable() bool      { return s.desc.scissorTest }
func (s *RasterizerState) MultiSampleAntiAlias() bool   { return s.desc.multiSample }

func (s *RasterizerState) SetCullMode(m gpu.CullMode) {
	s.checkWrite("CullMode")
	s.desc.cullMode = m
}

func (s *RasterizerState) SetFillMode(m gpu.FillMode) {
	s.checkWrite("FillMode")
	s.desc.fillMode = m
}

func (s *RasterizerState) SetDepthBias(v float32) {
	s.checkWrite("DepthBias")
	s.desc.depthBias = v
}

func (s *RasterizerState) SetSlopeScaleDepthBias(v float32) {
	s.checkWrite("SlopeScaleDepthBias")
	s.desc.slopeScaleBias = v
}

func (s *RasterizerState) SetScissorTestEnable(v bool) {
	s.checkWrite("ScissorTestEnable")
	s.desc.scissorTest = v
}

func (s *RasterizerState) SetMultiSampleAntiAlias(v bool) {
	s.checkWrite("MultiSampleAntiAlias")
	s.desc.multiSample = v
}
