package state

import "github.com/db47h/sprite/gpu"

type depthDesc struct {
	depthEnable      bool
	depthWrite       bool
	depthFunc        gpu.CompareFunction
	stencilEnable    bool
	stencilFunc      gpu.CompareFunction
	stencilRef       int
	stencilMask      uint32
	stencilFail      gpu.StencilOperation
	stencilDepthFail gpu.StencilOperation
	stencilPass      gpu.StencilOperation
	stencilWriteMask uint32
}

// A DepthStencilState controls depth and stencil testing.
//
type DepthStencilState struct {
	preset
	desc depthDesc
}

// Depth-stencil presets.
//
var (
	// Default enables depth testing and writing.
	Default = newDepthPreset("Default", true, true)
	// DepthRead enables depth testing without writing.
	DepthRead = newDepthPreset("DepthRead", true, false)
	// None disables depth testing and writing. This is the default for 2D
	// overlays.
	None = newDepthPreset("None", false, false)
)

func newDepthPreset(name string, enable, write bool) *DepthStencilState {
	s := NewDepthStencilState()
	s.desc.depthEnable = enable
	s.desc.depthWrite = write
	s.preset = preset{name: "DepthStencilState." + name, readOnly: true}
	return s
}

// NewDepthStencilState returns a new mutable DepthStencilState equivalent to
// Default.
//
func NewDepthStencilState() *DepthStencilState {
	return &DepthStencilState{desc: depthDesc{
		depthEnable:      true,
		depthWrite:       true,
		depthFunc:        gpu.CompareLessEqual,
		stencilFunc:      gpu.CompareAlways,
		stencilMask:      ^uint32(0),
		stencilFail:      gpu.StencilKeep,
		stencilDepthFail: gpu.StencilKeep,
		stencilPass:      gpu.StencilKeep,
		stencilWriteMask: ^uint32(0),
	}}
}

// Clone returns a mutable copy of s.
//
func (s *DepthStencilState) Clone() *DepthStencilState {
	return &DepthStencilState{desc: s.desc}
}

func (s *DepthStencilState) DepthBufferEnable() bool                  { return s.desc.depthEnable }
func (s *DepthStencilState) DepthBufferWriteEnable() bool             { return s.desc.depthWrite }
func (s *DepthStencilState) DepthBufferFunction() gpu.CompareFunction { return s.desc.depthFunc }
func (s *DepthStencilState) StencilEnable() bool                      { return s.desc.stencilEnable }
func (s *DepthStencilState) StencilFunction() gpu.CompareFunction     { return s.desc.stencilFunc }
func (s *DepthStencilState) ReferenceStencil() int                    { return s.desc.stencilRef }
func (s *DepthStencilState) StencilMask() uint32                      { return s.desc.stencilMask }
func (s *DepthStencilState) StencilFail() gpu.StencilOperation        { return s.desc.stencilFail }
func (s *DepthStencilState) StencilDepthBufferFail() gpu.StencilOperation {
	return s.desc.stencilDepthFail
}
func (s *DepthStencilState) StencilPass() gpu.StencilOperation { return s.desc.stencilPass }
func (s *DepthStencilState) StencilWriteMask() uint32          { return s.desc.stencilWriteMask }

func (s *DepthStencilState) SetDepthBufferEnable(v bool) {
	s.checkWrite("DepthBufferEnable")
	s.desc.depthEnable = v
}

func (s *DepthStencilState) SetDepthBufferWriteEnable(v bool) {
	s.checkWrite("DepthBufferWriteEnable")
	s.desc.depthWrite = v
}

func (s *DepthStencilState) SetDepthBufferFunction(f gpu.CompareFunction) {
	s.checkWrite("DepthBufferFunction")
	s.desc.depthFunc = f
}

func (s *DepthStencilState) SetStencilEnable(v bool) {
	s.checkWrite("StencilEnable")
	s.desc.stencilEnable = v
}

func (s *DepthStencilState) SetStencilFunction(f gpu.CompareFunction) {
	s.checkWrite("StencilFunction")
	s.desc.stencilFunc = f
}

func (s *DepthStencilState) SetReferenceStencil(ref int) {
	s.checkWrite("ReferenceStencil")
	s.desc.stencilRef = ref
}

func (s *DepthStencilState) SetStencilMask(m uint32) {
	s.checkWrite("StencilMask")
	s.desc.stencilMask = m
}

func (s *DepthStencilState) SetStencilFail(op gpu.StencilOperation) {
	s.checkWrite("StencilFail")
	s.desc.stencilFail = op
}

func (s *DepthStencilState) SetStencilDepthBufferFail(op gpu.StencilOperation) {
	s.checkWrite("StencilDepthBufferFail")
	s.desc.stencilDepthFail = op
}

func (s *DepthStencilState) SetStencilPass(op gpu.StencilOperation) {
	s.checkWrite("StencilPass")
	s.desc.stencilPass = op
}

func (s *DepthStencilState) SetStencilWriteMask(m uint32) {
	s.checkWrite("StencilWriteMask")
	s.desc.stencilWriteMask = m
}
