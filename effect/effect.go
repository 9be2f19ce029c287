// Package effect provides the shader programs and per-pass render states used
// to draw sprite batches.
//
// An Effect is built from a named technique registered with Register. A
// technique is a list of passes; each pass may override the blend,
// depth-stencil and rasterizer states set by the caller and binds its shader
// program and uniforms when applied.
//
package effect

import (
	"github.com/db47h/sprite/gpu"
	"github.com/db47h/sprite/state"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// A Pass is a single rendering pass of a Technique.
//
type Pass struct {
	Name string

	// State overrides. nil fields leave the current state unchanged.
	Blend        *state.BlendState
	DepthStencil *state.DepthStencilState
	Rasterizer   *state.RasterizerState

	// Bind is called after the states have been applied. It is responsible
	// for binding the pass program and uploading uniforms.
	Bind func(dev gpu.Device) error
}

// Apply applies the pass states through the given cache, then binds the pass
// program.
//
func (p *Pass) Apply(dev gpu.Device, cache *state.Cache) error {
	if p.Blend != nil {
		cache.ApplyBlend(p.Blend)
	}
	if p.DepthStencil != nil {
		cache.ApplyDepthStencil(p.DepthStencil)
	}
	if p.Rasterizer != nil {
		cache.ApplyRasterizer(p.Rasterizer)
	}
	if p.Bind == nil {
		return nil
	}
	return errors.Wrapf(p.Bind(dev), "pass %q", p.Name)
}

// A Technique is an ordered list of passes. Every pass draws the same
// geometry.
//
type Technique struct {
	Name   string
	Passes []*Pass
	// Resources are released together with the Effect owning the technique.
	Resources []gpu.Releaser
}

// Parameters holds the effect parameters shared by all techniques of an
// Effect. Every change bumps the version so that techniques can skip uniform
// uploads.
//
type Parameters struct {
	transform mgl32.Mat4
	version   uint64
}

func (p *Parameters) Transform() mgl32.Mat4 { return p.transform }
func (p *Parameters) Version() uint64       { return p.version }

// SetTransform sets the vertex transform. Setting the same matrix again does
// not change the version.
//
func (p *Parameters) SetTransform(m mgl32.Mat4) {
	if m == p.transform {
		return
	}
	p.transform = m
	p.version++
}
