// Package state provides the pipeline state objects used by the sprite batcher
// (blend, depth-stencil, rasterizer and sampler states) and a Cache that
// applies them to a gpu.StateDevice by issuing only the device calls whose
// fields changed since the previous state of the same category.
//
// Predefined states (e.g. AlphaBlend, CullNone) are shared read-only presets:
// any setter called on them panics with an error wrapping ErrReadOnly. Use
// Clone to get a mutable copy.
//
// States and caches are not safe for concurrent use.
//
package state

import "github.com/pkg/errors"

// ErrReadOnly is the error wrapped by panics raised when mutating a preset.
//
var ErrReadOnly = errors.New("preset state is read-only")

type preset struct {
	name     string
	readOnly bool
}

// Name returns the state name. Only presets are named.
//
func (p *preset) Name() string { return p.name }

// ReadOnly returns true for presets.
//
func (p *preset) ReadOnly() bool { return p.readOnly }

func (p *preset) checkWrite(field string) {
	if p.readOnly {
		panic(errors.Wrapf(ErrReadOnly, "set %s.%s", p.name, field))
	}
}
