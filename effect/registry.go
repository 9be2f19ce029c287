package effect

import (
	"sort"
	"sync"

	"github.com/db47h/sprite"
	"github.com/db47h/sprite/gpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// A TechniqueFunc creates the device resources of a technique. The returned
// technique must read its uniforms from params whenever one of its passes is
// applied.
//
type TechniqueFunc func(dev gpu.Device, params *Parameters) (*Technique, error)

var (
	regMu    sync.RWMutex
	registry = make(map[string]TechniqueFunc)
)

// Register makes a technique available by name. It panics if f is nil or if
// Register is called twice with the same name.
//
func Register(name string, f TechniqueFunc) {
	regMu.Lock()
	defer regMu.Unlock()
	if f == nil {
		panic("effect: Register technique is nil")
	}
	if _, dup := registry[name]; dup {
		panic("effect: Register called twice for technique " + name)
	}
	registry[name] = f
}

// Techniques returns a sorted list of the names of the registered techniques.
//
func Techniques() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func lookup(name string) (TechniqueFunc, error) {
	regMu.RLock()
	f, ok := registry[name]
	regMu.RUnlock()
	if !ok {
		return nil, errors.Errorf("unknown technique %q", name)
	}
	return f, nil
}

// An Effect is a set of techniques sharing the same parameters. Techniques
// are created on first use and kept until Release.
//
type Effect struct {
	dev        gpu.Device
	params     Parameters
	techniques map[string]*Technique
	current    *Technique
}

// New returns a new Effect for dev with the named technique as its current
// technique.
//
func New(dev gpu.Device, name string) (*Effect, error) {
	e := &Effect{
		dev:        dev,
		params:     Parameters{transform: mgl32.Ident4(), version: 1},
		techniques: make(map[string]*Technique),
	}
	if err := e.SetCurrentTechnique(name); err != nil {
		return nil, err
	}
	return e, nil
}

// SetTransform sets the vertex transform used by all techniques.
//
func (e *Effect) SetTransform(m mgl32.Mat4) { e.params.SetTransform(m) }

// Transform returns the current vertex transform.
//
func (e *Effect) Transform() mgl32.Mat4 { return e.params.Transform() }

// CurrentTechnique returns the technique used for drawing.
//
func (e *Effect) CurrentTechnique() *Technique { return e.current }

// SetCurrentTechnique selects the named technique, creating its resources if
// needed.
//
func (e *Effect) SetCurrentTechnique(name string) error {
	if t, ok := e.techniques[name]; ok {
		e.current = t
		return nil
	}
	f, err := lookup(name)
	if err != nil {
		return err
	}
	t, err := f(e.dev, &e.params)
	if err != nil {
		return errors.Wrapf(err, "create technique %q", name)
	}
	sprite.Logger().Debug("effect technique created", "name", name, "passes", len(t.Passes))
	e.techniques[name] = t
	e.current = t
	return nil
}

// Release releases the resources of all techniques created by e. The Effect
// must not be used afterwards.
//
func (e *Effect) Release() error {
	var first error
	for _, t := range e.techniques {
		for _, r := range t.Resources {
			if err := r.Release(); err != nil && first == nil {
				first = errors.Wrapf(err, "release technique %q", t.Name)
			}
		}
	}
	e.techniques, e.current = nil, nil
	return first
}
