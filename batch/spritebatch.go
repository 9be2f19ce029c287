// Package batch implements a sprite batcher: sprites drawn between Begin and
// End are grouped into runs sharing the same texture, and each run is drawn
// with a single draw call.
//
// Usage errors, like calling End without a matching Begin, panic with an error
// wrapping one of the Err* values of this package. Device errors are returned
// by End.
//
// Nothing in this package is safe for concurrent use. All calls must be made
// from the goroutine owning the device.
//
package batch

import (
	"github.com/db47h/sprite"
	"github.com/db47h/sprite/effect"
	"github.com/db47h/sprite/gpu"
	"github.com/db47h/sprite/state"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// Settings are the per-pass settings given to Begin. The zero value selects
// the defaults documented for each field.
//
type Settings struct {
	// SortMode defaults to sprite.Deferred.
	SortMode sprite.SortMode
	// Blend defaults to state.AlphaBlend.
	Blend *state.BlendState
	// Sampler is applied to texture unit 0. Defaults to state.LinearClamp.
	Sampler *state.SamplerState
	// DepthStencil defaults to state.None.
	DepthStencil *state.DepthStencilState
	// Rasterizer defaults to state.CullCounterClockwise.
	Rasterizer *state.RasterizerState
	// Effect defaults to the SpriteBatch effect.
	Effect Effect
	// Transform is applied to vertex positions before the projection.
	// Defaults to the identity.
	Transform *mgl32.Mat4
}

// A SpriteBatch draws sprites and text in batches.
//
type SpriteBatch struct {
	dev     gpu.Device
	cache   *state.Cache
	pool    *ItemPool
	buffers *GeometryBuffers
	batcher *Batcher
	effect  Effect
	owned   *effect.Effect

	s     Settings
	begun bool
	err   error
}

// New returns a new SpriteBatch drawing to dev.
//
func New(dev gpu.Device, opts ...Option) (*SpriteBatch, error) {
	cfg := config{capacity: MaxBatchCapacity, poolSize: DefaultPoolSize}
	for _, o := range opts {
		o.set(&cfg)
	}
	if cfg.cache == nil {
		cfg.cache = state.NewCache(dev)
	}
	sb := &SpriteBatch{dev: dev, cache: cfg.cache, effect: cfg.effect}
	if sb.effect == nil {
		e, err := effect.New(dev, effect.SpriteBatch)
		if err != nil {
			return nil, err
		}
		sb.effect, sb.owned = e, e
	}
	var err error
	sb.buffers, err = NewGeometryBuffers(dev, cfg.capacity)
	if err != nil {
		if sb.owned != nil {
			sb.owned.Release()
		}
		return nil, err
	}
	sb.pool = NewItemPool(cfg.poolSize)
	sb.batcher = NewBatcher(dev, sb.cache, sb.pool, sb.buffers)
	return sb, nil
}

// Cache returns the state cache used by sb.
//
func (sb *SpriteBatch) Cache() *state.Cache { return sb.cache }

// Pool returns the item pool of sb.
//
func (sb *SpriteBatch) Pool() *ItemPool { return sb.pool }

// Stats returns the statistics of the last pass.
//
func (sb *SpriteBatch) Stats() Stats { return sb.batcher.Stats() }

// Begin starts a new pass with the given settings.
//
func (sb *SpriteBatch) Begin(s Settings) {
	if sb.begun {
		misuse(ErrAlreadyBegun, "SpriteBatch.Begin")
	}
	if s.Blend == nil {
		s.Blend = state.AlphaBlend
	}
	if s.Sampler == nil {
		s.Sampler = state.LinearClamp
	}
	if s.DepthStencil == nil {
		s.DepthStencil = state.None
	}
	if s.Rasterizer == nil {
		s.Rasterizer = state.CullCounterClockwise
	}
	if s.Effect == nil {
		s.Effect = sb.effect
	}
	sb.batcher.Begin(s.SortMode)
	sb.s = s
	sb.begun = true
	sb.err = nil
	if s.SortMode == sprite.Immediate {
		sb.setup()
	}
}

// End draws all pending sprites and ends the pass.
//
// Device errors abort the pass. In Immediate mode, End returns the first
// error encountered while drawing.
//
func (sb *SpriteBatch) End() error {
	if !sb.begun {
		misuse(ErrNotBegun, "SpriteBatch.End")
	}
	sb.begun = false
	if sb.s.SortMode != sprite.Immediate && sb.batcher.Len() > 0 {
		sb.setup()
	}
	err := sb.batcher.End(sb.s.Effect)
	if sb.err != nil {
		err = sb.err
	}
	sb.err = nil
	return err
}

// setup applies the pass states and projection.
func (sb *SpriteBatch) setup() {
	s := &sb.s
	sb.cache.ApplyBlend(s.Blend)
	sb.cache.ApplyDepthStencil(s.DepthStencil)
	sb.cache.ApplyRasterizer(s.Rasterizer)
	sb.cache.ApplySampler(0, s.Sampler)

	vp := sb.dev.Viewport()
	m := mgl32.Ortho(0, float32(vp.Width), float32(vp.Height), 0, 0, -1)
	if s.Transform != nil {
		m = m.Mul4(*s.Transform)
	}
	s.Effect.SetTransform(m)
}

// Release releases the device resources owned by sb.
//
func (sb *SpriteBatch) Release() error {
	err := sb.buffers.Release()
	if sb.owned != nil {
		if e := sb.owned.Release(); err == nil {
			err = e
		}
	}
	return errors.Wrap(err, "release sprite batch")
}
