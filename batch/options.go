package batch

import (
	"github.com/db47h/sprite/state"
)

// MaxBatchCapacity is the maximum number of quads drawn by a single draw call.
// 2048 quads need 8192 vertices, well within the range of 16 bits indices.
//
const MaxBatchCapacity = 2048

// DefaultPoolSize is the number of items an ItemPool is pre-warmed with.
//
const DefaultPoolSize = 256

type config struct {
	capacity int
	poolSize int
	cache    *state.Cache
	effect   Effect
}

// Option is implemented by the SpriteBatch configuration options.
//
type Option interface {
	set(*config)
}

type optionFunc func(*config)

func (f optionFunc) set(c *config) { f(c) }

// Capacity sets the maximum number of quads per draw call, which is also the
// capacity of the geometry buffers. Values outside [1, MaxBatchCapacity] are
// clamped.
//
func Capacity(quads int) Option {
	return optionFunc(func(c *config) {
		if quads < 1 {
			quads = 1
		}
		if quads > MaxBatchCapacity {
			quads = MaxBatchCapacity
		}
		c.capacity = quads
	})
}

// PoolSize sets the number of pre-allocated items.
//
func PoolSize(n int) Option {
	return optionFunc(func(c *config) {
		if n < 0 {
			n = 0
		}
		c.poolSize = n
	})
}

// WithStateCache makes the SpriteBatch apply its states through the given
// cache. Use this when several renderers share the same device, so that they
// share the same view of its pipeline state.
//
func WithStateCache(cache *state.Cache) Option {
	return optionFunc(func(c *config) { c.cache = cache })
}

// WithEffect sets the default effect, used when Settings.Effect is nil. The
// built-in sprite effect is not created when this option is set.
//
func WithEffect(e Effect) Option {
	return optionFunc(func(c *config) { c.effect = e })
}
