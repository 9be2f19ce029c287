package batch

import (
	"image"

	"github.com/db47h/sprite"
	"github.com/db47h/sprite/gpu"
	"github.com/go-gl/mathgl/mgl32"
)

// An ItemPool is a free list of items. It is not safe for concurrent use.
//
type ItemPool struct {
	free      []*Item
	allocated int
}

// NewItemPool returns a new pool pre-warmed with n items.
//
func NewItemPool(n int) *ItemPool {
	p := &ItemPool{free: make([]*Item, 0, n)}
	for i := 0; i < n; i++ {
		p.free = append(p.free, &Item{free: true})
	}
	p.allocated = n
	return p
}

// Acquire returns an item with all its fields computed from the given
// parameters. The pool grows if no free item is available.
//
func (p *ItemPool) Acquire(tex gpu.Texture, position mgl32.Vec2, src *image.Rectangle, c sprite.Color,
	rotation float32, origin, size mgl32.Vec2, flip sprite.Flip, depth float32, mode sprite.SortMode) *Item {
	var it *Item
	if n := len(p.free); n > 0 {
		it = p.free[n-1]
		p.free[n-1] = nil
		p.free = p.free[:n-1]
	} else {
		it = new(Item)
		p.allocated++
		if p.allocated&(p.allocated-1) == 0 {
			sprite.Logger().Debug("item pool grown", "items", p.allocated)
		}
	}
	it.free = false
	it.set(tex, position, src, c, rotation, origin, size, flip, depth, mode)
	return it
}

// Release returns it to the pool. Releasing the same item twice panics with
// ErrDoubleRelease.
//
func (p *ItemPool) Release(it *Item) {
	if it.free {
		misuse(ErrDoubleRelease, "ItemPool.Release")
	}
	it.free = true
	it.Texture = nil
	p.free = append(p.free, it)
}

// Free returns the number of items in the free list.
//
func (p *ItemPool) Free() int { return len(p.free) }

// Allocated returns the total number of items created by the pool.
//
func (p *ItemPool) Allocated() int { return p.allocated }
