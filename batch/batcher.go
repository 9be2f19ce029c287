package batch

import (
	"slices"

	"github.com/db47h/sprite"
	"github.com/db47h/sprite/effect"
	"github.com/db47h/sprite/gpu"
	"github.com/db47h/sprite/state"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// Effect is the shader effect used to draw batches.
//
type Effect interface {
	// SetTransform sets the matrix transforming vertex positions to clip
	// space.
	SetTransform(m mgl32.Mat4)
	// CurrentTechnique returns the technique whose passes are applied for
	// each draw call.
	CurrentTechnique() *effect.Technique
}

// Stats are the statistics of a batching pass.
//
type Stats struct {
	Sprites   int // sprites drawn
	DrawCalls int // DrawIndexed calls, one per run and per pass
	Runs      int // same-texture runs
	Fills     int // geometry buffer fills
}

type batcherState int

const (
	idle batcherState = iota
	accumulating
	flushing
)

// A Batcher accumulates items between Begin and End, then groups them into
// runs of items sharing the same texture and draws each run with a single
// draw call per effect pass.
//
type Batcher struct {
	dev     gpu.Device
	cache   *state.Cache
	pool    *ItemPool
	buffers *GeometryBuffers

	items   []*Item
	mode    sprite.SortMode
	st      batcherState
	flushed int // items already drawn by Flush
	bound   bool
	stats   Stats
}

// NewBatcher returns a new Batcher. Items are released to pool and geometry
// is streamed through buffers.
//
func NewBatcher(dev gpu.Device, cache *state.Cache, pool *ItemPool, buffers *GeometryBuffers) *Batcher {
	return &Batcher{
		dev:     dev,
		cache:   cache,
		pool:    pool,
		buffers: buffers,
	}
}

// Begin starts a new pass. Items from the previous pass are released to the
// pool.
//
func (b *Batcher) Begin(mode sprite.SortMode) {
	switch b.st {
	case accumulating:
		misuse(ErrAlreadyBegun, "Batcher.Begin")
	case flushing:
		misuse(ErrFlushing, "Batcher.Begin")
	}
	for i, it := range b.items {
		b.pool.Release(it)
		b.items[i] = nil
	}
	b.items = b.items[:0]
	b.mode = mode
	b.flushed = 0
	b.bound = false
	b.stats = Stats{}
	b.buffers.Reset()
	b.st = accumulating
}

// Add appends it to the pending items. There is no limit on the number of
// pending items.
//
func (b *Batcher) Add(it *Item) {
	switch b.st {
	case idle:
		misuse(ErrNotBegun, "Batcher.Add")
	case flushing:
		misuse(ErrFlushing, "Batcher.Add")
	}
	b.items = append(b.items, it)
}

// Len returns the number of items added since Begin that have not been drawn
// yet.
//
func (b *Batcher) Len() int { return len(b.items) - b.flushed }

// Flush draws the pending items without ending the pass. It does not sort
// items.
//
func (b *Batcher) Flush(e Effect) error {
	if b.st != accumulating {
		misuse(ErrNotBegun, "Batcher.Flush")
	}
	b.st = flushing
	defer func() { b.st = accumulating }()
	err := b.draw(e, b.items[b.flushed:])
	b.flushed = len(b.items)
	return err
}

// End sorts and draws the pending items, then ends the pass. Items stay
// referenced until the next Begin. On error, the remaining items are not
// drawn.
//
func (b *Batcher) End(e Effect) error {
	if b.st != accumulating {
		misuse(ErrNotBegun, "Batcher.End")
	}
	b.st = flushing
	defer func() { b.st = idle }()

	items := b.items[b.flushed:]
	b.flushed = len(b.items)
	if len(items) == 0 {
		return nil
	}
	if b.mode.Sorted() {
		slices.SortStableFunc(items, func(x, y *Item) int {
			switch {
			case x.SortKey > y.SortKey:
				return -1
			case x.SortKey < y.SortKey:
				return 1
			}
			return 0
		})
	}
	return b.draw(e, items)
}

// Stats returns the statistics of the current or last pass.
//
func (b *Batcher) Stats() Stats {
	s := b.stats
	s.Fills = b.buffers.Fills()
	return s
}

func (b *Batcher) draw(e Effect, items []*Item) error {
	if len(items) == 0 {
		return nil
	}
	tech := e.CurrentTechnique()
	if tech == nil {
		return errors.New("effect has no current technique")
	}
	if !b.bound {
		if err := b.buffers.Bind(); err != nil {
			return err
		}
		b.bound = true
	}
	capacity := b.buffers.Capacity()
	start := 0
	for i := 1; i <= len(items); i++ {
		if i < len(items) && items[i].Texture == items[start].Texture && i-start < capacity {
			continue
		}
		if err := b.flush(tech, items[start:i]); err != nil {
			return err
		}
		start = i
	}
	return nil
}

func (b *Batcher) flush(tech *effect.Technique, run []*Item) error {
	if len(run) == 0 {
		return nil
	}
	baseVertex, startIndex, err := b.buffers.Write(run)
	if err != nil {
		return err
	}
	tex := run[0].Texture
	if err = b.dev.BindTexture(0, tex); err != nil {
		return errors.Wrapf(err, "bind texture %d", tex.NativeID())
	}
	for _, p := range tech.Passes {
		if err = p.Apply(b.dev, b.cache); err != nil {
			return err
		}
		if err = b.dev.DrawIndexed(gpu.TriangleList, baseVertex, startIndex, len(run)*2); err != nil {
			return errors.Wrap(err, "draw")
		}
		b.stats.DrawCalls++
	}
	b.stats.Runs++
	b.stats.Sprites += len(run)
	return nil
}
