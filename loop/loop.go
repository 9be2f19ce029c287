// Package loop provides a fixed timestep game loop.
//
package loop

import (
	"time"
)

// App is driven by FixedStep.
//
// Graphical applications should swap their buffers in ProcessEvents, before
// actually processing events.
//
type App interface {
	ProcessEvents() (quit bool)
	// Update advances the simulation by dt.
	Update(dt time.Duration)
	// Draw draws a frame. alpha in [0, 1) is the fraction of a timestep left
	// in the accumulator, for interpolation between the last two states.
	Draw(frameTime time.Duration, alpha float32)
}

// Default timings for FixedStep.
const (
	DefaultDT           time.Duration = time.Second / 240
	DefaultMaxFrameTime time.Duration = time.Second / 4
)

// FixedStep runs Update at a fixed rate and Draw once per frame.
//
type FixedStep struct {
	DT           time.Duration // timestep
	MaxFrameTime time.Duration // frame times are clamped to this value
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	frames  int
	updates int
}

// Frames returns the number of frames drawn by the last call to Run.
//
func (l *FixedStep) Frames() int { return l.frames }

// Updates returns the number of updates by the last call to Run.
//
func (l *FixedStep) Updates() int { return l.updates }

// Run runs the loop until a.ProcessEvents returns true.
//
func (l *FixedStep) Run(a App) {
	if l.DT <= 0 {
		l.DT = DefaultDT
	}
	if l.MaxFrameTime <= 0 {
		l.MaxFrameTime = DefaultMaxFrameTime
	}
	now := l.Now
	if now == nil {
		now = time.Now
	}
	l.frames, l.updates = 0, 0

	var (
		tPrev = now()
		tAcc  time.Duration
	)
	for !a.ProcessEvents() {
		t := now()
		ft := t.Sub(tPrev)
		if ft > l.MaxFrameTime {
			ft = l.MaxFrameTime
		}
		tAcc += ft
		tPrev = t
		for ; tAcc >= l.DT; tAcc -= l.DT {
			a.Update(l.DT)
			l.updates++
		}
		a.Draw(ft, float32(tAcc)/float32(l.DT))
		l.frames++
	}
}
