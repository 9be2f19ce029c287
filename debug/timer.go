// Package debug provides a frame timer and an on-screen statistics overlay.
//
package debug

import "time"

const samples = 32

// Timer computes a rolling average of the last 32 frame times.
//
type Timer struct {
	times [samples]time.Duration
	index int
	n     int
	last  time.Time
}

// Add adds a frame time sample.
//
func (t *Timer) Add(dt time.Duration) {
	t.times[t.index] = dt
	t.index = (t.index + 1) & (samples - 1)
	if t.n < samples {
		t.n++
	}
}

// Tick adds the time elapsed since the previous call to Tick.
//
func (t *Timer) Tick(now time.Time) {
	if !t.last.IsZero() {
		t.Add(now.Sub(t.last))
	}
	t.last = now
}

// Average returns the average frame time.
//
func (t *Timer) Average() time.Duration {
	if t.n == 0 {
		return 0
	}
	var avg time.Duration
	for _, dt := range t.times[:t.n] {
		avg += dt
	}
	return avg / time.Duration(t.n)
}

// AveragePerSecond returns the average frame rate.
//
func (t *Timer) AveragePerSecond() float64 {
	avg := t.Average()
	if avg == 0 {
		return 0
	}
	return float64(time.Second) / float64(avg)
}

// Reset discards all samples.
//
func (t *Timer) Reset() {
	*t = Timer{}
}
