// Package statistics accumulates vessel weight observations and serves the
// rolling mean and running third quartile that authorities gate on.
package statistics

import (
	"slices"
	"sync"
)

// WindowSize is the number of most recent weights the rolling mean covers.
const WindowSize = 20

// Snapshot is a consistent view of the statistics taken under one lock.
type Snapshot struct {
	Mean          float64
	ThirdQuartile float64
	Samples       int
}

// Tracker holds the append-only weight log and the bounded rolling window.
// Both structures change together under mu; readers never see one without the other.
type Tracker struct {
	mu     sync.Mutex
	log    []float64
	window []float64
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{window: make([]float64, 0, WindowSize)}
}

// Observe appends weight to the log and the window, evicting the oldest window
// entry when the window is full.
func (t *Tracker) Observe(weight float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.log = append(t.log, weight)
	if len(t.window) == WindowSize {
		copy(t.window, t.window[1:])
		t.window = t.window[:WindowSize-1]
	}
	t.window = append(t.window, weight)
}

// Mean averages the rolling window. An empty window yields 0.
func (t *Tracker) Mean() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mean()
}

// ThirdQuartile returns sorted(log)[⌊3n/4⌋]. An empty log yields 0.
func (t *Tracker) ThirdQuartile() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.thirdQuartile()
}

// Snapshot reads mean, quartile and sample count in one critical section.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Snapshot{
		Mean:          t.mean(),
		ThirdQuartile: t.thirdQuartile(),
		Samples:       len(t.log),
	}
}

// Window returns a copy of the rolling window, oldest first.
func (t *Tracker) Window() []float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.window)
}

// Count returns the number of weights observed so far.
func (t *Tracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.log)
}

// Must be called with mu held.
func (t *Tracker) mean() float64 {
	if len(t.window) == 0 {
		return 0
	}
	var sum float64
	for _, w := range t.window {
		sum += w
	}
	return sum / float64(len(t.window))
}

// Must be called with mu held.
func (t *Tracker) thirdQuartile() float64 {
	if len(t.log) == 0 {
		return 0
	}
	sorted := slices.Clone(t.log)
	slices.Sort(sorted)
	return sorted[len(sorted)*3/4]
}
