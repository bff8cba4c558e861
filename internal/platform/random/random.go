// Package random provides explicitly owned randomness sources. Each component
// that draws random numbers receives its own Source so runs can be reproduced
// under test by fixing the seed.
package random

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Source draws uniform values. Implementations must be safe for concurrent use.
type Source interface {
	// Float64 returns a uniform value in [0,1).
	Float64() float64
	// Int64N returns a uniform value in [0,n). n must be > 0.
	Int64N(n int64) int64
}

// Locked is a goroutine-safe Source backed by a PCG generator.
type Locked struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// New returns a Source seeded with seed.
func New(seed uint64) *Locked {
	return &Locked{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewFromTime seeds from the wall clock; use when reproducibility is not needed.
func NewFromTime() *Locked {
	return New(uint64(time.Now().UnixNano()))
}

func (l *Locked) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rnd.Float64()
}

func (l *Locked) Int64N(n int64) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rnd.Int64N(n)
}

// Fork derives an independent Source from parent. Components built from one
// configured seed each get a fork so their draws do not interleave.
func Fork(parent Source) *Locked {
	return New(uint64(parent.Int64N(1 << 62)))
}

// Fixed always returns the same draw. It is meant for tests and for forcing
// probabilities of 0 or 1 at the edges.
type Fixed float64

func (f Fixed) Float64() float64 { return float64(f) }

func (f Fixed) Int64N(n int64) int64 {
	v := int64(float64(f) * float64(n))
	if v >= n {
		return n - 1
	}
	if v < 0 {
		return 0
	}
	return v
}

// Sequence replays draws in order and then repeats the last one.
type Sequence struct {
	mu    sync.Mutex
	draws []float64
	next  int
}

// NewSequence returns a Source that replays draws. draws must not be empty.
func NewSequence(draws ...float64) *Sequence {
	return &Sequence{draws: draws}
}

func (s *Sequence) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.draws[s.next]
	if s.next < len(s.draws)-1 {
		s.next++
	}
	return v
}

func (s *Sequence) Int64N(n int64) int64 {
	return Fixed(s.Float64()).Int64N(n)
}
