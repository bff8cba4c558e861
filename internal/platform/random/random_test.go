package random

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocked_SameSeedSameDraws(t *testing.T) {
	a, b := New(42), New(42)
	for range 10 {
		assert.Equal(t, a.Float64(), b.Float64())
	}
}

func TestLocked_DrawsInRange(t *testing.T) {
	src := New(7)
	for range 1000 {
		f := src.Float64()
		assert.GreaterOrEqual(t, f, 0.0)
		assert.Less(t, f, 1.0)
		n := src.Int64N(5)
		assert.GreaterOrEqual(t, n, int64(0))
		assert.Less(t, n, int64(5))
	}
}

func TestLocked_ConcurrentUse(t *testing.T) {
	src := New(1)
	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			for range 100 {
				src.Float64()
			}
		})
	}
	wg.Wait()
}

func TestFork_IsDeterministicAndIndependent(t *testing.T) {
	a := Fork(New(3))
	b := Fork(New(3))
	assert.Equal(t, a.Float64(), b.Float64())

	parent := New(3)
	child := Fork(parent)
	assert.NotEqual(t, parent.Float64(), child.Float64())
}

func TestSequence_RepeatsLastDraw(t *testing.T) {
	s := NewSequence(0.1, 0.9)
	assert.Equal(t, 0.1, s.Float64())
	assert.Equal(t, 0.9, s.Float64())
	assert.Equal(t, 0.9, s.Float64())
}

func TestFixed_Int64NStaysInRange(t *testing.T) {
	assert.Equal(t, 0.25, Fixed(0.25).Float64())
	assert.Equal(t, int64(1), Fixed(0.25).Int64N(4))
	assert.Equal(t, int64(3), Fixed(1).Int64N(4))
	assert.Equal(t, int64(0), Fixed(-1).Int64N(4))
}
