package statistics

import (
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type TrackerSuite struct {
	suite.Suite
	tracker *Tracker
}

func TestTrackerSuite(t *testing.T) {
	suite.Run(t, new(TrackerSuite))
}

func (s *TrackerSuite) SetupTest() {
	s.tracker = NewTracker()
}

func (s *TrackerSuite) TestEmpty() {
	s.Equal(0.0, s.tracker.Mean())
	s.Equal(0.0, s.tracker.ThirdQuartile())
	s.Equal(Snapshot{}, s.tracker.Snapshot())
	s.Empty(s.tracker.Window())
}

func (s *TrackerSuite) TestWindow() {
	s.Run("length is min(count, 20) in arrival order", func() {
		for i := 1; i <= 35; i++ {
			s.tracker.Observe(float64(i))
			want := min(i, WindowSize)
			s.Require().Len(s.tracker.Window(), want)
		}

		expected := make([]float64, 0, WindowSize)
		for i := 16; i <= 35; i++ {
			expected = append(expected, float64(i))
		}
		s.Equal(expected, s.tracker.Window())
		s.Equal(35, s.tracker.Count())
	})

	s.Run("mean covers only the window", func() {
		// window now holds 16..35
		s.InDelta(25.5, s.tracker.Mean(), 1e-9)
	})
}

func (s *TrackerSuite) TestThirdQuartile() {
	cases := []struct {
		name string
		n    int
	}{
		{"zero", 0},
		{"one", 1},
		{"four", 4},
		{"five", 5},
		{"hundred", 100},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			tracker := NewTracker()
			weights := make([]float64, 0, tc.n)
			// descending input so sorting matters
			for i := tc.n; i > 0; i-- {
				w := float64(i * 1000)
				weights = append(weights, w)
				tracker.Observe(w)
			}
			if tc.n == 0 {
				s.Equal(0.0, tracker.ThirdQuartile())
				return
			}
			sorted := slices.Clone(weights)
			slices.Sort(sorted)
			s.Equal(sorted[3*tc.n/4], tracker.ThirdQuartile())
		})
	}

	s.Run("does not reorder the log", func() {
		tracker := NewTracker()
		tracker.Observe(3)
		tracker.Observe(1)
		tracker.Observe(2)
		_ = tracker.ThirdQuartile()
		s.Equal([]float64{3, 1, 2}, tracker.Window())
	})
}

func (s *TrackerSuite) TestSnapshot() {
	for _, w := range []float64{10, 20, 30, 40} {
		s.tracker.Observe(w)
	}
	snap := s.tracker.Snapshot()
	s.Equal(4, snap.Samples)
	s.InDelta(25, snap.Mean, 1e-9)
	s.Equal(40.0, snap.ThirdQuartile)
}

func TestTracker_ConcurrentReadersNeverSeeTornWindow(t *testing.T) {
	tracker := NewTracker()
	var wg sync.WaitGroup

	// every weight is 7, so any consistent window averages exactly 7
	for range 8 {
		wg.Go(func() {
			for range 500 {
				tracker.Observe(7)
			}
		})
	}
	for range 4 {
		wg.Go(func() {
			for range 500 {
				m := tracker.Mean()
				if m != 0 {
					assert.Equal(t, 7.0, m)
				}
				assert.LessOrEqual(t, len(tracker.Window()), WindowSize)
			}
		})
	}
	wg.Wait()

	require.Equal(t, 4000, tracker.Count())
	assert.Len(t, tracker.Window(), WindowSize)
}
