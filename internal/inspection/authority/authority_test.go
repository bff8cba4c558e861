package authority

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portcall/internal/platform/random"
	"portcall/internal/statistics"
	"portcall/internal/vessel/models"
)

func conventional(weight float64, destination string) models.Vessel {
	return models.Vessel{ID: 1, Class: models.ClassConventional, AverageWeight: weight, Destination: destination}
}

func panamax(weight float64, destination string) models.Vessel {
	return models.Vessel{ID: 2, Class: models.ClassPanamax, AverageWeight: weight, Destination: destination}
}

func TestWeightAuthority(t *testing.T) {
	a := NewWeightAuthority()
	stats := statistics.Snapshot{Mean: 50000}
	ctx := context.Background()

	cases := []struct {
		name   string
		vessel models.Vessel
		want   Verdict
	}{
		{"heavy conventional home", conventional(60000, "Ecuador"), VerdictCheck},
		{"equal to mean passes", conventional(50000, "Ecuador"), VerdictPass},
		{"light conventional home", conventional(40000, "Ecuador"), VerdictPass},
		{"heavy conventional foreign", conventional(60000, "USA"), VerdictPass},
		{"heavy panamax home", panamax(60000, "Ecuador"), VerdictPass},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := a.Evaluate(ctx, tc.vessel, stats)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestQuartileAuthority(t *testing.T) {
	ctx := context.Background()
	stats := statistics.Snapshot{ThirdQuartile: 70000}

	cases := []struct {
		name   string
		vessel models.Vessel
		want   Verdict
	}{
		{"panamax at quartile abroad", panamax(70000, "Europe"), VerdictCheck},
		{"panamax above quartile abroad", panamax(90000, "USA"), VerdictCheck},
		{"panamax below quartile", panamax(69999, "USA"), VerdictPass},
		{"panamax home", panamax(90000, "Ecuador"), VerdictPass},
		{"conventional abroad", conventional(90000, "USA"), VerdictPass},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := NewQuartileAuthority(nil)
			got, err := a.Evaluate(ctx, tc.vessel, stats)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	t.Run("records weight on every evaluation", func(t *testing.T) {
		tracker := statistics.NewTracker()
		a := NewQuartileAuthority(tracker)

		_, err := a.Evaluate(ctx, panamax(90000, "USA"), stats)
		require.NoError(t, err)
		_, err = a.Evaluate(ctx, conventional(30000, "Ecuador"), stats)
		require.NoError(t, err)

		assert.Equal(t, 2, tracker.Count())
		assert.Equal(t, []float64{90000, 30000}, tracker.Window())
	})
}

func TestRandomAuthority(t *testing.T) {
	ctx := context.Background()

	t.Run("conventional threshold is 0.3", func(t *testing.T) {
		got, _ := NewRandomAuthority(random.Fixed(0.29)).Evaluate(ctx, conventional(1, "USA"), statistics.Snapshot{})
		assert.Equal(t, VerdictCheck, got)
		got, _ = NewRandomAuthority(random.Fixed(0.3)).Evaluate(ctx, conventional(1, "USA"), statistics.Snapshot{})
		assert.Equal(t, VerdictPass, got)
	})

	t.Run("panamax threshold is 0.5", func(t *testing.T) {
		got, _ := NewRandomAuthority(random.Fixed(0.49)).Evaluate(ctx, panamax(1, "USA"), statistics.Snapshot{})
		assert.Equal(t, VerdictCheck, got)
		got, _ = NewRandomAuthority(random.Fixed(0.5)).Evaluate(ctx, panamax(1, "USA"), statistics.Snapshot{})
		assert.Equal(t, VerdictPass, got)
	})

	t.Run("seeded source is reproducible", func(t *testing.T) {
		a := NewRandomAuthority(random.New(42))
		b := NewRandomAuthority(random.New(42))
		for range 50 {
			va, _ := a.Evaluate(ctx, panamax(1, "USA"), statistics.Snapshot{})
			vb, _ := b.Evaluate(ctx, panamax(1, "USA"), statistics.Snapshot{})
			require.Equal(t, va, vb)
		}
	})
}

func TestWithLatency(t *testing.T) {
	t.Run("delays the answer", func(t *testing.T) {
		ev := WithLatency(NewWeightAuthority(), 20*time.Millisecond, 20*time.Millisecond, random.Fixed(0))
		start := time.Now()
		got, err := ev.Evaluate(context.Background(), conventional(1, "USA"), statistics.Snapshot{})
		require.NoError(t, err)
		assert.Equal(t, VerdictPass, got)
		assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
		assert.Equal(t, NameWeight, ev.Name())
	})

	t.Run("honors cancellation", func(t *testing.T) {
		ev := WithLatency(NewWeightAuthority(), time.Hour, time.Hour, random.Fixed(0))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := ev.Evaluate(ctx, conventional(1, "USA"), statistics.Snapshot{})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestNewDefaultSet(t *testing.T) {
	set := NewDefaultSet(statistics.NewTracker(), random.Fixed(0.9))
	require.Len(t, set, 3)
	assert.Equal(t, []string{NameWeight, NameQuartile, NameRandom},
		[]string{set[0].Name(), set[1].Name(), set[2].Name()})
}
