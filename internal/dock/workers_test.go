package dock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portcall/internal/dock/metrics"
	"portcall/internal/platform/random"
	"portcall/internal/vessel/models"
)

func TestServiceDuration(t *testing.T) {
	base := 10 * time.Second
	cases := []struct {
		name   string
		vessel models.Vessel
		want   time.Duration
	}{
		{"foreign without inspection", vessel(1, "USA", false), 5 * time.Second},
		{"home with inspection", vessel(2, "Ecuador", true), 20 * time.Second},
		{"foreign with inspection", vessel(3, "Europe", true), 10 * time.Second},
		{"home without inspection", vessel(4, "Ecuador", false), 10 * time.Second},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ServiceDuration(base, tc.vessel))
		})
	}
}

func TestNewWorkerPool_Validation(t *testing.T) {
	sched, err := NewScheduler(1, 0)
	require.NoError(t, err)

	_, err = NewWorkerPool(nil, 1, time.Second)
	assert.Error(t, err)
	_, err = NewWorkerPool(sched, 0, time.Second)
	assert.Error(t, err)
	_, err = NewWorkerPool(sched, 1, -time.Second)
	assert.Error(t, err)
}

// recordingSleep captures requested durations without waiting.
type recordingSleep struct {
	mu        sync.Mutex
	durations []time.Duration
}

func (r *recordingSleep) sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	r.durations = append(r.durations, d)
	r.mu.Unlock()
	return ctx.Err()
}

func TestWorkerPool_ServicesAndReleases(t *testing.T) {
	ctx := context.Background()
	sched, err := NewScheduler(2, 0, WithRandom(random.Fixed(0.5)))
	require.NoError(t, err)

	rec := &recordingSleep{}
	m := metrics.New(prometheus.NewRegistry())
	pool, err := NewWorkerPool(sched, 2, 10*time.Second, WithSleep(rec.sleep), WithPoolMetrics(m))
	require.NoError(t, err)

	for _, v := range []models.Vessel{vessel(1, "USA", false), vessel(2, "Ecuador", true)} {
		require.NoError(t, sched.Enqueue(v))
		_, err := sched.Admit(ctx, v)
		require.NoError(t, err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- pool.Run(runCtx) }()

	waitCtx, waitCancel := context.WithTimeout(ctx, time.Second)
	defer waitCancel()
	require.NoError(t, sched.WaitIdle(waitCtx))
	cancel()
	assert.NoError(t, <-done, "cancellation is a clean shutdown")

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.ElementsMatch(t, []time.Duration{5 * time.Second, 20 * time.Second}, rec.durations)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Releases))
}

func TestWorkerPool_EvictedVesselIsNotReleasedTwice(t *testing.T) {
	ctx := context.Background()
	sched, err := NewScheduler(1, 0, WithRandom(random.Fixed(0.5)))
	require.NoError(t, err)

	started := make(chan struct{})
	proceed := make(chan struct{})
	var calls atomic.Int32
	pool, err := NewWorkerPool(sched, 1, time.Second, WithSleep(func(ctx context.Context, _ time.Duration) error {
		if calls.Add(1) == 1 {
			close(started)
			select {
			case <-proceed:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		<-ctx.Done()
		return ctx.Err()
	}))
	require.NoError(t, err)

	v := vessel(1, "USA", false)
	require.NoError(t, sched.Enqueue(v))
	_, err = sched.Admit(ctx, v)
	require.NoError(t, err)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() { _ = pool.Run(runCtx) }()

	<-started
	evicted, ok := sched.Evict()
	require.True(t, ok)
	assert.Equal(t, v.ID, evicted.ID)

	// A new vessel takes the freed berth before the worker wakes up.
	next := vessel(2, "USA", false)
	require.NoError(t, sched.Enqueue(next))
	_, err = sched.Admit(ctx, next)
	require.NoError(t, err)

	close(proceed)
	// The worker finishes the stale service, then claims the new occupant.
	assert.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, 5*time.Millisecond)
	berths := sched.Berths()
	assert.Equal(t, 1, sched.Occupied())
	assert.Equal(t, next.ID, berths[0].Occupant.ID, "the stale release must not free the new occupant")
	assert.True(t, berths[0].Scheduled())
}

func TestSleep(t *testing.T) {
	assert.NoError(t, Sleep(context.Background(), time.Millisecond))
	assert.NoError(t, Sleep(context.Background(), 0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Sleep(ctx, time.Hour), context.Canceled)
}
