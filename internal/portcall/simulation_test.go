package portcall

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portcall/internal/inspection/authority"
	"portcall/internal/platform/config"
	"portcall/internal/statistics"
	"portcall/internal/vessel/models"
	"portcall/pkg/platform/audit"
	"portcall/pkg/platform/audit/store/memory"
)

type passAll string

func (p passAll) Name() string { return string(p) }

func (p passAll) Evaluate(context.Context, models.Vessel, statistics.Snapshot) (authority.Verdict, error) {
	return authority.VerdictPass, nil
}

func fastConfig() config.Config {
	cfg := config.Default()
	cfg.TimeUnit = 10 * time.Millisecond
	cfg.Seed = 7
	cfg.VesselCount = 12
	cfg.SlotCapacity = 2
	return cfg
}

func TestSimulate_ServesEveryVessel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store := memory.NewInMemoryStore()
	reg := prometheus.NewRegistry()
	port, err := NewPort(fastConfig(), WithEventStore(store), WithRegisterer(reg))
	require.NoError(t, err)

	report, err := Simulate(ctx, port)
	require.NoError(t, err)

	assert.Equal(t, 12, report.Arrived)
	assert.Equal(t, 12, report.Docked+report.DamagedOnApproach)
	assert.Zero(t, report.Abandoned)
	assert.GreaterOrEqual(t, report.Rounds, 12)
	assert.Len(t, report.Results, 12)
	assert.Zero(t, port.Scheduler.Occupied())
	assert.Empty(t, port.Scheduler.Queue())

	// Arrivals and quartile evaluations both feed the tracker.
	assert.GreaterOrEqual(t, port.Tracker.Count(), 24)

	counts := store.CountByType(ctx)
	assert.Equal(t, 12, counts[audit.EventVesselArrived])
	assert.Equal(t, 12, counts[audit.EventInspectionDecided])
	assert.Equal(t, report.Docked, counts[audit.EventVesselDocked])
	assert.Equal(t, report.DamagedOnApproach, counts[audit.EventVesselDamaged])
	assert.Equal(t, counts[audit.EventVesselDocked], counts[audit.EventVesselReleased]+counts[audit.EventVesselEvicted])

	assert.Equal(t, float64(report.Docked), testutil.ToFloat64(port.DockMetrics.Outcomes.WithLabelValues("DOCKED")))
}

func TestSimulate_LeaveWhenFull(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cfg := config.Default()
	cfg.TimeUnit = time.Millisecond
	cfg.SlotCapacity = 1
	cfg.DamageProbability = 0
	cfg.ArrivalInterval = 20 * time.Second
	cfg.BaseService = 400 * time.Second
	cfg.LeaveWhenFull = true

	port, err := NewPort(cfg, WithAuthorities([]authority.Evaluator{passAll("a"), passAll("b"), passAll("c")}))
	require.NoError(t, err)

	vessels := []models.Vessel{
		{ID: 0, Class: models.ClassConventional, AverageWeight: 60000, Destination: "USA", HomeCountry: "Ecuador"},
		{ID: 1, Class: models.ClassConventional, AverageWeight: 60000, Destination: "USA", HomeCountry: "Ecuador"},
		{ID: 2, Class: models.ClassPanamax, AverageWeight: 60000, Destination: "Ecuador", HomeCountry: "Ecuador"},
	}
	report, err := SimulateVessels(ctx, port, vessels)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Docked)
	assert.Equal(t, 2, report.LeftWhenFull)
	assert.Equal(t, 2, report.RejectedRequests)
}

func TestSimulate_CancellationStopsRun(t *testing.T) {
	cfg := fastConfig()
	cfg.VesselCount = 50
	cfg.TimeUnit = time.Second
	port, err := NewPort(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := Simulate(ctx, port)
		done <- err
	}()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(5 * time.Second):
		t.Fatal("simulation ignored cancellation")
	}
}

func TestNewPort_RejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.DamageProbability = 2
	_, err := NewPort(cfg)
	assert.Error(t, err)
}
