package dock

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"portcall/internal/dock/metrics"
	"portcall/internal/vessel/models"
	"portcall/pkg/platform/audit"
)

// ServiceDuration is the unloading time for a vessel: base, halved for foreign
// destinations, then doubled when an inspection is required.
func ServiceDuration(base time.Duration, v models.Vessel) time.Duration {
	d := base
	if v.IsForeign() {
		d /= 2
	}
	if v.NeedsInspection {
		d *= 2
	}
	return d
}

// WorkerPool services docked vessels and frees their berths when done.
type WorkerPool struct {
	scheduler *Scheduler
	size      int
	base      time.Duration
	logger    *slog.Logger
	metrics   *metrics.Metrics
	events    EventPublisher
	sleep     func(ctx context.Context, d time.Duration) error
}

type PoolOption func(*WorkerPool)

func WithPoolLogger(logger *slog.Logger) PoolOption {
	return func(p *WorkerPool) {
		p.logger = logger
	}
}

func WithPoolMetrics(m *metrics.Metrics) PoolOption {
	return func(p *WorkerPool) {
		p.metrics = m
	}
}

func WithPoolEvents(events EventPublisher) PoolOption {
	return func(p *WorkerPool) {
		p.events = events
	}
}

// WithSleep replaces the service wait, e.g. to scale simulated seconds.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) PoolOption {
	return func(p *WorkerPool) {
		p.sleep = sleep
	}
}

// NewWorkerPool creates size workers servicing berths of scheduler with the
// given base unloading duration.
func NewWorkerPool(scheduler *Scheduler, size int, base time.Duration, opts ...PoolOption) (*WorkerPool, error) {
	if scheduler == nil {
		return nil, fmt.Errorf("scheduler is required")
	}
	if size < 1 {
		return nil, fmt.Errorf("worker pool size must be at least 1, got %d", size)
	}
	if base < 0 {
		return nil, fmt.Errorf("base service duration must not be negative, got %s", base)
	}

	p := &WorkerPool{
		scheduler: scheduler,
		size:      size,
		base:      base,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		sleep:     Sleep,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Run starts the workers and blocks until ctx ends.
func (p *WorkerPool) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for id := range p.size {
		g.Go(func() error {
			return p.work(ctx, id)
		})
	}
	err := g.Wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

func (p *WorkerPool) work(ctx context.Context, worker int) error {
	duration := func(v models.Vessel) time.Duration { return ServiceDuration(p.base, v) }
	for {
		slot, err := p.scheduler.claimNext(ctx, duration)
		if err != nil {
			return err
		}

		vessel := slot.Occupant
		d := slot.ScheduledReleaseAt.Sub(slot.AdmittedAt)
		p.metrics.ObserveServiceDuration(d)
		if p.events != nil {
			p.events.Publish(audit.Event{
				Type:     audit.EventServiceStarted,
				VesselID: vessel.ID,
				Slot:     slot.Index,
				Detail:   d.String(),
			})
		}
		p.logger.InfoContext(ctx, "unloading started",
			"worker", worker,
			"vessel_id", vessel.ID,
			"slot", slot.Index,
			"duration", d,
		)

		if err := p.sleep(ctx, d); err != nil {
			return err
		}

		if !p.scheduler.releaseClaimed(slot) {
			p.logger.InfoContext(ctx, "vessel left its berth before unloading finished",
				"worker", worker,
				"vessel_id", vessel.ID,
			)
		}
	}
}

// Sleep waits for d or until ctx ends.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
