// Package portcall assembles the port from configuration and runs vessel
// workflows against it.
package portcall

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"portcall/internal/dock"
	dockmetrics "portcall/internal/dock/metrics"
	"portcall/internal/inspection/authority"
	"portcall/internal/inspection/coordinator"
	inspectionmetrics "portcall/internal/inspection/metrics"
	"portcall/internal/platform/config"
	"portcall/internal/platform/random"
	"portcall/internal/statistics"
	"portcall/internal/vessel/models"
	"portcall/pkg/platform/audit"
	"portcall/pkg/platform/audit/store/memory"
	"portcall/pkg/platform/audit/worker"
)

const eventInboxSize = 4096

// Port holds every component of one running port.
type Port struct {
	Config      config.Config
	Tracker     *statistics.Tracker
	Authorities []authority.Evaluator
	Coordinator *coordinator.Coordinator
	Scheduler   *dock.Scheduler
	Pool        *dock.WorkerPool
	Damage      *dock.DamageInjector
	Events      *audit.Publisher
	Generator   *Generator
	Workflow    *Workflow

	InspectionMetrics *inspectionmetrics.Metrics
	DockMetrics       *dockmetrics.Metrics

	eventWorker *worker.Worker
	logger      *slog.Logger
}

type options struct {
	logger      *slog.Logger
	registerer  prometheus.Registerer
	store       audit.Store
	authorities []authority.Evaluator
	sleep       func(ctx context.Context, d time.Duration) error
}

type Option func(*options)

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRegisterer registers port metrics on reg instead of a private registry.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

// WithEventStore sets where port events end up. The default keeps them in memory.
func WithEventStore(store audit.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithAuthorities replaces the in-process authorities, for example with remote clients.
func WithAuthorities(evaluators []authority.Evaluator) Option {
	return func(o *options) {
		o.authorities = evaluators
	}
}

// WithServiceSleep replaces the worker pool's service wait.
func WithServiceSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(o *options) {
		o.sleep = sleep
	}
}

// NewPort validates cfg and builds the port. Every random component gets its
// own fork of the configured seed; seed 0 seeds from the clock.
func NewPort(cfg config.Config, opts ...Option) (*Port, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	o := options{
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		registerer: prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.store == nil {
		o.store = memory.NewInMemoryStore()
	}

	var root random.Source = random.NewFromTime()
	if cfg.Seed != 0 {
		root = random.New(cfg.Seed)
	}

	p := &Port{
		Config:            cfg,
		Tracker:           statistics.NewTracker(),
		Events:            audit.NewPublisher(eventInboxSize),
		InspectionMetrics: inspectionmetrics.New(o.registerer),
		DockMetrics:       dockmetrics.New(o.registerer),
		logger:            o.logger,
	}
	p.Generator = NewGenerator(random.Fork(root), cfg.HomeCountry)

	p.Authorities = o.authorities
	if len(p.Authorities) == 0 {
		latencySrc := random.Fork(root)
		for _, ev := range authority.NewDefaultSet(p.Tracker, random.Fork(root)) {
			p.Authorities = append(p.Authorities,
				authority.WithLatency(ev, cfg.Scale(cfg.AuthorityLatencyMin), cfg.Scale(cfg.AuthorityLatencyMax), latencySrc))
		}
	}

	var err error
	p.Coordinator, err = coordinator.New(p.Authorities, p.Tracker, cfg.Scale(cfg.RoundTimeout),
		coordinator.WithLogger(o.logger),
		coordinator.WithMetrics(p.InspectionMetrics),
	)
	if err != nil {
		return nil, err
	}

	p.Scheduler, err = dock.NewScheduler(cfg.SlotCapacity, cfg.DamageProbability,
		dock.WithLogger(o.logger),
		dock.WithMetrics(p.DockMetrics),
		dock.WithRandom(random.Fork(root)),
		dock.WithEvents(p.Events),
	)
	if err != nil {
		return nil, err
	}

	poolOpts := []dock.PoolOption{
		dock.WithPoolLogger(o.logger),
		dock.WithPoolMetrics(p.DockMetrics),
		dock.WithPoolEvents(p.Events),
	}
	if o.sleep != nil {
		poolOpts = append(poolOpts, dock.WithSleep(o.sleep))
	}
	p.Pool, err = dock.NewWorkerPool(p.Scheduler, cfg.PoolSize(), cfg.Scale(cfg.BaseService), poolOpts...)
	if err != nil {
		return nil, err
	}

	p.Damage, err = dock.NewDamageInjector(p.Scheduler, cfg.DamageProbability, random.Fork(root), o.logger)
	if err != nil {
		return nil, err
	}

	p.Workflow = NewWorkflow(p.Tracker, p.Coordinator, p.Scheduler, p.Damage, p.Events, cfg.LeaveWhenFull, o.logger)
	p.eventWorker = worker.NewWorker(o.store, p.Events.Inbox(), o.logger)
	return p, nil
}

// Handle runs one vessel's workflow.
func (p *Port) Handle(ctx context.Context, vessel models.Vessel) (Result, error) {
	return p.Workflow.Handle(ctx, vessel)
}

// RunBackground runs the slot workers and the event worker until ctx ends.
func (p *Port) RunBackground(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return p.Pool.Run(ctx)
	})
	g.Go(func() error {
		if err := p.eventWorker.Run(ctx); err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	})
	return g.Wait()
}
