// Package coordinator runs evaluation rounds across all regulatory authorities
// and turns their verdicts into a single inspection decision.
//
// A round fans out one call per authority against a fresh statistics snapshot
// and waits for every verdict until an absolute deadline. If any verdict is
// missing at the deadline the whole round is discarded and started again. The
// retry loop is unbounded: a persistently slow authority keeps the caller
// waiting until its context ends. A round in which an authority fails is also
// discarded, but only once its deadline passes. Calls from an abandoned round
// are not cancelled; they finish in the background and their verdicts are dropped.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"portcall/internal/inspection/authority"
	"portcall/internal/inspection/metrics"
	"portcall/internal/statistics"
	"portcall/internal/vessel/models"
)

const tracerName = "portcall/internal/inspection/coordinator"

// ErrRoundTimeout reports a round in which at least one authority missed the deadline.
var ErrRoundTimeout = errors.New("evaluation round timed out")

// StatsSource provides the statistics snapshot each round evaluates against.
type StatsSource interface {
	Snapshot() statistics.Snapshot
}

// Decision is the outcome of the round that completed.
type Decision struct {
	NeedsInspection bool
	Checks          int
	Rounds          int
	Verdicts        map[string]authority.Verdict
}

// Coordinator evaluates vessels against a fixed set of authorities.
type Coordinator struct {
	evaluators []authority.Evaluator
	stats      StatsSource
	timeout    time.Duration
	logger     *slog.Logger
	metrics    *metrics.Metrics
	tracer     trace.Tracer
}

type Option func(*Coordinator)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Coordinator) {
		c.metrics = m
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(c *Coordinator) {
		c.tracer = tracer
	}
}

// New builds a coordinator. timeout bounds a single round, not the whole evaluation.
func New(evaluators []authority.Evaluator, stats StatsSource, timeout time.Duration, opts ...Option) (*Coordinator, error) {
	if len(evaluators) == 0 {
		return nil, fmt.Errorf("at least one evaluator is required")
	}
	if stats == nil {
		return nil, fmt.Errorf("statistics source is required")
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("round timeout must be positive, got %s", timeout)
	}

	c := &Coordinator{
		evaluators: evaluators,
		stats:      stats,
		timeout:    timeout,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		tracer:     otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Evaluate reports whether a majority of authorities asked for an inspection.
func (c *Coordinator) Evaluate(ctx context.Context, vessel models.Vessel) (bool, error) {
	d, err := c.Decide(ctx, vessel)
	if err != nil {
		return false, err
	}
	return d.NeedsInspection, nil
}

// Decide runs rounds until one completes and returns its decision. It only
// fails for an invalid vessel, a non-retryable authority error, or ctx ending.
func (c *Coordinator) Decide(ctx context.Context, vessel models.Vessel) (Decision, error) {
	if err := vessel.Validate(); err != nil {
		return Decision{}, err
	}

	start := time.Now()
	defer func() { c.metrics.ObserveEvaluateLatency(time.Since(start)) }()

	for round := 1; ; round++ {
		if err := ctx.Err(); err != nil {
			return Decision{}, err
		}

		verdicts, err := c.runRound(ctx, vessel, round)
		if err == nil {
			d := decide(verdicts, round)
			c.metrics.IncrementRound("completed")
			c.metrics.IncrementDecision(d.NeedsInspection)
			c.logger.InfoContext(ctx, "inspection decided",
				"vessel_id", vessel.ID,
				"needs_inspection", d.NeedsInspection,
				"checks", d.Checks,
				"rounds", round,
			)
			return d, nil
		}

		switch {
		case ctx.Err() != nil:
			return Decision{}, ctx.Err()
		case errors.Is(err, models.ErrInvalidVessel):
			c.metrics.IncrementRound("error")
			return Decision{}, err
		case errors.Is(err, ErrRoundTimeout):
			c.metrics.IncrementRound("timeout")
		default:
			c.metrics.IncrementRound("error")
		}
		c.logger.WarnContext(ctx, "evaluation round abandoned, retrying",
			"vessel_id", vessel.ID,
			"round", round,
			"error", err,
		)
	}
}

type verdictResult struct {
	index   int
	name    string
	verdict authority.Verdict
	err     error
}

func (c *Coordinator) runRound(ctx context.Context, vessel models.Vessel, round int) ([]verdictResult, error) {
	roundID := uuid.NewString()
	ctx, span := c.tracer.Start(ctx, "inspection.round", trace.WithAttributes(
		attribute.String("round.id", roundID),
		attribute.Int("round.number", round),
		attribute.Int64("vessel.id", vessel.ID),
	))
	defer span.End()

	snapshot := c.stats.Snapshot()
	deadline := time.NewTimer(c.timeout)
	defer deadline.Stop()

	// Buffered so calls from an abandoned round can still deliver and exit.
	results := make(chan verdictResult, len(c.evaluators))
	for i, ev := range c.evaluators {
		go func() {
			callStart := time.Now()
			verdict, err := ev.Evaluate(ctx, vessel, snapshot)
			c.metrics.ObserveAuthorityLatency(ev.Name(), time.Since(callStart))
			results <- verdictResult{index: i, name: ev.Name(), verdict: verdict, err: err}
		}()
	}

	collected := make([]verdictResult, len(c.evaluators))
	var failed error
	for range c.evaluators {
		select {
		case r := <-results:
			switch {
			case errors.Is(r.err, models.ErrInvalidVessel):
				span.SetStatus(codes.Error, r.err.Error())
				return nil, fmt.Errorf("authority %s: %w", r.name, r.err)
			case r.err != nil:
				failed = errors.Join(failed, fmt.Errorf("authority %s: %w", r.name, r.err))
			case !r.verdict.IsValid():
				failed = errors.Join(failed, fmt.Errorf("authority %s returned verdict %q", r.name, r.verdict))
			default:
				collected[r.index] = r
			}
		case <-deadline.C:
			if failed != nil {
				span.SetStatus(codes.Error, failed.Error())
				return nil, fmt.Errorf("round %s: %w", roundID, failed)
			}
			span.SetStatus(codes.Error, ErrRoundTimeout.Error())
			return nil, fmt.Errorf("round %s: %w after %s", roundID, ErrRoundTimeout, c.timeout)
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if failed == nil {
		return collected, nil
	}

	// A failed round still ends at its deadline, so retries run at most once per timeout.
	span.SetStatus(codes.Error, failed.Error())
	select {
	case <-deadline.C:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return nil, fmt.Errorf("round %s: %w", roundID, failed)
}

func decide(results []verdictResult, rounds int) Decision {
	checks := 0
	verdicts := make(map[string]authority.Verdict, len(results))
	for _, r := range results {
		verdicts[r.name] = r.verdict
		if r.verdict == authority.VerdictCheck {
			checks++
		}
	}
	return Decision{
		NeedsInspection: checks >= 2,
		Checks:          checks,
		Rounds:          rounds,
		Verdicts:        verdicts,
	}
}
