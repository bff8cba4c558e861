package audit

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"portcall/pkg/platform/circuit"
	"portcall/pkg/platform/sentinel"
)

// Guarded stops calling an unhealthy store until its breaker lets a probe
// through. Events refused while the breaker is open are counted and lost.
type Guarded struct {
	store   Store
	breaker *circuit.Breaker
	logger  *slog.Logger
	skipped atomic.Int64
}

func NewGuarded(store Store, breaker *circuit.Breaker, logger *slog.Logger) *Guarded {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Guarded{store: store, breaker: breaker, logger: logger}
}

func (g *Guarded) Append(ctx context.Context, event Event) error {
	if !g.breaker.Allow() {
		g.skipped.Add(1)
		return fmt.Errorf("event sink %s: circuit open: %w", g.breaker.Name(), sentinel.ErrUnavailable)
	}

	if err := g.store.Append(ctx, event); err != nil {
		if _, change := g.breaker.RecordFailure(); change.Opened {
			g.logger.WarnContext(ctx, "event sink circuit opened", "sink", g.breaker.Name(), "error", err)
		}
		return err
	}
	if _, change := g.breaker.RecordSuccess(); change.Closed {
		g.logger.InfoContext(ctx, "event sink circuit closed", "sink", g.breaker.Name())
	}
	return nil
}

// Skipped returns the number of events refused while the breaker was open.
func (g *Guarded) Skipped() int64 {
	return g.skipped.Load()
}
