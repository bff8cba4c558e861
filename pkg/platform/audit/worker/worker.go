package worker

import (
	"context"
	"io"
	"log/slog"

	audit "portcall/pkg/platform/audit"
)

// Worker consumes port events from a channel and appends them to a store.
// A failing store is logged and skipped so one bad sink write does not stop
// the stream.
type Worker struct {
	store  audit.Store
	inbox  <-chan audit.Event
	logger *slog.Logger
}

func NewWorker(store audit.Store, inbox <-chan audit.Event, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Worker{store: store, inbox: inbox, logger: logger}
}

// Run drains until ctx ends. Events still buffered at that point are flushed
// with a background context before returning.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return ctx.Err()
		case event := <-w.inbox:
			w.append(ctx, event)
		}
	}
}

func (w *Worker) drain() {
	for {
		select {
		case event := <-w.inbox:
			w.append(context.Background(), event)
		default:
			return
		}
	}
}

func (w *Worker) append(ctx context.Context, event audit.Event) {
	if err := w.store.Append(ctx, event); err != nil {
		w.logger.WarnContext(ctx, "port event not stored",
			"event_type", event.Type,
			"vessel_id", event.VesselID,
			"error", err,
		)
	}
}
