package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"portcall/internal/inspection/authority"
	"portcall/internal/inspection/metrics"
	"portcall/internal/statistics"
	"portcall/internal/vessel/models"
	"portcall/pkg/platform/httputil"
	"portcall/pkg/platform/sentinel"
	"portcall/pkg/requestcontext"
)

// StatsSource provides the statistics each request is evaluated against.
type StatsSource interface {
	Snapshot() statistics.Snapshot
}

// Handler exposes regulatory authorities over HTTP.
type Handler struct {
	authorities map[string]authority.Evaluator
	stats       StatsSource
	homeCountry string
	logger      *slog.Logger
	metrics     *metrics.Metrics
}

// New constructs an authority handler. Authorities are addressed by Name().
func New(evaluators []authority.Evaluator, stats StatsSource, homeCountry string, logger *slog.Logger, metrics *metrics.Metrics) *Handler {
	byName := make(map[string]authority.Evaluator, len(evaluators))
	for _, ev := range evaluators {
		byName[ev.Name()] = ev
	}
	return &Handler{
		authorities: byName,
		stats:       stats,
		homeCountry: homeCountry,
		logger:      logger,
		metrics:     metrics,
	}
}

// Register mounts authority endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/authorities/{name}/evaluate", h.HandleEvaluate)
}

// HandleEvaluate handles POST /authorities/{name}/evaluate requests.
func (h *Handler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()
	name := chi.URLParam(r, "name")

	ev, ok := h.authorities[name]
	if !ok {
		httputil.WriteError(w, fmt.Errorf("authority %q: %w", name, sentinel.ErrNotFound))
		return
	}

	req, ok := httputil.DecodeAndPrepare[EvaluateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	vessel := req.Parsed(h.homeCountry)

	verdict, err := ev.Evaluate(ctx, vessel, h.stats.Snapshot())
	h.metrics.ObserveAuthorityLatency(name, time.Since(start))
	if err != nil {
		h.logger.ErrorContext(ctx, "authority evaluation failed",
			"request_id", requestID,
			"authority", name,
			"vessel_id", vessel.ID,
			"error", err,
		)
		writeEvaluateError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "authority evaluated vessel",
		"request_id", requestID,
		"authority", name,
		"vessel_id", vessel.ID,
		"verdict", verdict,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, EvaluateResponse{Verdict: string(verdict)})
}

func writeEvaluateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidVessel):
		httputil.WriteError(w, httputil.BadRequest("invalid vessel", err))
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		httputil.WriteError(w, fmt.Errorf("%w: %v", sentinel.ErrUnavailable, err))
	default:
		httputil.WriteError(w, err)
	}
}
