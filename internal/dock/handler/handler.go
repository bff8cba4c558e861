package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"portcall/internal/dock"
	"portcall/internal/vessel/models"
	"portcall/pkg/platform/httputil"
	"portcall/pkg/requestcontext"
)

// Scheduler defines the dock operations exposed over HTTP. *dock.Scheduler satisfies it.
type Scheduler interface {
	RequestAdmission(vessel models.Vessel) dock.Admission
	Enqueue(vessel models.Vessel) error
	Admit(ctx context.Context, vessel models.Vessel) (dock.Outcome, error)
	Berths() []dock.Slot
	Queue() []models.Vessel
	Capacity() int
}

// DamageTrigger fires a damage event. *dock.DamageInjector satisfies it.
type DamageTrigger interface {
	Trigger() (models.Vessel, bool)
}

// Handler wires dock endpoints to the scheduler.
type Handler struct {
	scheduler   Scheduler
	damage      DamageTrigger
	homeCountry string
	logger      *slog.Logger
}

// New constructs a dock handler. damage may be nil, in which case docking
// requests never trigger damage events.
func New(scheduler Scheduler, damage DamageTrigger, homeCountry string, logger *slog.Logger) *Handler {
	return &Handler{
		scheduler:   scheduler,
		damage:      damage,
		homeCountry: homeCountry,
		logger:      logger,
	}
}

// Register mounts dock endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/dock", func(r chi.Router) {
		r.Post("/requests", h.HandleRequest)
		r.Post("/admissions", h.HandleAdmission)
		r.Get("/berths", h.HandleBerths)
	})
}

// HandleRequest handles POST /dock/requests: an immediate capacity check that
// may also set off a damage event.
func (h *Handler) HandleRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[VesselRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	vessel := req.Parsed(h.homeCountry)

	admission := h.scheduler.RequestAdmission(vessel)
	resp := AdmissionResponse{Admission: string(admission)}
	if h.damage != nil {
		if evicted, hit := h.damage.Trigger(); hit {
			resp.EvictedVesselID = &evicted.ID
		}
	}

	h.logger.InfoContext(ctx, "docking requested",
		"request_id", requestID,
		"vessel_id", vessel.ID,
		"admission", admission,
	)
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleAdmission handles POST /dock/admissions: enqueue, then block until the
// vessel docks or is damaged on approach. A client that disconnects leaves the queue.
func (h *Handler) HandleAdmission(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := requestcontext.Now(ctx)

	req, ok := httputil.DecodeAndPrepare[VesselRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	vessel := req.Parsed(h.homeCountry)

	if err := h.scheduler.Enqueue(vessel); err != nil {
		h.writeSchedulerError(ctx, w, requestID, vessel.ID, err)
		return
	}
	outcome, err := h.scheduler.Admit(ctx, vessel)
	if err != nil {
		h.writeSchedulerError(ctx, w, requestID, vessel.ID, err)
		return
	}

	h.logger.InfoContext(ctx, "admission completed",
		"request_id", requestID,
		"vessel_id", vessel.ID,
		"outcome", outcome,
		"waited_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, OutcomeResponse{Outcome: string(outcome)})
}

// HandleBerths handles GET /dock/berths.
func (h *Handler) HandleBerths(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, FromState(h.scheduler.Capacity(), h.scheduler.Berths(), h.scheduler.Queue()))
}

func (h *Handler) writeSchedulerError(ctx context.Context, w http.ResponseWriter, requestID string, vesselID int64, err error) {
	level := slog.LevelError
	if errors.Is(err, context.Canceled) {
		level = slog.LevelInfo
	}
	h.logger.Log(ctx, level, "admission failed",
		"request_id", requestID,
		"vessel_id", vesselID,
		"error", err,
	)
	if errors.Is(err, models.ErrInvalidVessel) {
		err = httputil.BadRequest("invalid vessel", err)
	}
	httputil.WriteError(w, err)
}
