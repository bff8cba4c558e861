package portcall

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"golang.org/x/sync/errgroup"

	"portcall/internal/dock"
	"portcall/internal/inspection/coordinator"
	"portcall/internal/vessel/models"
	"portcall/pkg/platform/audit"
)

// Status is how a vessel's workflow ended.
type Status string

const (
	StatusDocked    Status = "docked"
	StatusDamaged   Status = "damaged"
	StatusLeft      Status = "left_when_full"
	StatusAbandoned Status = "abandoned"
)

// Result describes one completed workflow.
type Result struct {
	Vessel    models.Vessel
	Decision  coordinator.Decision
	Admission dock.Admission
	Status    Status
	// Evicted is set when the damage event on this vessel's docking request hit another vessel.
	Evicted *models.Vessel
	Err     error
}

// Recorder accepts weight observations.
type Recorder interface {
	Observe(weight float64)
}

// Inspector decides whether a vessel needs inspection.
type Inspector interface {
	Decide(ctx context.Context, vessel models.Vessel) (coordinator.Decision, error)
}

// Dock is the scheduler surface a workflow drives.
type Dock interface {
	RequestAdmission(vessel models.Vessel) dock.Admission
	Enqueue(vessel models.Vessel) error
	Admit(ctx context.Context, vessel models.Vessel) (dock.Outcome, error)
}

// DamageTrigger fires a damage event against the berths.
type DamageTrigger interface {
	Trigger() (models.Vessel, bool)
}

// Workflow carries one vessel from arrival to a berth.
type Workflow struct {
	stats         Recorder
	inspector     Inspector
	dock          Dock
	damage        DamageTrigger
	events        dock.EventPublisher
	leaveWhenFull bool
	logger        *slog.Logger
}

// NewWorkflow wires the workflow steps. events and damage may be nil.
func NewWorkflow(stats Recorder, inspector Inspector, d Dock, damage DamageTrigger, events dock.EventPublisher, leaveWhenFull bool, logger *slog.Logger) *Workflow {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Workflow{
		stats:         stats,
		inspector:     inspector,
		dock:          d,
		damage:        damage,
		events:        events,
		leaveWhenFull: leaveWhenFull,
		logger:        logger,
	}
}

// Handle records the arrival, runs inspection and the docking request
// concurrently, then queues the vessel and waits for a berth. Only ctx ending
// is returned as an error; every other ending is reported in the Result.
func (w *Workflow) Handle(ctx context.Context, vessel models.Vessel) (Result, error) {
	res := Result{Vessel: vessel}
	if err := vessel.Validate(); err != nil {
		return w.abandon(ctx, res, err), nil
	}

	w.stats.Observe(vessel.AverageWeight)
	w.publish(audit.EventVesselArrived, vessel.ID, vessel.Destination)

	var g errgroup.Group
	g.Go(func() error {
		d, err := w.inspector.Decide(ctx, vessel)
		if err != nil {
			return err
		}
		res.Decision = d
		return nil
	})
	g.Go(func() error {
		res.Admission = w.dock.RequestAdmission(vessel)
		if w.damage != nil {
			if evicted, hit := w.damage.Trigger(); hit {
				res.Evicted = &evicted
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, ctxErr
		}
		return w.abandon(ctx, res, err), nil
	}

	vessel.NeedsInspection = res.Decision.NeedsInspection
	res.Vessel = vessel
	w.publish(audit.EventInspectionDecided, vessel.ID, "needs_inspection="+strconv.FormatBool(vessel.NeedsInspection))

	if res.Admission == dock.AdmissionRejected && w.leaveWhenFull {
		res.Status = StatusLeft
		w.logger.InfoContext(ctx, "vessel left a full port", "vessel_id", vessel.ID)
		return res, nil
	}

	if err := w.dock.Enqueue(vessel); err != nil {
		return w.abandon(ctx, res, err), nil
	}
	outcome, err := w.dock.Admit(ctx, vessel)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, ctxErr
		}
		return w.abandon(ctx, res, err), nil
	}

	res.Status = StatusDocked
	if outcome == dock.OutcomeDamagedAndRemoved {
		res.Status = StatusDamaged
	}
	return res, nil
}

func (w *Workflow) abandon(ctx context.Context, res Result, err error) Result {
	res.Status = StatusAbandoned
	res.Err = err
	level := slog.LevelWarn
	if !errors.Is(err, models.ErrInvalidVessel) {
		level = slog.LevelError
	}
	w.logger.Log(ctx, level, "vessel workflow abandoned", "vessel_id", res.Vessel.ID, "error", err)
	w.publish(audit.EventWorkflowAbandoned, res.Vessel.ID, fmt.Sprint(err))
	return res
}

func (w *Workflow) publish(t audit.EventType, vesselID int64, detail string) {
	if w.events == nil {
		return
	}
	w.events.Publish(audit.Event{Type: t, VesselID: vesselID, Slot: audit.NoSlot, Detail: detail})
}
