package audit

import (
	"context"
	"time"
)

// EventType names a transition in a vessel's workflow.
type EventType string

const (
	EventVesselArrived     EventType = "vessel_arrived"
	EventInspectionDecided EventType = "inspection_decided"
	EventAdmissionRejected EventType = "admission_rejected"
	EventVesselDocked      EventType = "vessel_docked"
	EventVesselDamaged     EventType = "vessel_damaged"
	EventServiceStarted    EventType = "service_started"
	EventVesselReleased    EventType = "vessel_released"
	EventVesselEvicted     EventType = "vessel_evicted"
	EventWorkflowAbandoned EventType = "workflow_abandoned"
)

// NoSlot marks events that do not concern a berth.
const NoSlot = -1

// Event is emitted from the workflow, scheduler and workers. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID       string    `json:"id"`
	Type     EventType `json:"type"`
	VesselID int64     `json:"vesselId"`
	Slot     int       `json:"slot"`
	At       time.Time `json:"at"`
	Detail   string    `json:"detail,omitempty"`
}

// Store persists or forwards events drained by the worker.
type Store interface {
	Append(ctx context.Context, event Event) error
}
