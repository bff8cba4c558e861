package handler

import (
	"time"

	"portcall/internal/dock"
	"portcall/internal/vessel/models"
)

// AdmissionResponse is the HTTP response for POST /dock/requests.
type AdmissionResponse struct {
	Admission       string `json:"admission"`
	EvictedVesselID *int64 `json:"evictedVesselId,omitempty"`
}

// OutcomeResponse is the HTTP response for POST /dock/admissions.
type OutcomeResponse struct {
	Outcome string `json:"outcome"`
}

// BerthsResponse is the HTTP response for GET /dock/berths.
type BerthsResponse struct {
	Capacity    int            `json:"capacity"`
	Occupied    int            `json:"occupied"`
	QueueLength int            `json:"queueLength"`
	Queue       []int64        `json:"queue"`
	Slots       []SlotResponse `json:"slots"`
}

type SlotResponse struct {
	Index              int            `json:"index"`
	Occupied           bool           `json:"occupied"`
	Vessel             *models.Record `json:"vessel,omitempty"`
	AdmittedAt         *time.Time     `json:"admittedAt,omitempty"`
	ScheduledReleaseAt *time.Time     `json:"scheduledReleaseAt,omitempty"`
}

// FromState converts a scheduler snapshot to an HTTP response.
func FromState(capacity int, slots []dock.Slot, queue []models.Vessel) *BerthsResponse {
	resp := &BerthsResponse{
		Capacity:    capacity,
		QueueLength: len(queue),
		Queue:       make([]int64, 0, len(queue)),
		Slots:       make([]SlotResponse, 0, len(slots)),
	}
	for _, v := range queue {
		resp.Queue = append(resp.Queue, v.ID)
	}
	for _, s := range slots {
		out := SlotResponse{Index: s.Index, Occupied: s.Occupied}
		if s.Occupied {
			resp.Occupied++
			record := models.ToRecord(s.Occupant)
			admitted := s.AdmittedAt
			out.Vessel = &record
			out.AdmittedAt = &admitted
			if s.Scheduled() {
				release := s.ScheduledReleaseAt
				out.ScheduledReleaseAt = &release
			}
		}
		resp.Slots = append(resp.Slots, out)
	}
	return resp
}
