package dock

import (
	"time"

	"portcall/internal/vessel/models"
)

// Slot is a copy of one berth's state.
type Slot struct {
	Index              int
	Occupied           bool
	Occupant           models.Vessel
	AdmittedAt         time.Time
	ScheduledReleaseAt time.Time
	// Generation identifies one occupancy; every occupy hands out a new one.
	Generation uint64
}

// Scheduled reports whether a worker has claimed the slot for service.
func (s Slot) Scheduled() bool {
	return !s.ScheduledReleaseAt.IsZero()
}

// berthTable is a fixed arena of slots indexed 0..capacity-1. Vessels are
// stored by value so an occupancy cycle allocates nothing. The scheduler guards it.
type berthTable struct {
	slots      []Slot
	occupied   int
	generation uint64
}

func newBerthTable(capacity int) *berthTable {
	slots := make([]Slot, capacity)
	for i := range slots {
		slots[i].Index = i
	}
	return &berthTable{slots: slots}
}

func (t *berthTable) capacity() int {
	return len(t.slots)
}

func (t *berthTable) hasFree() bool {
	return t.occupied < len(t.slots)
}

// occupy places v in the first free slot. Callers check hasFree first.
func (t *berthTable) occupy(v models.Vessel, now time.Time) int {
	for i := range t.slots {
		if t.slots[i].Occupied {
			continue
		}
		t.generation++
		t.slots[i] = Slot{Index: i, Occupied: true, Occupant: v, AdmittedAt: now, Generation: t.generation}
		t.occupied++
		return i
	}
	return -1
}

// free clears slot i back to the empty state.
func (t *berthTable) free(i int) models.Vessel {
	v := t.slots[i].Occupant
	t.slots[i] = Slot{Index: i}
	t.occupied--
	return v
}

func (t *berthTable) indexOf(id int64) int {
	for i := range t.slots {
		if t.slots[i].Occupied && t.slots[i].Occupant.ID == id {
			return i
		}
	}
	return -1
}

// holds reports whether slot i still has the occupancy claimed.
func (t *berthTable) holds(claimed Slot) bool {
	if claimed.Index < 0 || claimed.Index >= len(t.slots) {
		return false
	}
	s := t.slots[claimed.Index]
	return s.Occupied && s.Generation == claimed.Generation
}

func (t *berthTable) firstOccupied() int {
	for i := range t.slots {
		if t.slots[i].Occupied {
			return i
		}
	}
	return -1
}

// nextUnscheduled picks a docked vessel no worker has claimed yet, preferring
// priority vessels. It returns -1 if every occupied slot is already claimed.
func (t *berthTable) nextUnscheduled() int {
	fallback := -1
	for i := range t.slots {
		s := &t.slots[i]
		if !s.Occupied || s.Scheduled() {
			continue
		}
		if s.Occupant.IsPriority() {
			return i
		}
		if fallback < 0 {
			fallback = i
		}
	}
	return fallback
}

func (t *berthTable) snapshot() []Slot {
	out := make([]Slot, len(t.slots))
	copy(out, t.slots)
	return out
}
