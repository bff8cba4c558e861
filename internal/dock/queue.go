package dock

import (
	"slices"

	"portcall/internal/vessel/models"
)

// dockingQueue is the waiting line in front of the berths. Priority vessels
// (needing inspection and bound abroad) form a front partition; each partition
// is first come, first served. Not safe for concurrent use; the scheduler
// guards it.
type dockingQueue struct {
	waiting []models.Vessel
	// priority is the length of the front partition.
	priority int
}

func (q *dockingQueue) push(v models.Vessel) {
	if !v.IsPriority() {
		q.waiting = append(q.waiting, v)
		return
	}
	q.waiting = slices.Insert(q.waiting, q.priority, v)
	q.priority++
}

func (q *dockingQueue) head() (models.Vessel, bool) {
	if len(q.waiting) == 0 {
		return models.Vessel{}, false
	}
	return q.waiting[0], true
}

func (q *dockingQueue) isHead(id int64) bool {
	return len(q.waiting) > 0 && q.waiting[0].ID == id
}

func (q *dockingQueue) indexOf(id int64) int {
	return slices.IndexFunc(q.waiting, func(v models.Vessel) bool { return v.ID == id })
}

func (q *dockingQueue) contains(id int64) bool {
	return q.indexOf(id) >= 0
}

// remove drops the vessel with id, wherever it is. It reports whether it was queued.
func (q *dockingQueue) remove(id int64) bool {
	i := q.indexOf(id)
	if i < 0 {
		return false
	}
	q.waiting = slices.Delete(q.waiting, i, i+1)
	if i < q.priority {
		q.priority--
	}
	return true
}

func (q *dockingQueue) len() int {
	return len(q.waiting)
}

func (q *dockingQueue) snapshot() []models.Vessel {
	return slices.Clone(q.waiting)
}
