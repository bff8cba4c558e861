package dock

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"portcall/internal/vessel/models"
)

func vessel(id int64, destination string, inspect bool) models.Vessel {
	return models.Vessel{
		ID:              id,
		Class:           models.ClassConventional,
		AverageWeight:   50000,
		Destination:     destination,
		NeedsInspection: inspect,
	}
}

func ids(vs []models.Vessel) []int64 {
	out := make([]int64, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.ID)
	}
	return out
}

// assertPartitioned checks that no priority vessel follows a non-priority one.
func assertPartitioned(t *testing.T, vs []models.Vessel) {
	t.Helper()
	seenRegular := false
	for _, v := range vs {
		if !v.IsPriority() {
			seenRegular = true
			continue
		}
		assert.False(t, seenRegular, "priority vessel %d queued behind a regular vessel", v.ID)
	}
}

func TestDockingQueue_PriorityPartition(t *testing.T) {
	var q dockingQueue
	q.push(vessel(1, "Ecuador", false))
	q.push(vessel(2, "USA", true))
	q.push(vessel(3, "USA", false))
	q.push(vessel(4, "Europe", true))
	q.push(vessel(5, "Ecuador", true)) // inspection at home is not priority

	assert.Equal(t, []int64{2, 4, 1, 3, 5}, ids(q.snapshot()))
	assertPartitioned(t, q.snapshot())

	head, ok := q.head()
	assert.True(t, ok)
	assert.Equal(t, int64(2), head.ID)
}

func TestDockingQueue_Remove(t *testing.T) {
	var q dockingQueue
	for _, v := range []models.Vessel{
		vessel(1, "Ecuador", false),
		vessel(2, "USA", true),
		vessel(3, "USA", true),
	} {
		q.push(v)
	}

	assert.True(t, q.remove(2))
	assert.False(t, q.remove(2))
	assert.Equal(t, 1, q.priority)

	q.push(vessel(4, "USA", true))
	assert.Equal(t, []int64{3, 4, 1}, ids(q.snapshot()))
	assertPartitioned(t, q.snapshot())

	assert.True(t, q.remove(1))
	assert.Equal(t, 2, q.priority)
	assert.True(t, q.isHead(3))
	assert.False(t, q.contains(1))
}

func TestDockingQueue_Empty(t *testing.T) {
	var q dockingQueue
	_, ok := q.head()
	assert.False(t, ok)
	assert.False(t, q.isHead(0))
	assert.Equal(t, 0, q.len())
}
