package dock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBerthTable_OccupyAndFree(t *testing.T) {
	table := newBerthTable(2)
	now := time.Unix(100, 0)

	require.True(t, table.hasFree())
	assert.Equal(t, 0, table.occupy(vessel(1, "USA", false), now))
	assert.Equal(t, 1, table.occupy(vessel(2, "USA", false), now))
	assert.False(t, table.hasFree())
	assert.Equal(t, 1, table.indexOf(2))

	first := table.snapshot()[0]
	v := table.free(0)
	assert.Equal(t, int64(1), v.ID)
	assert.Equal(t, Slot{Index: 0}, table.snapshot()[0], "freed slot has no occupant and no schedule")
	assert.Equal(t, 1, table.occupied)
	assert.Equal(t, 1, table.firstOccupied())

	assert.Equal(t, 0, table.occupy(vessel(3, "USA", false), now), "first free slot is reused")
	assert.False(t, table.holds(first), "a reused slot is a new occupancy")
	assert.True(t, table.holds(table.snapshot()[0]))
	assert.False(t, table.holds(Slot{Index: 5}))
}

func TestBerthTable_NextUnscheduledPrefersPriority(t *testing.T) {
	table := newBerthTable(3)
	now := time.Unix(0, 0)
	table.occupy(vessel(1, "Ecuador", true), now)
	table.occupy(vessel(2, "USA", false), now)
	table.occupy(vessel(3, "USA", true), now)

	assert.Equal(t, 2, table.nextUnscheduled())

	table.slots[2].ScheduledReleaseAt = now.Add(time.Second)
	assert.Equal(t, 0, table.nextUnscheduled(), "falls back to the first unscheduled slot")

	table.slots[0].ScheduledReleaseAt = now.Add(time.Second)
	table.slots[1].ScheduledReleaseAt = now.Add(time.Second)
	assert.Equal(t, -1, table.nextUnscheduled())
}
