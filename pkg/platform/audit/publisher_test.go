package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisher_StampsEvents(t *testing.T) {
	pub := NewPublisher(4)
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	pub.now = func() time.Time { return fixed }

	pub.Publish(Event{Type: EventVesselDocked, VesselID: 3, Slot: 1})

	got := <-pub.Inbox()
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, fixed, got.At)
	assert.Equal(t, EventVesselDocked, got.Type)
	assert.Equal(t, 1, got.Slot)
}

func TestPublisher_KeepsCallerFields(t *testing.T) {
	pub := NewPublisher(1)
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	pub.Publish(Event{ID: "evt-1", At: at, Type: EventVesselReleased})

	got := <-pub.Inbox()
	assert.Equal(t, "evt-1", got.ID)
	assert.Equal(t, at, got.At)
}

func TestPublisher_DropsWhenFull(t *testing.T) {
	pub := NewPublisher(2)
	for range 5 {
		pub.Publish(Event{Type: EventVesselArrived})
	}
	require.Len(t, pub.Inbox(), 2)
	assert.Equal(t, int64(3), pub.Dropped())
}

func TestPublisher_NilIsNoop(t *testing.T) {
	var pub *Publisher
	assert.NotPanics(t, func() { pub.Publish(Event{Type: EventVesselArrived}) })
}
