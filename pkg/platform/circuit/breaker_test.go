package circuit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// step is one recorded outcome: true for a successful sink write.
type step struct {
	ok       bool
	wantOpen bool
}

func TestBreaker_Transitions(t *testing.T) {
	tests := []struct {
		name  string
		opts  []Option
		steps []step
	}{
		{
			name: "opens on the failure threshold",
			opts: []Option{WithFailureThreshold(3)},
			steps: []step{
				{ok: false, wantOpen: false},
				{ok: false, wantOpen: false},
				{ok: false, wantOpen: true},
			},
		},
		{
			name: "success clears consecutive failures",
			opts: []Option{WithFailureThreshold(3)},
			steps: []step{
				{ok: false}, {ok: false}, {ok: true},
				{ok: false}, {ok: false},
				{ok: false, wantOpen: true},
			},
		},
		{
			name: "closes on the success threshold",
			opts: []Option{WithFailureThreshold(1), WithSuccessThreshold(2)},
			steps: []step{
				{ok: false, wantOpen: true},
				{ok: true, wantOpen: true},
				{ok: true, wantOpen: false},
			},
		},
		{
			name: "failure while open restarts the success count",
			opts: []Option{WithFailureThreshold(1), WithSuccessThreshold(3)},
			steps: []step{
				{ok: false, wantOpen: true},
				{ok: true, wantOpen: true},
				{ok: true, wantOpen: true},
				{ok: false, wantOpen: true},
				{ok: true, wantOpen: true},
				{ok: true, wantOpen: true},
				{ok: true, wantOpen: false},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New("kafka", tt.opts...)
			for i, s := range tt.steps {
				if s.ok {
					b.RecordSuccess()
				} else {
					b.RecordFailure()
				}
				require.Equal(t, s.wantOpen, b.IsOpen(), "after step %d", i)
			}
		})
	}
}

func TestBreaker_ReportsChanges(t *testing.T) {
	b := New("kafka", WithFailureThreshold(1))
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, "kafka", b.Name())

	useFallback, change := b.RecordFailure()
	assert.True(t, useFallback)
	assert.True(t, change.Opened)

	useFallback, change = b.RecordFailure()
	assert.True(t, useFallback)
	assert.False(t, change.Opened, "already open")

	usePrimary, change := b.RecordSuccess()
	assert.True(t, usePrimary)
	assert.True(t, change.Closed)
}

func TestBreaker_Reset(t *testing.T) {
	b := New("kafka", WithFailureThreshold(1))
	b.RecordFailure()
	require.True(t, b.IsOpen())

	b.Reset()
	assert.Equal(t, StateClosed, b.State())
}

func TestBreaker_AllowProbesAfterCooldown(t *testing.T) {
	now := time.Unix(0, 0)
	b := New("kafka", WithFailureThreshold(1), WithCooldown(time.Second), WithClock(func() time.Time { return now }))

	assert.True(t, b.Allow())
	b.RecordFailure()
	assert.False(t, b.Allow(), "open breaker rejects until the cooldown passes")

	now = now.Add(time.Second)
	assert.True(t, b.Allow(), "one probe after the cooldown")
	assert.False(t, b.Allow(), "only one probe per cooldown")

	b.RecordSuccess()
	assert.True(t, b.Allow())
	assert.Equal(t, StateClosed, b.State())
}
