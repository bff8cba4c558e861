package dock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portcall/internal/platform/random"
	"portcall/internal/vessel/models"
)

type stubEvictor struct {
	calls  int
	vessel models.Vessel
	ok     bool
}

func (s *stubEvictor) Evict() (models.Vessel, bool) {
	s.calls++
	return s.vessel, s.ok
}

func TestDamageInjector_Trigger(t *testing.T) {
	cases := []struct {
		name      string
		p         float64
		draw      float64
		occupied  bool
		wantEvict bool
		wantCalls int
	}{
		{"draw below probability evicts", 0.2, 0.1, true, true, 1},
		{"draw at probability misses", 0.2, 0.2, true, false, 0},
		{"zero probability never evicts", 0, 0, true, false, 0},
		{"hit on empty port", 1, 0.5, false, false, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev := &stubEvictor{vessel: vessel(3, "USA", false), ok: tc.occupied}
			inj, err := NewDamageInjector(ev, tc.p, random.Fixed(tc.draw), nil)
			require.NoError(t, err)

			v, ok := inj.Trigger()
			assert.Equal(t, tc.wantEvict, ok)
			assert.Equal(t, tc.wantCalls, ev.calls)
			if tc.wantEvict {
				assert.Equal(t, int64(3), v.ID)
			}
		})
	}
}

func TestDamageInjector_EvictsFromScheduler(t *testing.T) {
	sched, err := NewScheduler(2, 0, WithRandom(random.Fixed(0.5)))
	require.NoError(t, err)
	for _, v := range []models.Vessel{vessel(1, "USA", false), vessel(2, "USA", false)} {
		require.NoError(t, sched.Enqueue(v))
		_, err := sched.Admit(context.Background(), v)
		require.NoError(t, err)
	}

	inj, err := NewDamageInjector(sched, 1, random.Fixed(0), nil)
	require.NoError(t, err)

	v, ok := inj.Trigger()
	require.True(t, ok)
	assert.Equal(t, int64(1), v.ID, "first occupied berth is evicted")
	assert.Equal(t, 1, sched.Occupied())
}

func TestNewDamageInjector_Validation(t *testing.T) {
	_, err := NewDamageInjector(nil, 0.1, nil, nil)
	assert.Error(t, err)
	_, err = NewDamageInjector(&stubEvictor{}, 1.5, nil, nil)
	assert.Error(t, err)
}
