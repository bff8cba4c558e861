package memory

import (
	"context"
	"slices"
	"sync"

	audit "portcall/pkg/platform/audit"
)

// InMemoryStore keeps every event in arrival order.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []audit.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// ListByVessel returns the events recorded for one vessel.
func (s *InMemoryStore) ListByVessel(_ context.Context, vesselID int64) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []audit.Event
	for _, e := range s.events {
		if e.VesselID == vesselID {
			out = append(out, e)
		}
	}
	return out, nil
}

// ListAll returns all events in arrival order.
func (s *InMemoryStore) ListAll(_ context.Context) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.events), nil
}

// CountByType tallies events per type.
func (s *InMemoryStore) CountByType(_ context.Context) map[audit.EventType]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[audit.EventType]int)
	for _, e := range s.events {
		counts[e.Type]++
	}
	return counts
}
