// Package dock schedules vessels onto a fixed set of berths.
//
// The Scheduler owns the docking queue and the berth table behind a single
// mutex. Every state change closes the current change channel and replaces it,
// waking every waiter; waiters then re-check their own predicate. Admitters
// wait for "a berth is free and I am at the head of the queue", slot workers
// wait for "a docked vessel has not been scheduled yet".
package dock

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"portcall/internal/dock/metrics"
	"portcall/internal/platform/random"
	"portcall/internal/vessel/models"
	"portcall/pkg/platform/audit"
	"portcall/pkg/platform/sentinel"
)

// Admission answers an immediate capacity check. Values are part of the wire format.
type Admission string

const (
	AdmissionAccepted Admission = "ACCEPTED"
	AdmissionRejected Admission = "REJECTED"
)

// Outcome is how a blocking admission ended. Values are part of the wire format.
type Outcome string

const (
	OutcomeDocked            Outcome = "DOCKED"
	OutcomeDamagedAndRemoved Outcome = "DAMAGED_AND_REMOVED"
)

// EventPublisher receives port events. *audit.Publisher satisfies it.
type EventPublisher interface {
	Publish(event audit.Event)
}

// Scheduler admits queued vessels onto berths.
type Scheduler struct {
	mu      sync.Mutex
	queue   dockingQueue
	berths  *berthTable
	changed chan struct{}

	damageProbability float64
	src               random.Source
	now               func() time.Time
	logger            *slog.Logger
	metrics           *metrics.Metrics
	events            EventPublisher
}

type Option func(*Scheduler)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scheduler) {
		s.metrics = m
	}
}

// WithRandom sets the source for approach damage draws.
func WithRandom(src random.Source) Option {
	return func(s *Scheduler) {
		s.src = src
	}
}

func WithEvents(events EventPublisher) Option {
	return func(s *Scheduler) {
		s.events = events
	}
}

// WithClock overrides time.Now for admission timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
	}
}

// NewScheduler creates a scheduler with capacity berths. damageProbability is
// the chance that a vessel reaching the head of the queue with a free berth is
// damaged on approach and removed instead of docking.
func NewScheduler(capacity int, damageProbability float64, opts ...Option) (*Scheduler, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("berth capacity must be at least 1, got %d", capacity)
	}
	if damageProbability < 0 || damageProbability > 1 {
		return nil, fmt.Errorf("damage probability must be in [0,1], got %v", damageProbability)
	}

	s := &Scheduler{
		berths:            newBerthTable(capacity),
		changed:           make(chan struct{}),
		damageProbability: damageProbability,
		now:               time.Now,
		logger:            slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.src == nil {
		s.src = random.NewFromTime()
	}
	return s, nil
}

// RequestAdmission reports whether a berth is free right now. It changes nothing.
func (s *Scheduler) RequestAdmission(vessel models.Vessel) Admission {
	s.mu.Lock()
	free := s.berths.hasFree()
	s.mu.Unlock()

	answer := AdmissionRejected
	if free {
		answer = AdmissionAccepted
	}
	s.metrics.IncrementAdmissionRequest(string(answer))
	if answer == AdmissionRejected {
		s.publish(audit.EventAdmissionRejected, vessel.ID, audit.NoSlot, "no free berth")
	}
	return answer
}

// Enqueue places the vessel in the docking queue, ahead of every non-priority
// vessel if it needs inspection and is bound abroad.
func (s *Scheduler) Enqueue(vessel models.Vessel) error {
	if err := vessel.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.queue.contains(vessel.ID) || s.berths.indexOf(vessel.ID) >= 0 {
		return fmt.Errorf("vessel %d already queued or docked: %w", vessel.ID, sentinel.ErrConflict)
	}
	s.queue.push(vessel)
	s.broadcast()
	return nil
}

// Admit blocks until the vessel is at the head of the queue and a berth is
// free, then either docks it or, with the configured damage probability,
// removes it from the queue without ever holding a berth. If ctx ends first
// the vessel leaves the queue and ctx's error is returned.
func (s *Scheduler) Admit(ctx context.Context, vessel models.Vessel) (Outcome, error) {
	s.mu.Lock()
	if !s.queue.contains(vessel.ID) {
		s.mu.Unlock()
		return "", fmt.Errorf("vessel %d is not queued: %w", vessel.ID, sentinel.ErrNotFound)
	}

	for !(s.berths.hasFree() && s.queue.isHead(vessel.ID)) {
		wait := s.changed
		s.mu.Unlock()

		select {
		case <-wait:
		case <-ctx.Done():
			s.mu.Lock()
			if s.queue.remove(vessel.ID) {
				s.broadcast()
			}
			s.mu.Unlock()
			return "", ctx.Err()
		}

		s.mu.Lock()
		if !s.queue.contains(vessel.ID) {
			s.mu.Unlock()
			return "", fmt.Errorf("vessel %d left the queue: %w", vessel.ID, sentinel.ErrInvalidState)
		}
	}
	defer s.mu.Unlock()

	queued, _ := s.queue.head()
	s.queue.remove(queued.ID)

	if s.src.Float64() < s.damageProbability {
		s.broadcast()
		s.metrics.IncrementOutcome(string(OutcomeDamagedAndRemoved))
		s.publish(audit.EventVesselDamaged, queued.ID, audit.NoSlot, "damaged during approach")
		s.logger.InfoContext(ctx, "vessel damaged during approach", "vessel_id", queued.ID)
		return OutcomeDamagedAndRemoved, nil
	}

	slot := s.berths.occupy(queued, s.now())
	s.broadcast()
	s.metrics.IncrementOutcome(string(OutcomeDocked))
	s.publish(audit.EventVesselDocked, queued.ID, slot, "")
	s.logger.InfoContext(ctx, "vessel docked",
		"vessel_id", queued.ID,
		"slot", slot,
		"needs_inspection", queued.NeedsInspection,
	)
	return OutcomeDocked, nil
}

// Release frees the berth held by the vessel. It reports false if the vessel
// holds no berth, for example because a damage event evicted it first.
func (s *Scheduler) Release(vesselID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.berths.indexOf(vesselID)
	if i < 0 {
		return false
	}
	s.releaseAt(i)
	return true
}

// releaseClaimed frees the berth only if it still holds the occupancy a
// worker claimed. An evicted vessel that docked again is a new occupancy and
// stays put.
func (s *Scheduler) releaseClaimed(claimed Slot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.berths.holds(claimed) {
		return false
	}
	s.releaseAt(claimed.Index)
	return true
}

// releaseAt must be called with mu held.
func (s *Scheduler) releaseAt(i int) {
	v := s.berths.free(i)
	s.broadcast()
	s.metrics.IncrementReleases()
	s.publish(audit.EventVesselReleased, v.ID, i, "")
	s.logger.Info("berth released", "vessel_id", v.ID, "slot", i)
}

// Evict clears the first occupied berth outside the normal release path.
func (s *Scheduler) Evict() (models.Vessel, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.berths.firstOccupied()
	if i < 0 {
		return models.Vessel{}, false
	}
	v := s.berths.free(i)
	s.broadcast()
	s.metrics.IncrementEvictions()
	s.publish(audit.EventVesselEvicted, v.ID, i, "equipment failure")
	s.logger.Warn("vessel evicted from berth", "vessel_id", v.ID, "slot", i)
	return v, true
}

// claimNext blocks until a docked vessel has no scheduled release, marks it
// with admittedAt+duration and returns a copy of the claimed slot.
func (s *Scheduler) claimNext(ctx context.Context, duration func(models.Vessel) time.Duration) (Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		if i := s.berths.nextUnscheduled(); i >= 0 {
			slot := &s.berths.slots[i]
			slot.ScheduledReleaseAt = slot.AdmittedAt.Add(duration(slot.Occupant))
			s.broadcast()
			return *slot, nil
		}

		wait := s.changed
		s.mu.Unlock()
		select {
		case <-wait:
			s.mu.Lock()
		case <-ctx.Done():
			s.mu.Lock()
			return Slot{}, ctx.Err()
		}
	}
}

// WaitIdle blocks until no vessel is queued or docked.
func (s *Scheduler) WaitIdle(ctx context.Context) error {
	s.mu.Lock()
	for s.queue.len() > 0 || s.berths.occupied > 0 {
		wait := s.changed
		s.mu.Unlock()
		select {
		case <-wait:
		case <-ctx.Done():
			return ctx.Err()
		}
		s.mu.Lock()
	}
	s.mu.Unlock()
	return nil
}

// Berths returns a copy of every slot.
func (s *Scheduler) Berths() []Slot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.berths.snapshot()
}

// Queue returns the waiting vessels in admission order.
func (s *Scheduler) Queue() []models.Vessel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.snapshot()
}

// Occupied returns the number of occupied berths.
func (s *Scheduler) Occupied() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.berths.occupied
}

func (s *Scheduler) Capacity() int {
	return s.berths.capacity()
}

// broadcast wakes every waiter. Must be called with mu held.
func (s *Scheduler) broadcast() {
	close(s.changed)
	s.changed = make(chan struct{})
	s.metrics.SetOccupancy(s.berths.occupied, s.queue.len())
}

func (s *Scheduler) publish(t audit.EventType, vesselID int64, slot int, detail string) {
	if s.events == nil {
		return
	}
	s.events.Publish(audit.Event{Type: t, VesselID: vesselID, Slot: slot, At: s.now(), Detail: detail})
}
