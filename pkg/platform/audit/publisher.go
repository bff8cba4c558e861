package audit

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Publisher hands events to a background worker without blocking the caller.
// When the inbox is full the event is dropped and counted; the port never
// waits on its event sink.
type Publisher struct {
	inbox   chan Event
	now     func() time.Time
	dropped atomic.Int64
}

// NewPublisher creates a publisher with an inbox of the given size.
func NewPublisher(size int) *Publisher {
	if size <= 0 {
		size = 1024
	}
	return &Publisher{inbox: make(chan Event, size), now: time.Now}
}

// Publish stamps the event with an id and time if missing and enqueues it.
// A nil publisher discards events.
func (p *Publisher) Publish(event Event) {
	if p == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.At.IsZero() {
		event.At = p.now()
	}
	select {
	case p.inbox <- event:
	default:
		p.dropped.Add(1)
	}
}

// Inbox is the channel the worker drains.
func (p *Publisher) Inbox() <-chan Event {
	return p.inbox
}

// Dropped returns the number of events lost to a full inbox.
func (p *Publisher) Dropped() int64 {
	return p.dropped.Load()
}
