package models

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"
)

// ErrInvalidVessel marks a vessel snapshot that cannot be evaluated or docked.
// It is never retried; the workflow that produced it ends.
var ErrInvalidVessel = errors.New("invalid vessel")

// DefaultHomeCountry is the destination treated as domestic unless configured otherwise.
const DefaultHomeCountry = "Ecuador"

// Class is the hull class of a vessel. The numeric values are part of the wire format.
type Class int

const (
	ClassConventional Class = 0
	ClassPanamax      Class = 1
)

func (c Class) String() string {
	switch c {
	case ClassConventional:
		return "conventional"
	case ClassPanamax:
		return "panamax"
	default:
		return fmt.Sprintf("class(%d)", int(c))
	}
}

// IsValid reports whether c is one of the known classes.
func (c Class) IsValid() bool {
	return c == ClassConventional || c == ClassPanamax
}

// DestinationClass groups destinations by whether cargo stays in the home country.
type DestinationClass string

const (
	DestinationHome    DestinationClass = "home"
	DestinationForeign DestinationClass = "foreign"
)

// Vessel is a snapshot of an arriving ship. It is passed by value; the only field
// that changes over a workflow is NeedsInspection, set once from the evaluation.
type Vessel struct {
	ID              int64
	Class           Class
	AverageWeight   float64
	Destination     string
	HomeCountry     string
	NeedsInspection bool
}

// DestinationClass derives Home or Foreign from the destination country.
func (v Vessel) DestinationClass() DestinationClass {
	home := v.HomeCountry
	if home == "" {
		home = DefaultHomeCountry
	}
	if v.Destination == home {
		return DestinationHome
	}
	return DestinationForeign
}

// IsForeign is shorthand for DestinationClass() == DestinationForeign.
func (v Vessel) IsForeign() bool {
	return v.DestinationClass() == DestinationForeign
}

// IsPriority reports whether the vessel belongs to the front partition of the
// docking queue and is preferred by slot workers.
func (v Vessel) IsPriority() bool {
	return v.NeedsInspection && v.IsForeign()
}

// Validate rejects snapshots that would corrupt shared statistics or scheduling.
func (v Vessel) Validate() error {
	if v.ID < 0 {
		return fmt.Errorf("%w: negative id %d", ErrInvalidVessel, v.ID)
	}
	if !v.Class.IsValid() {
		return fmt.Errorf("%w: unknown class %d", ErrInvalidVessel, int(v.Class))
	}
	if v.AverageWeight < 0 || math.IsNaN(v.AverageWeight) || math.IsInf(v.AverageWeight, 0) {
		return fmt.Errorf("%w: weight %v", ErrInvalidVessel, v.AverageWeight)
	}
	if v.Destination == "" {
		return fmt.Errorf("%w: missing destination", ErrInvalidVessel)
	}
	return nil
}

// Sequence hands out monotonically increasing vessel ids.
type Sequence struct {
	next atomic.Int64
}

// Next returns the next id, starting at 0.
func (s *Sequence) Next() int64 {
	return s.next.Add(1) - 1
}
