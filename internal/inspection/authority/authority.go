// Package authority implements the regulatory evaluators that vote on whether
// an arriving vessel must be inspected.
package authority

import (
	"context"
	"fmt"
	"time"

	"portcall/internal/platform/random"
	"portcall/internal/statistics"
	"portcall/internal/vessel/models"
)

// Verdict is one authority's vote on a vessel. The values are part of the wire format.
type Verdict string

const (
	VerdictPass  Verdict = "PASS"
	VerdictCheck Verdict = "CHECK"
)

// IsValid reports whether v is a known verdict.
func (v Verdict) IsValid() bool {
	return v == VerdictPass || v == VerdictCheck
}

// Authority names, also used as HTTP path segments and metric labels.
const (
	NameWeight   = "sri"
	NameQuartile = "senae"
	NameRandom   = "supercia"
)

//go:generate mockgen -source=authority.go -destination=mocks/mocks.go -package=mocks Evaluator,Recorder

// Evaluator is a regulatory authority. Implementations must be safe for
// concurrent use; the coordinator calls every evaluator once per round.
type Evaluator interface {
	Name() string
	Evaluate(ctx context.Context, vessel models.Vessel, stats statistics.Snapshot) (Verdict, error)
}

// Recorder accepts weight observations. *statistics.Tracker satisfies it.
type Recorder interface {
	Observe(weight float64)
}

// NewDefaultSet returns the three authorities in their canonical order.
func NewDefaultSet(recorder Recorder, src random.Source) []Evaluator {
	return []Evaluator{
		NewWeightAuthority(),
		NewQuartileAuthority(recorder),
		NewRandomAuthority(src),
	}
}

type latency struct {
	Evaluator
	min, max time.Duration
	src      random.Source
}

// WithLatency delays every answer of ev by a uniform duration in [min, max].
// The delay honors ctx so shutdown does not wait on sleeping authorities.
func WithLatency(ev Evaluator, min, max time.Duration, src random.Source) Evaluator {
	if max < min {
		min, max = max, min
	}
	return &latency{Evaluator: ev, min: min, max: max, src: src}
}

func (l *latency) Evaluate(ctx context.Context, vessel models.Vessel, stats statistics.Snapshot) (Verdict, error) {
	delay := l.min
	if span := int64(l.max - l.min); span > 0 {
		delay += time.Duration(l.src.Int64N(span + 1))
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", l.Name(), ctx.Err())
	case <-timer.C:
	}
	return l.Evaluator.Evaluate(ctx, vessel, stats)
}
