package authority

import (
	"context"

	"portcall/internal/platform/random"
	"portcall/internal/statistics"
	"portcall/internal/vessel/models"
)

// Check probabilities per hull class.
const (
	conventionalCheckProbability = 0.3
	panamaxCheckProbability      = 0.5
)

// RandomAuthority performs spot checks independent of any shared state.
type RandomAuthority struct {
	src random.Source
}

// NewRandomAuthority draws from src; a nil src is seeded from the clock.
func NewRandomAuthority(src random.Source) *RandomAuthority {
	if src == nil {
		src = random.NewFromTime()
	}
	return &RandomAuthority{src: src}
}

func (a *RandomAuthority) Name() string { return NameRandom }

func (a *RandomAuthority) Evaluate(_ context.Context, vessel models.Vessel, _ statistics.Snapshot) (Verdict, error) {
	threshold := conventionalCheckProbability
	if vessel.Class == models.ClassPanamax {
		threshold = panamaxCheckProbability
	}
	if a.src.Float64() < threshold {
		return VerdictCheck, nil
	}
	return VerdictPass, nil
}
