package authority

import (
	"context"

	"portcall/internal/statistics"
	"portcall/internal/vessel/models"
)

// WeightAuthority checks conventional vessels bound for the home country that
// are heavier than the rolling mean.
type WeightAuthority struct{}

func NewWeightAuthority() *WeightAuthority {
	return &WeightAuthority{}
}

func (a *WeightAuthority) Name() string { return NameWeight }

func (a *WeightAuthority) Evaluate(_ context.Context, vessel models.Vessel, stats statistics.Snapshot) (Verdict, error) {
	if vessel.Class == models.ClassConventional &&
		vessel.AverageWeight > stats.Mean &&
		vessel.DestinationClass() == models.DestinationHome {
		return VerdictCheck, nil
	}
	return VerdictPass, nil
}
