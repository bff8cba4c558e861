package authority

import (
	"context"

	"portcall/internal/statistics"
	"portcall/internal/vessel/models"
)

// QuartileAuthority checks Panamax vessels bound abroad whose weight reaches the
// third quartile of everything observed so far. Every evaluation also records
// the vessel's weight, so the quartile log grows with each round this authority
// answers.
type QuartileAuthority struct {
	recorder Recorder
}

// NewQuartileAuthority returns an authority that records into recorder. A nil
// recorder disables the side effect.
func NewQuartileAuthority(recorder Recorder) *QuartileAuthority {
	return &QuartileAuthority{recorder: recorder}
}

func (a *QuartileAuthority) Name() string { return NameQuartile }

func (a *QuartileAuthority) Evaluate(_ context.Context, vessel models.Vessel, stats statistics.Snapshot) (Verdict, error) {
	verdict := VerdictPass
	if vessel.Class == models.ClassPanamax &&
		vessel.AverageWeight >= stats.ThirdQuartile &&
		vessel.DestinationClass() == models.DestinationForeign {
		verdict = VerdictCheck
	}

	if a.recorder != nil {
		a.recorder.Observe(vessel.AverageWeight)
	}
	return verdict, nil
}
