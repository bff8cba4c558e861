package dock

import (
	"fmt"
	"io"
	"log/slog"

	"portcall/internal/platform/random"
	"portcall/internal/vessel/models"
)

// Evictor frees an occupied berth outside the normal release path.
// *Scheduler satisfies it.
type Evictor interface {
	Evict() (models.Vessel, bool)
}

// DamageInjector models equipment failures that throw a docked vessel out of
// its berth. It draws from its own source, independent of the scheduler's
// approach damage.
type DamageInjector struct {
	evictor     Evictor
	probability float64
	src         random.Source
	logger      *slog.Logger
}

// NewDamageInjector returns an injector that evicts with the given probability
// per trigger. A nil src is seeded from the clock; a nil logger discards.
func NewDamageInjector(evictor Evictor, probability float64, src random.Source, logger *slog.Logger) (*DamageInjector, error) {
	if evictor == nil {
		return nil, fmt.Errorf("evictor is required")
	}
	if probability < 0 || probability > 1 {
		return nil, fmt.Errorf("damage probability must be in [0,1], got %v", probability)
	}
	if src == nil {
		src = random.NewFromTime()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &DamageInjector{evictor: evictor, probability: probability, src: src, logger: logger}, nil
}

// Trigger draws once and, on a hit, evicts the first occupied berth. It returns
// the evicted vessel, or false when the draw missed or every berth was empty.
func (d *DamageInjector) Trigger() (models.Vessel, bool) {
	if d.src.Float64() >= d.probability {
		return models.Vessel{}, false
	}
	v, ok := d.evictor.Evict()
	if !ok {
		d.logger.Debug("damage event hit an empty port")
		return models.Vessel{}, false
	}
	d.logger.Info("damage event evicted vessel", "vessel_id", v.ID)
	return v, true
}
