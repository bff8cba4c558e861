package portcall

import (
	"portcall/internal/platform/random"
	"portcall/internal/vessel/models"
)

// Generator produces random arriving vessels: either hull class with equal
// odds, weight uniform in [50000, 100000), half bound for the home country and
// the rest split between USA and Europe.
type Generator struct {
	src         random.Source
	ids         *models.Sequence
	homeCountry string
}

func NewGenerator(src random.Source, homeCountry string) *Generator {
	if homeCountry == "" {
		homeCountry = models.DefaultHomeCountry
	}
	return &Generator{src: src, ids: &models.Sequence{}, homeCountry: homeCountry}
}

// Next returns a vessel with the next id.
func (g *Generator) Next() models.Vessel {
	class := models.ClassConventional
	if g.src.Float64() > 0.5 {
		class = models.ClassPanamax
	}
	weight := 50000 + g.src.Float64()*50000

	destination := g.homeCountry
	if g.src.Float64() <= 0.5 {
		destination = "USA"
		if g.src.Float64() <= 0.5 {
			destination = "Europe"
		}
	}

	return models.Vessel{
		ID:            g.ids.Next(),
		Class:         class,
		AverageWeight: weight,
		Destination:   destination,
		HomeCountry:   g.homeCountry,
	}
}
