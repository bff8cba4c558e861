package models

// Record is the wire form of a vessel exchanged with authorities and the port manager.
type Record struct {
	Type            int     `json:"type"`
	AverageWeight   float64 `json:"avgWeight"`
	Destination     string  `json:"destination"`
	ID              int64   `json:"id"`
	NeedsInspection bool    `json:"needsInspection"`
}

// ToRecord converts a vessel to its wire form.
func ToRecord(v Vessel) Record {
	return Record{
		Type:            int(v.Class),
		AverageWeight:   v.AverageWeight,
		Destination:     v.Destination,
		ID:              v.ID,
		NeedsInspection: v.NeedsInspection,
	}
}

// Vessel validates the record and converts it. homeCountry may be empty.
func (r Record) Vessel(homeCountry string) (Vessel, error) {
	v := Vessel{
		ID:              r.ID,
		Class:           Class(r.Type),
		AverageWeight:   r.AverageWeight,
		Destination:     r.Destination,
		HomeCountry:     homeCountry,
		NeedsInspection: r.NeedsInspection,
	}
	if err := v.Validate(); err != nil {
		return Vessel{}, err
	}
	return v, nil
}
