package handler

import (
	"portcall/internal/vessel/models"
	"portcall/pkg/platform/httputil"
)

// VesselRequest is the body of both docking endpoints: a vessel record whose
// needsInspection field carries the inspection decision.
type VesselRequest struct {
	models.Record

	parsed models.Vessel
}

// Validate implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *VesselRequest) Validate() error {
	v, err := r.Record.Vessel("")
	if err != nil {
		return httputil.BadRequest("invalid vessel record", err)
	}
	r.parsed = v
	return nil
}

// Parsed returns the validated vessel relative to homeCountry.
func (r *VesselRequest) Parsed(homeCountry string) models.Vessel {
	v := r.parsed
	v.HomeCountry = homeCountry
	return v
}
