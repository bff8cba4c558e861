package handler

import (
	"portcall/internal/vessel/models"
	"portcall/pkg/platform/httputil"
)

// EvaluateRequest is the HTTP request body for POST /authorities/{name}/evaluate.
// needsInspection is accepted but ignored.
type EvaluateRequest struct {
	models.Record

	parsed models.Vessel
}

// Validate checks the record and converts it to a vessel.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *EvaluateRequest) Validate() error {
	v, err := r.Record.Vessel("")
	if err != nil {
		return httputil.BadRequest("invalid vessel record", err)
	}
	v.NeedsInspection = false
	r.parsed = v
	return nil
}

// Parsed returns the validated vessel relative to homeCountry.
func (r *EvaluateRequest) Parsed(homeCountry string) models.Vessel {
	v := r.parsed
	v.HomeCountry = homeCountry
	return v
}

// EvaluateResponse is the HTTP response for POST /authorities/{name}/evaluate.
type EvaluateResponse struct {
	Verdict string `json:"verdict"`
}
