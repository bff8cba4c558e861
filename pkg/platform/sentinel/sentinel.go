package sentinel

import "errors"

// Sentinel errors for infrastructure facts. The scheduler, stores and sinks return
// these (optionally wrapped) so callers and HTTP handlers can translate them.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: vessel is not queued, docked or known to the component
// - ErrConflict: vessel id is already queued or docked
// - ErrInvalidState: component is in the wrong state for the requested operation
// - ErrUnavailable: remote authority or event sink temporarily unavailable
//
// For malformed vessel input, use models.ErrInvalidVessel.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
