// Package httputil holds the JSON request and response helpers shared by handlers.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"portcall/pkg/platform/sentinel"
)

// maxBodyBytes bounds decoded request bodies.
const maxBodyBytes = 1 << 20

// Error codes returned in the "error" field.
const (
	CodeBadRequest   = "bad_request"
	CodeNotFound     = "not_found"
	CodeConflict     = "conflict"
	CodeInvalidState = "invalid_state"
	CodeUnavailable  = "unavailable"
	CodeTimeout      = "timeout"
	CodeInternal     = "internal_error"
)

// ErrorResponse is the body written for every failed request.
type ErrorResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

// RequestError is a client error with an explicit status and code.
type RequestError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// BadRequest wraps err as a 400 with the given message.
func BadRequest(message string, err error) *RequestError {
	return &RequestError{Status: http.StatusBadRequest, Code: CodeBadRequest, Message: message, Err: err}
}

// Validatable is implemented by request bodies that check and normalize themselves.
type Validatable interface {
	Validate() error
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates err into a status and error code. Internal errors
// never leak their description.
func WriteError(w http.ResponseWriter, err error) {
	status, body := classify(err)
	WriteJSON(w, status, body)
}

func classify(err error) (int, ErrorResponse) {
	var reqErr *RequestError
	switch {
	case errors.As(err, &reqErr):
		return reqErr.Status, ErrorResponse{Error: reqErr.Code, Description: reqErr.Error()}
	case errors.Is(err, sentinel.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{Error: CodeNotFound, Description: err.Error()}
	case errors.Is(err, sentinel.ErrConflict):
		return http.StatusConflict, ErrorResponse{Error: CodeConflict, Description: err.Error()}
	case errors.Is(err, sentinel.ErrInvalidState):
		return http.StatusConflict, ErrorResponse{Error: CodeInvalidState, Description: err.Error()}
	case errors.Is(err, sentinel.ErrUnavailable):
		return http.StatusServiceUnavailable, ErrorResponse{Error: CodeUnavailable, Description: err.Error()}
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusGatewayTimeout, ErrorResponse{Error: CodeTimeout}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: CodeInternal}
	}
}

// DecodeAndPrepare decodes the JSON body into T and validates it. On failure
// it writes a 400 and returns false; the handler should return immediately.
func DecodeAndPrepare[T any, PT interface {
	*T
	Validatable
}](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (PT, bool) {
	req := PT(new(T))

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(req); err != nil {
		logger.WarnContext(ctx, "failed to decode request body",
			"request_id", requestID,
			"error", err,
		)
		WriteError(w, BadRequest("invalid JSON body", err))
		return nil, false
	}

	if err := req.Validate(); err != nil {
		logger.WarnContext(ctx, "request validation failed",
			"request_id", requestID,
			"error", err,
		)
		var reqErr *RequestError
		if !errors.As(err, &reqErr) {
			err = BadRequest("invalid request", err)
		}
		WriteError(w, err)
		return nil, false
	}
	return req, true
}
