package dto

import (
	"time"
)

// ErrorResponse is the standard JSON error body returned by every endpoint.
//
// Fields:
//   - Message: short human-readable summary (JSON "error").
//   - ErrorDetails: underlying cause, if any (JSON "details").
//   - Kind: machine-readable failure category (e.g. "StorageUnavailable").
//   - Timestamp: when the error response was produced.
type ErrorResponse struct {
	Message      string    `json:"error" example:"failed to fetch combined data"`
	ErrorDetails string    `json:"details,omitempty" example:"dial tcp 127.0.0.1:5432: connect: connection refused"`
	Kind         string    `json:"kind,omitempty" example:"StorageUnavailable"`
	Timestamp    time.Time `json:"timestamp" example:"2025-09-20T12:00:00Z"`
}

// Error implements the error interface.
func (e ErrorResponse) Error() string {
	if e.ErrorDetails == "" {
		return e.Message
	}
	return e.Message + ": " + e.ErrorDetails
}

// NewErrorResponse builds an ErrorResponse with the current UTC timestamp.
// A nil err leaves ErrorDetails empty.
func NewErrorResponse(message string, err error) ErrorResponse {
	resp := ErrorResponse{Message: message, Timestamp: time.Now().UTC()}
	if err != nil {
		resp.ErrorDetails = err.Error()
	}
	return resp
}

// WithKind returns a copy of e tagged with kind.
func (e ErrorResponse) WithKind(kind string) ErrorResponse {
	e.Kind = kind
	return e
}
