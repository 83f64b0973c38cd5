package dto

import (
	"errors"
	"time"

	"github.com/guttosm/marketpulse/internal/provider"
)

// ErrorResponse is the JSON body of every non-2xx API response.
//
// Attempts is only present when the request went through a provider
// fallback chain that failed; it lists each provider tried, in order.
type ErrorResponse struct {
	Message      string             `json:"message" example:"all providers failed"`
	ErrorDetails string             `json:"error,omitempty" example:"finnhub quote: rate limited (HTTP 429)"`
	Attempts     []provider.Attempt `json:"attempts,omitempty"`
	Timestamp    time.Time          `json:"timestamp" example:"2025-09-12T20:00:00Z"`
}

// Error implements the error interface.
func (e ErrorResponse) Error() string {
	if e.ErrorDetails == "" {
		return e.Message
	}
	return e.Message + ": " + e.ErrorDetails
}

// NewErrorResponse builds an ErrorResponse stamped with the current time.
// When err carries a failed fallback chain its attempts are copied over.
func NewErrorResponse(message string, err error) ErrorResponse {
	resp := ErrorResponse{Message: message, Timestamp: time.Now().UTC()}
	if err == nil {
		return resp
	}
	resp.ErrorDetails = err.Error()

	var all *provider.AllProvidersFailedError
	if errors.As(err, &all) {
		resp.Attempts = append([]provider.Attempt(nil), all.Attempts...)
	}
	return resp
}
