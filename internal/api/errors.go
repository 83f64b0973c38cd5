package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/marketpulse/internal/domain/dto"
	"github.com/guttosm/marketpulse/internal/logger"
	"github.com/guttosm/marketpulse/internal/provider"
	"github.com/guttosm/marketpulse/internal/service"
)

// RetryAfterSeconds is advertised on 503 responses caused by upstream
// providers being unavailable or rate limited.
const RetryAfterSeconds = 60

// statusFor maps a service error to an HTTP status and a short message.
//
// Mapping:
//   - invalid argument: 400
//   - symbol not found (single provider, or every provider agreed): 404
//   - archive disabled: 501
//   - all providers failed, rate limited: 503
//   - malformed response, upstream error: 502
//   - request deadline exceeded: 504
//   - anything else: 500
func statusFor(err error) (int, string) {
	var all *provider.AllProvidersFailedError
	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid request"
	case errors.Is(err, service.ErrArchiveDisabled):
		return http.StatusNotImplemented, "quote history is not enabled"
	case errors.As(err, &all):
		if all.AllOfKind(provider.KindSymbolNotFound) {
			return http.StatusNotFound, "symbol not found"
		}
		return http.StatusServiceUnavailable, "all providers failed"
	}

	switch provider.KindOf(err) {
	case provider.KindSymbolNotFound:
		return http.StatusNotFound, "symbol not found"
	case provider.KindRateLimited:
		return http.StatusServiceUnavailable, "provider rate limited"
	case provider.KindMalformedResponse, provider.KindUpstream:
		return http.StatusBadGateway, "provider error"
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "request timed out"
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout, "request cancelled"
	}
	return http.StatusInternalServerError, "internal error"
}

// writeError logs err and writes the matching error body.
func writeError(c *gin.Context, err error) {
	status, msg := statusFor(err)
	if status == http.StatusServiceUnavailable {
		c.Header("Retry-After", strconv.Itoa(RetryAfterSeconds))
	}

	ev := logger.FromContext(c.Request.Context()).Info()
	if status >= http.StatusInternalServerError {
		ev = logger.FromContext(c.Request.Context()).Warn()
	}
	ev.Err(err).Int("status", status).Str("path", c.Request.URL.Path).Msg("request error")

	c.JSON(status, dto.NewErrorResponse(msg, err))
}
