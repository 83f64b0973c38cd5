package middleware

import (
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/guttosm/marketpulse/internal/logger"
)

const (
	RequestIDKey    = "request_id"
	RequestIDHeader = "X-Request-ID"
)

var validRequestID = regexp.MustCompile(`^[A-Za-z0-9._\-]{1,128}$`)

// RequestID is a Gin middleware that tags each incoming HTTP request with an
// identifier.
//
// Behavior:
//   - Reuses the caller's X-Request-ID when it is a sane token, otherwise
//     generates a new UUID (v4).
//   - Stores it in the Gin context under the key "request_id".
//   - Attaches a child zerolog logger carrying request_id to the request
//     context, so provider adapters and the aggregator log with it
//     (see logger.FromContext).
//   - Adds it to the response headers as "X-Request-ID".
//
// Usage:
//
//	router := gin.New()
//	router.Use(middleware.RequestID())
//
// Returns:
//   - gin.HandlerFunc: the middleware function.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if !validRequestID.MatchString(id) {
			id = uuid.NewString()
		}

		c.Set(RequestIDKey, id)

		l := logger.L().With().Str(RequestIDKey, id).Logger()
		c.Request = c.Request.WithContext(l.WithContext(c.Request.Context()))

		c.Writer.Header().Set(RequestIDHeader, id)

		c.Next()
	}
}
