package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/marketpulse/internal/logger"
)

// RequestLogger is a Gin middleware that logs method, path, status code and
// request latency through the request scoped logger, so the request id that
// RequestID attached is carried on every line.
//
// Behavior:
//   - Captures start time before request handling.
//   - After request is processed, calculates latency.
//   - Logs at warn for 5xx responses, info otherwise.
//
// Usage:
//
//	router := gin.New()
//	router.Use(middleware.RequestID(), middleware.RequestLogger())
//
// Example log output:
//
//	request_id=123e4567-e89b-12d3-a456-426614174000 method=GET path=/api/v1/quotes/AAPL status=200 latency_ms=315
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		log := logger.FromContext(c.Request.Context())
		ev := log.Info()
		if status >= 500 {
			ev = log.Warn()
		}
		ev.
			Str("method", method).
			Str("path", path).
			Int("status", status).
			Int64("latency_ms", latency.Milliseconds()).
			Str("client_ip", c.ClientIP()).
			Msg("http_request")
	}
}
