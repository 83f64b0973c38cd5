package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const readinessTimeout = 2 * time.Second

// HealthHandler provides liveness and readiness endpoints for the service.
//
// Responsibilities:
//   - /healthz: Basic liveness probe (always returns 200 OK).
//   - /readyz: Readiness probe. Needs at least one configured provider and,
//     when storage is enabled, a reachable database.
//
// Upstream provider reachability is deliberately not part of readiness; it is
// reported by /api/v1/providers/health instead.
type HealthHandler struct {
	dbPing    func(ctx context.Context) error
	providers []string
}

// NewHealthHandler constructs a HealthHandler.
//
// Parameters:
//   - dbPing: checks the database; nil when storage is disabled.
//   - providers: ids of the configured providers, in priority order.
func NewHealthHandler(dbPing func(ctx context.Context) error, providers []string) *HealthHandler {
	return &HealthHandler{dbPing: dbPing, providers: providers}
}

// Register mounts the health and readiness endpoints into the provided Gin router.
//
// Routes:
//   - GET /healthz: Always returns 200 OK.
//   - GET /readyz: 200 when ready, 503 otherwise.
func (h *HealthHandler) Register(r *gin.Engine) {
	// @Summary      Liveness probe
	// @Description  Always returns OK if the service is running
	// @Tags         health
	// @Produce      json
	// @Success      200  {object}  map[string]string
	// @Router       /healthz [get]
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// @Summary      Readiness probe
	// @Description  Returns ready when providers are configured and the database (if enabled) is reachable
	// @Tags         health
	// @Produce      json
	// @Success      200  {object}  map[string]any
	// @Failure      503  {object}  map[string]any
	// @Router       /readyz [get]
	r.GET("/readyz", func(c *gin.Context) {
		storage := "disabled"
		ready := len(h.providers) > 0
		if h.dbPing != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
			err := h.dbPing(ctx)
			cancel()
			if err != nil {
				storage = "down"
				ready = false
			} else {
				storage = "ok"
			}
		}

		body := gin.H{"status": "ready", "providers": h.providers, "storage": storage}
		if !ready {
			body["status"] = "degraded"
			c.JSON(http.StatusServiceUnavailable, body)
			return
		}
		c.JSON(http.StatusOK, body)
	})
}
