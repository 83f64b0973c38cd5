package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/guttosm/marketpulse/internal/middleware"
)

// DefaultRequestTimeout bounds a whole request, fallback chains included.
const DefaultRequestTimeout = 20 * time.Second

// RouterOption customizes NewRouter.
type RouterOption func(*routerConfig)

type routerConfig struct {
	timeout time.Duration
	limiter gin.HandlerFunc
}

// WithRequestTimeout overrides DefaultRequestTimeout.
func WithRequestTimeout(d time.Duration) RouterOption {
	return func(rc *routerConfig) {
		if d > 0 {
			rc.timeout = d
		}
	}
}

// WithRateLimit limits each client IP to limit requests per window.
// A non-positive limit disables rate limiting.
func WithRateLimit(limit int, window time.Duration) RouterOption {
	return func(rc *routerConfig) {
		rc.limiter = middleware.NewLimiter(limit, window).Middleware()
	}
}

// NewRouter creates a Gin engine with routes configured.
// It receives a Handler instance with all business logic already injected.
//
// Responsibilities:
//   - Registers global middlewares (RequestID, Logger, Recovery, ErrorHandler, RateLimiter).
//   - Puts a deadline on the request context (20 seconds by default), which
//     cancels in-flight provider calls when exceeded.
//   - Mounts Swagger docs (/swagger/*any).
//   - Configures API v1 routes (/api/v1).
//
// Note:
//   - Health and readiness endpoints (/healthz, /readyz) are registered in app.InitializeApp().
func NewRouter(handler *Handler, opts ...RouterOption) *gin.Engine {
	rc := routerConfig{timeout: DefaultRequestTimeout}
	for _, o := range opts {
		o(&rc)
	}
	if rc.limiter == nil {
		rc.limiter = middleware.RateLimiter()
	}

	router := gin.New()

	// ─── Middlewares ───────────────────────────────
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RecoveryMiddleware(),
		middleware.ErrorHandler,
		rc.limiter,
	)

	// ─── Timeout ──────────────────────────────────
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), rc.timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	// ─── Swagger ──────────────────────────────────
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// ─── API v1 ───────────────────────────────────
	v1 := router.Group("/api/v1")
	{
		v1.GET("/quotes/:symbol", handler.GetQuote)
		v1.GET("/quotes/:symbol/comprehensive", handler.GetComprehensive)
		v1.GET("/quotes/:symbol/history", handler.GetQuoteHistory)
		v1.GET("/profile/:symbol", handler.GetProfile)
		v1.GET("/timeseries/:symbol", handler.GetTimeSeries)
		v1.GET("/search", handler.Search)
		v1.GET("/news", handler.GetMarketNews)
		v1.GET("/news/:symbol", handler.GetCompanyNews)
		v1.GET("/sentiment/:symbol", handler.GetSentiment)
		v1.GET("/providers/health", handler.ProvidersHealth)
	}

	return router
}
