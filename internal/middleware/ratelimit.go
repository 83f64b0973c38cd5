package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Defaults used by RateLimiter().
const (
	DefaultRateLimit  = 60
	DefaultRateWindow = time.Minute
)

// client represents a rate-limited client with request count and window start.
type client struct {
	windowStart time.Time
	count       int
}

// Limiter is a fixed-window, per client IP request limiter.
// In production with several instances a shared store would be needed.
type Limiter struct {
	mu      sync.Mutex
	clients map[string]*client
	limit   int
	window  time.Duration
	now     func() time.Time
}

// NewLimiter returns a limiter allowing limit requests per window per IP.
// A non-positive limit disables limiting.
func NewLimiter(limit int, window time.Duration) *Limiter {
	if window <= 0 {
		window = DefaultRateWindow
	}
	return &Limiter{
		clients: make(map[string]*client),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

// Allow records a request from key and reports whether it is within budget,
// plus how long until the current window resets.
func (l *Limiter) Allow(key string) (bool, time.Duration) {
	if l.limit <= 0 {
		return true, 0
	}
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	cl, ok := l.clients[key]
	if !ok || now.Sub(cl.windowStart) >= l.window {
		if len(l.clients) > 10_000 {
			l.evict(now)
		}
		cl = &client{windowStart: now}
		l.clients[key] = cl
	}
	cl.count++
	return cl.count <= l.limit, l.window - now.Sub(cl.windowStart)
}

// evict drops clients whose window has expired. Caller holds mu.
func (l *Limiter) evict(now time.Time) {
	for k, cl := range l.clients {
		if now.Sub(cl.windowStart) >= l.window {
			delete(l.clients, k)
		}
	}
}

// Middleware returns the Gin handler enforcing this limiter.
//
// Response when limit exceeded:
//
//	HTTP/1.1 429 Too Many Requests
//	Retry-After: 42
//	{"message": "rate limit exceeded", "timestamp": "..."}
func (l *Limiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, reset := l.Allow(c.ClientIP())
		if !ok {
			secs := int(reset.Round(time.Second) / time.Second)
			if secs < 1 {
				secs = 1
			}
			c.Header("Retry-After", strconv.Itoa(secs))
			AbortWithError(c, http.StatusTooManyRequests, "rate limit exceeded", nil)
			return
		}
		c.Next()
	}
}

// RateLimiter limits each client IP to DefaultRateLimit requests per minute.
//
// Usage:
//
//	router := gin.New()
//	router.Use(middleware.RateLimiter())
func RateLimiter() gin.HandlerFunc {
	return NewLimiter(DefaultRateLimit, DefaultRateWindow).Middleware()
}
