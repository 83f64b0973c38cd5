package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/marketpulse/internal/domain/models"
)

func TestNewRouter_WiringAndMiddlewares(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeMarketService{quote: models.Quote{Symbol: "PETR4", Price: 12.3, SourceID: "alphavantage"}}
	r := NewRouter(NewHandler(svc))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/quotes/PETR4", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected X-Request-ID header to be set")
	}

	var out models.Quote
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if out.Symbol != "PETR4" || out.Price != 12.3 {
		t.Fatalf("unexpected body: %+v", out)
	}
}

func TestNewRouter_Routes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(NewHandler(&fakeMarketService{}))

	want := map[string]bool{
		"/api/v1/quotes/:symbol":               false,
		"/api/v1/quotes/:symbol/comprehensive": false,
		"/api/v1/quotes/:symbol/history":       false,
		"/api/v1/profile/:symbol":              false,
		"/api/v1/timeseries/:symbol":           false,
		"/api/v1/search":                       false,
		"/api/v1/news":                         false,
		"/api/v1/news/:symbol":                 false,
		"/api/v1/sentiment/:symbol":            false,
		"/api/v1/providers/health":             false,
		"/swagger/*any":                        false,
	}
	for _, ri := range r.Routes() {
		if _, ok := want[ri.Path]; ok && ri.Method == http.MethodGet {
			want[ri.Path] = true
		}
	}
	for path, found := range want {
		if !found {
			t.Errorf("route %s not registered", path)
		}
	}
}

// deadlineService reports whether the request context carried a deadline.
type deadlineService struct {
	fakeMarketService
	remaining time.Duration
}

func (d *deadlineService) GetQuote(ctx context.Context, _ string) (models.Quote, error) {
	if dl, ok := ctx.Deadline(); ok {
		d.remaining = time.Until(dl)
	}
	return models.Quote{Symbol: "AAPL", Price: 1}, nil
}

func TestNewRouter_RequestTimeout(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &deadlineService{}
	r := NewRouter(NewHandler(svc), WithRequestTimeout(3*time.Second))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/quotes/AAPL", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if svc.remaining <= 0 || svc.remaining > 3*time.Second {
		t.Fatalf("request deadline not applied, remaining=%v", svc.remaining)
	}
}

func TestNewRouter_RateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(NewHandler(&fakeMarketService{}), WithRateLimit(1, time.Minute))

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/v1/providers/health", nil))
	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/v1/providers/health", nil))

	if first.Code != http.StatusOK || second.Code != http.StatusTooManyRequests {
		t.Fatalf("codes = %d, %d; want 200, 429", first.Code, second.Code)
	}
}
