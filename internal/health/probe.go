// Package health probes every provider with one representative quote request
// and scores overall availability.
package health

import (
	"context"
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/marketpulse/internal/domain/models"
	"github.com/guttosm/marketpulse/internal/logger"
	"github.com/guttosm/marketpulse/internal/provider"
)

// DefaultSymbol is a liquid, always-listed ticker every provider serves.
const DefaultSymbol = "AAPL"

// Prober runs health probes against a fixed provider set.
type Prober struct {
	providers []provider.Provider
	symbol    string
	timeout   time.Duration
	now       func() time.Time
}

// Option configures a Prober.
type Option func(*Prober)

// WithSymbol sets the probe symbol.
func WithSymbol(symbol string) Option {
	return func(p *Prober) {
		if symbol != "" {
			p.symbol = symbol
		}
	}
}

// WithTimeout bounds each provider's probe.
func WithTimeout(d time.Duration) Option {
	return func(p *Prober) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithClock replaces time.Now for CheckedAt.
func WithClock(now func() time.Time) Option {
	return func(p *Prober) {
		if now != nil {
			p.now = now
		}
	}
}

// NewProber creates a prober for providers, reported in the given order.
func NewProber(providers []provider.Provider, opts ...Option) *Prober {
	p := &Prober{
		providers: append([]provider.Provider(nil), providers...),
		symbol:    DefaultSymbol,
		timeout:   provider.DefaultTimeout,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Probe queries every provider in parallel and waits for all of them.
// It never fails: an unreachable provider is an error line in the report and
// a report where everything failed scores 0.
func (p *Prober) Probe(ctx context.Context) models.HealthReport {
	lines := make([]models.ProviderHealth, len(p.providers))

	var g errgroup.Group
	for i, prov := range p.providers {
		g.Go(func() error {
			lines[i] = p.probeOne(ctx, prov)
			return nil
		})
	}
	_ = g.Wait()

	success := 0
	for _, l := range lines {
		if l.Status == models.HealthSuccess {
			success++
		}
	}
	report := models.HealthReport{
		Providers:      lines,
		SuccessCount:   success,
		TotalProviders: len(lines),
		Score:          Score(success, len(lines)),
		CheckedAt:      p.now().UTC(),
	}

	logger.FromContext(ctx).Info().
		Int("score", report.Score).
		Int("success", report.SuccessCount).
		Int("total", report.TotalProviders).
		Msg("provider health probe")
	return report
}

// Score returns round(100 * success / total), or 0 when total is 0.
func Score(success, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(success) / float64(total)))
}

func (p *Prober) probeOne(ctx context.Context, prov provider.Provider) (line models.ProviderHealth) {
	id := safeID(prov)
	line = models.ProviderHealth{Provider: id, Status: models.HealthError}
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	type result struct {
		q   models.Quote
		err error
	}
	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("panic: %v", r)}
			}
		}()
		q, err := prov.FetchQuote(ctx, p.symbol)
		if err == nil {
			q, err = provider.NormalizeQuote(id, q)
		}
		done <- result{q: q, err: err}
	}()

	var r result
	select {
	case r = <-done:
	case <-ctx.Done():
		r.err = &provider.Error{Provider: id, Operation: provider.OpQuote, Kind: provider.KindUpstream,
			Message: "timeout after " + p.timeout.String(), Err: ctx.Err()}
	}
	line.LatencyMS = time.Since(start).Milliseconds()

	if r.err != nil {
		line.Message = provider.Classify(id, provider.OpQuote, r.err).Error()
		return line
	}
	q := r.q
	line.Status = models.HealthSuccess
	line.Message = "ok"
	line.Sample = &q
	return line
}

// safeID reads a provider id, tolerating a provider that panics on ID.
func safeID(prov provider.Provider) (id string) {
	defer func() {
		if r := recover(); r != nil {
			id = "unknown"
		}
	}()
	return prov.ID()
}
