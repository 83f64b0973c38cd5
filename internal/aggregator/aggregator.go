// Package aggregator combines the configured providers behind one API.
//
// Single-valued reads use a fallback chain: providers are tried one at a time
// in priority order and the first success wins. The comprehensive view fans
// out to every provider at once, waits for all of them and records every
// outcome without reconciling conflicting values.
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/guttosm/marketpulse/internal/domain/models"
	"github.com/guttosm/marketpulse/internal/logger"
	"github.com/guttosm/marketpulse/internal/provider"
)

// OpComprehensive names the fan-out operation in errors and logs.
const OpComprehensive = "comprehensive"

// DefaultCallTimeout bounds each provider call made by the aggregator.
const DefaultCallTimeout = provider.DefaultTimeout

// Aggregator holds providers in priority order. It is safe for concurrent use
// and never mutates the providers it was built with.
type Aggregator struct {
	providers        []provider.Provider
	callTimeout      time.Duration
	profileProviders map[string]bool
	now              func() time.Time
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithCallTimeout sets the timeout applied to every single provider call.
func WithCallTimeout(d time.Duration) Option {
	return func(a *Aggregator) {
		if d > 0 {
			a.callTimeout = d
		}
	}
}

// WithProfileProviders selects which providers contribute a profile to the
// comprehensive view. By default every provider able to serve one does.
func WithProfileProviders(ids ...string) Option {
	return func(a *Aggregator) {
		a.profileProviders = make(map[string]bool, len(ids))
		for _, id := range ids {
			if id = strings.TrimSpace(id); id != "" {
				a.profileProviders[id] = true
			}
		}
	}
}

// WithClock replaces time.Now for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		if now != nil {
			a.now = now
		}
	}
}

// New builds an aggregator. The order of providers is their priority.
func New(providers []provider.Provider, opts ...Option) *Aggregator {
	a := &Aggregator{
		providers:   append([]provider.Provider(nil), providers...),
		callTimeout: DefaultCallTimeout,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Aggregator) wantsProfile(id string) bool {
	if a.profileProviders == nil {
		return true
	}
	return a.profileProviders[id]
}

// Quote returns the first valid quote in priority order.
func (a *Aggregator) Quote(ctx context.Context, symbol string) (models.Quote, error) {
	return fallback(ctx, a, provider.OpQuote, symbol, func(ctx context.Context, p provider.Provider) (models.Quote, error) {
		q, err := p.FetchQuote(ctx, symbol)
		if err != nil {
			return models.Quote{}, err
		}
		return provider.NormalizeQuote(p.ID(), q)
	})
}

// Profile returns the first company profile in priority order.
func (a *Aggregator) Profile(ctx context.Context, symbol string) (models.Profile, error) {
	return fallback(ctx, a, provider.OpProfile, symbol, func(ctx context.Context, p provider.ProfileFetcher) (models.Profile, error) {
		return p.FetchProfile(ctx, symbol)
	})
}

// TimeSeries returns daily bars, ascending by date.
func (a *Aggregator) TimeSeries(ctx context.Context, symbol string, size models.OutputSize) ([]models.Bar, error) {
	return fallback(ctx, a, provider.OpTimeSeries, symbol, func(ctx context.Context, p provider.TimeSeriesFetcher) ([]models.Bar, error) {
		return p.FetchTimeSeries(ctx, symbol, size)
	})
}

// Search resolves keywords. An empty match list is a valid answer.
func (a *Aggregator) Search(ctx context.Context, keywords string) ([]models.SearchResult, error) {
	return fallback(ctx, a, provider.OpSearch, keywords, func(ctx context.Context, p provider.Searcher) ([]models.SearchResult, error) {
		return p.Search(ctx, keywords)
	})
}

// MarketNews returns general news for category.
func (a *Aggregator) MarketNews(ctx context.Context, category string) ([]models.NewsArticle, error) {
	return fallback(ctx, a, provider.OpMarketNews, category, func(ctx context.Context, p provider.NewsFetcher) ([]models.NewsArticle, error) {
		return p.FetchMarketNews(ctx, category)
	})
}

// CompanyNews returns news about symbol, optionally bounded by from and to.
func (a *Aggregator) CompanyNews(ctx context.Context, symbol string, from, to *time.Time) ([]models.NewsArticle, error) {
	return fallback(ctx, a, provider.OpNews, symbol, func(ctx context.Context, p provider.NewsFetcher) ([]models.NewsArticle, error) {
		return p.FetchCompanyNews(ctx, symbol, from, to)
	})
}

// SocialSentiment returns aggregated social media sentiment.
func (a *Aggregator) SocialSentiment(ctx context.Context, symbol string) (models.SocialSentiment, error) {
	return fallback(ctx, a, provider.OpSentiment, symbol, func(ctx context.Context, p provider.SentimentFetcher) (models.SocialSentiment, error) {
		return p.FetchSocialSentiment(ctx, symbol)
	})
}

// fallback tries every provider implementing C, one at a time in priority
// order, and stops at the first success. Every failure kind moves on to the
// next provider; caller cancellation ends the chain at once.
func fallback[C any, T any](ctx context.Context, a *Aggregator, op, target string, call func(context.Context, C) (T, error)) (T, error) {
	var zero T
	log := logger.FromContext(ctx)
	var failures []*provider.Error

	for _, p := range a.providers {
		capable, ok := p.(C)
		if !ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			return zero, fmt.Errorf("%s %s: %w", op, target, err)
		}

		start := time.Now()
		v, err := invoke(ctx, a.callTimeout, p.ID(), op, func(ctx context.Context) (T, error) { return call(ctx, capable) })
		if err == nil {
			log.Debug().Str("operation", op).Str("target", target).Str("provider", p.ID()).
				Dur("elapsed", time.Since(start)).Msg("provider answered")
			return v, nil
		}
		if ctx.Err() != nil {
			return zero, fmt.Errorf("%s %s: %w", op, target, ctx.Err())
		}

		pe := provider.Classify(p.ID(), op, err)
		failures = append(failures, pe)
		log.Warn().Str("operation", op).Str("target", target).Str("provider", p.ID()).
			Str("kind", string(pe.Kind)).Err(pe).Msg("provider failed, falling back")
	}

	failed := provider.NewAllProvidersFailed(op, target, failures)
	log.Error().Str("operation", op).Str("target", target).Int("attempts", len(failures)).
		Err(failed).Msg("all providers failed")
	return zero, failed
}

// invoke runs one provider call under the per-call timeout and returns once
// the call settles or the timeout fires, whichever comes first, so an adapter
// that ignores its context still cannot stall the caller. A panicking adapter
// is reported as an upstream error.
func invoke[T any](ctx context.Context, timeout time.Duration, providerID, op string, call func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		v   T
		err error
	}
	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: provider.NewError(providerID, op, provider.KindUpstream, "panic: %v", r)}
			}
		}()
		v, err := call(ctx)
		done <- result{v: v, err: err}
	}()

	select {
	case r := <-done:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		msg := "canceled"
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			msg = "timeout after " + timeout.String()
		}
		return zero, &provider.Error{Provider: providerID, Operation: op, Kind: provider.KindUpstream, Message: msg, Err: ctx.Err()}
	}
}
