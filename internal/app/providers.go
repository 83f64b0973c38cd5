package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/guttosm/marketpulse/config"
	"github.com/guttosm/marketpulse/internal/logger"
	"github.com/guttosm/marketpulse/internal/provider"
	"github.com/guttosm/marketpulse/internal/provider/alphavantage"
	"github.com/guttosm/marketpulse/internal/provider/finnhub"
	"github.com/guttosm/marketpulse/internal/provider/polygon"
)

// ErrNoProviders is returned when no provider in the priority list has an API key.
var ErrNoProviders = errors.New("no provider configured")

// constructors maps a provider id to its adapter constructor.
var constructors = map[string]func(apiKey string, opts ...provider.Option) provider.Provider{
	config.ProviderAlphaVantage: func(k string, o ...provider.Option) provider.Provider { return alphavantage.New(k, o...) },
	config.ProviderFinnhub:      func(k string, o ...provider.Option) provider.Provider { return finnhub.New(k, o...) },
	config.ProviderPolygon:      func(k string, o ...provider.Option) provider.Provider { return polygon.New(k, o...) },
}

// BuildProviders creates the adapters listed in cfg.Priority, in that order.
//
// Behavior:
//   - Providers without an API key are skipped (logged at info).
//   - All adapters share one pooled HTTP client.
//   - Timeout, retries and base URL overrides come from cfg.
//
// Returns ErrNoProviders when nothing could be built.
func BuildProviders(cfg config.ProvidersConfig) ([]provider.Provider, error) {
	client := provider.NewHTTPClient(cfg.Timeout)

	out := make([]provider.Provider, 0, len(cfg.Priority))
	for _, id := range cfg.Priority {
		pc, ok := cfg.Get(id)
		build, known := constructors[id]
		if !ok || !known {
			return nil, fmt.Errorf("unknown provider %q", id)
		}
		if pc.APIKey == "" {
			logger.L().Info().Str("provider", id).Msg("provider skipped: no api key")
			continue
		}
		out = append(out, build(pc.APIKey,
			provider.WithHTTPClient(client),
			provider.WithTimeout(cfg.Timeout),
			provider.WithRetries(cfg.MaxRetries, cfg.RetryInitialBackoff),
			provider.WithBaseURL(pc.BaseURL),
		))
	}
	if len(out) == 0 {
		return nil, ErrNoProviders
	}
	return out, nil
}

// callBudget is how long the aggregator lets one adapter call run, retries
// and their backoff waits included.
func callBudget(cfg config.ProvidersConfig) time.Duration {
	return provider.RetryBudget(cfg.Timeout, cfg.MaxRetries, cfg.RetryInitialBackoff)
}
