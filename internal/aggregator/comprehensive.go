package aggregator

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/marketpulse/internal/domain/models"
	"github.com/guttosm/marketpulse/internal/logger"
	"github.com/guttosm/marketpulse/internal/provider"
)

// slot holds the settled outcome of one provider during a fan-out round.
// Each goroutine writes only its own slot, so no locking is needed.
type slot struct {
	quote      *models.Quote
	profile    *models.Profile
	quoteErr   *provider.Error
	profileErr *provider.Error
}

// Comprehensive asks every provider for its quote (and profile, for providers
// selected with WithProfileProviders) concurrently and waits for all of them.
//
// Nothing short-circuits: each call has its own timeout and every success or
// failure ends up in the record. A provider counts as successful when at least
// one of its calls succeeded. When none succeeded the record is still
// returned, together with an *provider.AllProvidersFailedError.
func (a *Aggregator) Comprehensive(ctx context.Context, symbol string) (models.ComprehensiveRecord, error) {
	slots := make([]slot, len(a.providers))

	// Tasks never return an error, so the group never cancels a sibling.
	var g errgroup.Group
	for i, p := range a.providers {
		g.Go(func() error {
			q, err := invoke(ctx, a.callTimeout, p.ID(), provider.OpQuote, func(ctx context.Context) (models.Quote, error) {
				q, err := p.FetchQuote(ctx, symbol)
				if err != nil {
					return models.Quote{}, err
				}
				return provider.NormalizeQuote(p.ID(), q)
			})
			if err != nil {
				slots[i].quoteErr = provider.Classify(p.ID(), provider.OpQuote, err)
				return nil
			}
			slots[i].quote = &q
			return nil
		})

		pf, ok := p.(provider.ProfileFetcher)
		if !ok || !a.wantsProfile(p.ID()) {
			continue
		}
		g.Go(func() error {
			prof, err := invoke(ctx, a.callTimeout, p.ID(), provider.OpProfile, func(ctx context.Context) (models.Profile, error) {
				return pf.FetchProfile(ctx, symbol)
			})
			if err != nil {
				slots[i].profileErr = provider.Classify(p.ID(), provider.OpProfile, err)
				return nil
			}
			slots[i].profile = &prof
			return nil
		})
	}
	_ = g.Wait()

	rec := models.ComprehensiveRecord{
		Symbol:    symbol,
		Providers: make(map[string]models.ProviderSnapshot, len(a.providers)),
		Errors:    []models.ProviderError{},
		AsOf:      a.now().UTC(),
	}
	var failures []*provider.Error
	for i, p := range a.providers {
		s := slots[i]
		if s.quote != nil || s.profile != nil {
			rec.Providers[p.ID()] = models.ProviderSnapshot{Quote: s.quote, Profile: s.profile}
			rec.SuccessfulProviders++
		}
		for _, e := range []*provider.Error{s.quoteErr, s.profileErr} {
			if e == nil {
				continue
			}
			failures = append(failures, e)
			rec.Errors = append(rec.Errors, models.ProviderError{
				Provider:  e.Provider,
				Operation: e.Operation,
				Kind:      string(e.Kind),
				Message:   e.Error(),
			})
		}
	}

	log := logger.FromContext(ctx)
	log.Info().Str("symbol", symbol).Int("successful_providers", rec.SuccessfulProviders).
		Int("errors", len(rec.Errors)).Msg("comprehensive round settled")

	if rec.SuccessfulProviders == 0 {
		return rec, provider.NewAllProvidersFailed(OpComprehensive, symbol, failures)
	}
	return rec, nil
}
