// Package provider defines the contract every upstream market data adapter
// implements, the error taxonomy they share and the HTTP plumbing they use.
package provider

import (
	"context"
	"time"

	"github.com/guttosm/marketpulse/internal/domain/models"
)

// Operation names used in errors, logs and comprehensive records.
const (
	OpQuote      = "quote"
	OpProfile    = "profile"
	OpTimeSeries = "time_series"
	OpSearch     = "search"
	OpMarketNews = "market_news"
	OpNews       = "company_news"
	OpSentiment  = "social_sentiment"
)

// Provider is the minimum every adapter supports.
//
//go:generate mockgen -package=aggregator -destination=../aggregator/mock_provider_test.go . Provider,ProfileFetcher
type Provider interface {
	ID() string
	FetchQuote(ctx context.Context, symbol string) (models.Quote, error)
}

// ProfileFetcher returns company reference data.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, symbol string) (models.Profile, error)
}

// TimeSeriesFetcher returns daily bars sorted ascending by date.
type TimeSeriesFetcher interface {
	FetchTimeSeries(ctx context.Context, symbol string, size models.OutputSize) ([]models.Bar, error)
}

// NewsFetcher returns company and market news.
// from and to are UTC calendar days and both are inclusive. A nil from/to lets
// the adapter apply its own default window.
type NewsFetcher interface {
	FetchCompanyNews(ctx context.Context, symbol string, from, to *time.Time) ([]models.NewsArticle, error)
	FetchMarketNews(ctx context.Context, category string) ([]models.NewsArticle, error)
}

// Searcher resolves free-text keywords to symbols.
type Searcher interface {
	Search(ctx context.Context, keywords string) ([]models.SearchResult, error)
}

// SentimentFetcher returns aggregated social media sentiment.
type SentimentFetcher interface {
	FetchSocialSentiment(ctx context.Context, symbol string) (models.SocialSentiment, error)
}
