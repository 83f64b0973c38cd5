package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/guttosm/marketpulse/internal/domain/models"
	"github.com/guttosm/marketpulse/internal/logger"
	"github.com/guttosm/marketpulse/internal/storage"
)

var (
	// ErrInvalidArgument marks input rejected before any provider is called.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrArchiveDisabled is returned by GetQuoteHistory when no archive is configured.
	ErrArchiveDisabled = errors.New("quote archive disabled")
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 500
	DefaultNewsCategory = "general"
	maxKeywordsLength   = 64
)

var symbolPattern = regexp.MustCompile(`^[A-Z0-9.\-^=:]{1,32}$`)

// MarketService is what the HTTP layer and the CLI consume.
type MarketService interface {
	GetQuote(ctx context.Context, symbol string) (models.Quote, error)
	GetComprehensive(ctx context.Context, symbol string) (models.ComprehensiveRecord, error)
	GetProfile(ctx context.Context, symbol string) (models.Profile, error)
	GetTimeSeries(ctx context.Context, symbol string, size models.OutputSize, order models.SortOrder) ([]models.Bar, error)
	Search(ctx context.Context, keywords string) ([]models.SearchResult, error)
	GetMarketNews(ctx context.Context, category string) ([]models.NewsArticle, error)
	GetCompanyNews(ctx context.Context, symbol string, from, to *time.Time) ([]models.NewsArticle, error)
	GetSocialSentiment(ctx context.Context, symbol string) (models.SocialSentiment, error)
	GetQuoteHistory(ctx context.Context, symbol string, limit int) ([]models.Quote, error)
	TestAllProviders(ctx context.Context) models.HealthReport
}

// Aggregator is the subset of *aggregator.Aggregator the service relies on.
type Aggregator interface {
	Quote(ctx context.Context, symbol string) (models.Quote, error)
	Comprehensive(ctx context.Context, symbol string) (models.ComprehensiveRecord, error)
	Profile(ctx context.Context, symbol string) (models.Profile, error)
	TimeSeries(ctx context.Context, symbol string, size models.OutputSize) ([]models.Bar, error)
	Search(ctx context.Context, keywords string) ([]models.SearchResult, error)
	MarketNews(ctx context.Context, category string) ([]models.NewsArticle, error)
	CompanyNews(ctx context.Context, symbol string, from, to *time.Time) ([]models.NewsArticle, error)
	SocialSentiment(ctx context.Context, symbol string) (models.SocialSentiment, error)
}

// Prober runs a provider health probe.
type Prober interface {
	Probe(ctx context.Context) models.HealthReport
}

type marketService struct {
	agg     Aggregator
	prober  Prober
	archive storage.SnapshotRepository
}

// NewMarketService wires the service. archive may be nil, which disables
// quote archiving and history.
func NewMarketService(agg Aggregator, prober Prober, archive storage.SnapshotRepository) MarketService {
	return &marketService{agg: agg, prober: prober, archive: archive}
}

func (s *marketService) GetQuote(ctx context.Context, symbol string) (models.Quote, error) {
	sym, err := NormalizeSymbol(symbol)
	if err != nil {
		return models.Quote{}, err
	}
	q, err := s.agg.Quote(ctx, sym)
	if err != nil {
		return models.Quote{}, err
	}
	s.archiveQuotes(ctx, q)
	return q, nil
}

// GetComprehensive returns the record even when err is non-nil, so callers
// can show which providers failed and why.
func (s *marketService) GetComprehensive(ctx context.Context, symbol string) (models.ComprehensiveRecord, error) {
	sym, err := NormalizeSymbol(symbol)
	if err != nil {
		return models.ComprehensiveRecord{}, err
	}
	rec, err := s.agg.Comprehensive(ctx, sym)
	if err != nil {
		return rec, err
	}
	ids := make([]string, 0, len(rec.Providers))
	for id := range rec.Providers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	quotes := make([]models.Quote, 0, len(ids))
	for _, id := range ids {
		if q := rec.Providers[id].Quote; q != nil {
			quotes = append(quotes, *q)
		}
	}
	s.archiveQuotes(ctx, quotes...)
	return rec, nil
}

func (s *marketService) GetTimeSeries(ctx context.Context, symbol string, size models.OutputSize, order models.SortOrder) ([]models.Bar, error) {
	sym, err := NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	if size == "" {
		size = models.OutputCompact
	}
	if size != models.OutputCompact && size != models.OutputFull {
		return nil, fmt.Errorf("%w: output size %q", ErrInvalidArgument, size)
	}
	if order == "" {
		order = models.Ascending
	}
	if order != models.Ascending && order != models.Descending {
		return nil, fmt.Errorf("%w: order %q", ErrInvalidArgument, order)
	}
	bars, err := s.agg.TimeSeries(ctx, sym, size)
	if err != nil {
		return nil, err
	}
	out := append([]models.Bar(nil), bars...)
	models.SortBars(out, order)
	return out, nil
}

func (s *marketService) Search(ctx context.Context, keywords string) ([]models.SearchResult, error) {
	kw := strings.TrimSpace(keywords)
	if kw == "" {
		return nil, fmt.Errorf("%w: keywords are required", ErrInvalidArgument)
	}
	if len(kw) > maxKeywordsLength {
		return nil, fmt.Errorf("%w: keywords longer than %d characters", ErrInvalidArgument, maxKeywordsLength)
	}
	return s.agg.Search(ctx, kw)
}

func (s *marketService) GetMarketNews(ctx context.Context, category string) ([]models.NewsArticle, error) {
	c := strings.ToLower(strings.TrimSpace(category))
	if c == "" {
		c = DefaultNewsCategory
	}
	return s.agg.MarketNews(ctx, c)
}

func (s *marketService) GetCompanyNews(ctx context.Context, symbol string, from, to *time.Time) ([]models.NewsArticle, error) {
	sym, err := NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	if from != nil && to != nil && from.After(*to) {
		return nil, fmt.Errorf("%w: from is after to", ErrInvalidArgument)
	}
	return s.agg.CompanyNews(ctx, sym, from, to)
}

func (s *marketService) GetProfile(ctx context.Context, symbol string) (models.Profile, error) {
	sym, err := NormalizeSymbol(symbol)
	if err != nil {
		return models.Profile{}, err
	}
	return s.agg.Profile(ctx, sym)
}

func (s *marketService) GetSocialSentiment(ctx context.Context, symbol string) (models.SocialSentiment, error) {
	sym, err := NormalizeSymbol(symbol)
	if err != nil {
		return models.SocialSentiment{}, err
	}
	return s.agg.SocialSentiment(ctx, sym)
}

func (s *marketService) GetQuoteHistory(ctx context.Context, symbol string, limit int) ([]models.Quote, error) {
	if s.archive == nil {
		return nil, ErrArchiveDisabled
	}
	sym, err := NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	if limit == 0 {
		limit = DefaultHistoryLimit
	}
	if limit < 0 || limit > MaxHistoryLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidArgument, MaxHistoryLimit)
	}
	return s.archive.LatestQuotes(ctx, sym, limit)
}

func (s *marketService) TestAllProviders(ctx context.Context) models.HealthReport {
	return s.prober.Probe(ctx)
}

// archiveQuotes stores quotes when an archive is configured. Failures are
// logged and never reach the caller.
func (s *marketService) archiveQuotes(ctx context.Context, quotes ...models.Quote) {
	if s.archive == nil || len(quotes) == 0 {
		return
	}
	if err := s.archive.SaveQuotes(ctx, quotes); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Int("quotes", len(quotes)).Msg("archive quotes failed")
	}
}

// NormalizeSymbol trims and upper-cases a ticker and rejects anything that
// cannot be one.
func NormalizeSymbol(symbol string) (string, error) {
	sym := strings.ToUpper(strings.TrimSpace(symbol))
	if sym == "" {
		return "", fmt.Errorf("%w: symbol is required", ErrInvalidArgument)
	}
	if !symbolPattern.MatchString(sym) {
		return "", fmt.Errorf("%w: malformed symbol %q", ErrInvalidArgument, symbol)
	}
	return sym, nil
}
