// Package alphavantage adapts the Alpha Vantage query API
// (https://www.alphavantage.co/documentation/). Every operation is a GET on
// /query selected with the function parameter.
package alphavantage

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/guttosm/marketpulse/internal/domain/models"
	"github.com/guttosm/marketpulse/internal/provider"
)

const (
	// ID is the provider key used in records and config.
	ID = "alphavantage"
	// DefaultBaseURL is the public API root.
	DefaultBaseURL = "https://www.alphavantage.co"

	queryPath       = "/query"
	dateLayout      = "2006-01-02"
	publishedLayout = "20060102T150405"
	dayLayout       = "20060102"
	newsLimit       = "50"
)

// topics maps news categories onto NEWS_SENTIMENT topics.
var topics = map[string]string{
	"general":    "financial_markets",
	"technology": "technology",
	"crypto":     "blockchain",
	"forex":      "economy_monetary",
	"merger":     "mergers_and_acquisitions",
	"earnings":   "earnings",
	"ipo":        "ipo",
}

// Client implements provider.Provider, ProfileFetcher, TimeSeriesFetcher,
// NewsFetcher and Searcher.
type Client struct {
	t *provider.Transport
}

// New builds a client authenticated with apiKey.
func New(apiKey string, opts ...provider.Option) *Client {
	opts = append([]provider.Option{provider.WithQueryParam("apikey", apiKey)}, opts...)
	return &Client{t: provider.NewTransport(ID, DefaultBaseURL, opts...)}
}

func (c *Client) ID() string { return ID }

// FetchQuote calls GLOBAL_QUOTE. An empty "Global Quote" object is the
// provider's way of saying the symbol is unknown.
func (c *Client) FetchQuote(ctx context.Context, symbol string) (models.Quote, error) {
	var raw globalQuoteResponse
	if err := c.query(ctx, provider.OpQuote, url.Values{"function": {"GLOBAL_QUOTE"}, "symbol": {symbol}}, &raw.envelope, &raw); err != nil {
		return models.Quote{}, err
	}
	if raw.Quote == nil {
		return models.Quote{}, provider.NewError(ID, provider.OpQuote, provider.KindMalformedResponse, "response has no Global Quote")
	}
	g := *raw.Quote
	if g == (globalQuote{}) {
		return models.Quote{}, provider.NewError(ID, provider.OpQuote, provider.KindSymbolNotFound, "empty global quote for %q", symbol)
	}

	q := models.Quote{Symbol: firstNonEmpty(g.Symbol, symbol)}
	fields := []struct {
		name     string
		raw      string
		dst      *float64
		required bool
	}{
		{"05. price", g.Price, &q.Price, true},
		{"02. open", g.Open, &q.Open, false},
		{"03. high", g.High, &q.High, false},
		{"04. low", g.Low, &q.Low, false},
		{"08. previous close", g.PreviousClose, &q.PreviousClose, true},
		{"09. change", g.Change, &q.Change, false},
		{"10. change percent", g.ChangePercent, &q.ChangePercent, false},
	}
	for _, f := range fields {
		if f.required && strings.TrimSpace(f.raw) == "" {
			return models.Quote{}, missing(provider.OpQuote, f.name)
		}
		v, err := number(f.name, f.raw)
		if err != nil {
			return models.Quote{}, malformed(provider.OpQuote, err)
		}
		*f.dst = v
	}
	vol, err := number("06. volume", g.Volume)
	if err != nil {
		return models.Quote{}, malformed(provider.OpQuote, err)
	}
	q.Volume = int64(vol)
	if d, err := time.Parse(dateLayout, g.LatestTradingDay); err == nil {
		q.AsOf = d
	}
	return provider.NormalizeQuote(ID, q)
}

// FetchProfile calls OVERVIEW.
func (c *Client) FetchProfile(ctx context.Context, symbol string) (models.Profile, error) {
	var raw overviewResponse
	if err := c.query(ctx, provider.OpProfile, url.Values{"function": {"OVERVIEW"}, "symbol": {symbol}}, &raw.envelope, &raw); err != nil {
		return models.Profile{}, err
	}
	if raw.Symbol == "" && raw.Name == "" {
		return models.Profile{}, provider.NewError(ID, provider.OpProfile, provider.KindSymbolNotFound, "no overview for %q", symbol)
	}
	p := models.Profile{
		Symbol:      firstNonEmpty(raw.Symbol, symbol),
		CompanyName: raw.Name,
		Country:     raw.Country,
		Currency:    raw.Currency,
		Exchange:    raw.Exchange,
		Industry:    firstNonEmpty(raw.Industry, raw.Sector),
		WebURL:      raw.OfficialSite,
		SourceID:    ID,
	}
	mc, err := number("MarketCapitalization", raw.MarketCapitalization)
	if err != nil {
		return models.Profile{}, malformed(provider.OpProfile, err)
	}
	if mc > 0 {
		p.MarketCap = &mc
	}
	return p, nil
}

// FetchTimeSeries calls TIME_SERIES_DAILY and flattens the per-date map.
func (c *Client) FetchTimeSeries(ctx context.Context, symbol string, size models.OutputSize) ([]models.Bar, error) {
	q := url.Values{"function": {"TIME_SERIES_DAILY"}, "symbol": {symbol}, "outputsize": {string(size)}}
	var raw dailyResponse
	if err := c.query(ctx, provider.OpTimeSeries, q, &raw.envelope, &raw); err != nil {
		return nil, err
	}
	// a missing key is a schema problem, an empty object an unknown symbol
	if raw.Series == nil {
		return nil, provider.NewError(ID, provider.OpTimeSeries, provider.KindMalformedResponse, "response has no Time Series (Daily)")
	}
	bars := make([]models.Bar, 0, len(raw.Series))
	for day, p := range raw.Series {
		d, err := time.Parse(dateLayout, day)
		if err != nil {
			return nil, provider.NewError(ID, provider.OpTimeSeries, provider.KindMalformedResponse, "bad series date %q", day)
		}
		bar := models.Bar{Date: d, Interval: models.IntervalDaily}
		for _, f := range []struct {
			name, raw string
			dst       *float64
		}{
			{"1. open", p.Open, &bar.Open},
			{"2. high", p.High, &bar.High},
			{"3. low", p.Low, &bar.Low},
			{"4. close", p.Close, &bar.Close},
		} {
			if strings.TrimSpace(f.raw) == "" {
				return nil, missing(provider.OpTimeSeries, f.name)
			}
			v, err := number(f.name, f.raw)
			if err != nil {
				return nil, malformed(provider.OpTimeSeries, err)
			}
			*f.dst = v
		}
		vol, err := number("5. volume", p.Volume)
		if err != nil {
			return nil, malformed(provider.OpTimeSeries, err)
		}
		bar.Volume = int64(vol)
		bars = append(bars, bar)
	}
	bars, err := provider.NormalizeBars(ID, bars)
	if err != nil {
		return nil, err
	}
	return provider.TrimToSize(bars, size), nil
}

// Search calls SYMBOL_SEARCH.
func (c *Client) Search(ctx context.Context, keywords string) ([]models.SearchResult, error) {
	var raw searchResponse
	if err := c.query(ctx, provider.OpSearch, url.Values{"function": {"SYMBOL_SEARCH"}, "keywords": {keywords}}, &raw.envelope, &raw); err != nil {
		return nil, err
	}
	out := make([]models.SearchResult, 0, len(raw.BestMatches))
	for _, m := range raw.BestMatches {
		score, err := number("9. matchScore", m.MatchScore)
		if err != nil {
			return nil, malformed(provider.OpSearch, err)
		}
		out = append(out, models.SearchResult{
			Symbol:     m.Symbol,
			Name:       m.Name,
			Type:       m.Type,
			Region:     m.Region,
			Currency:   m.Currency,
			MatchScore: score,
			SourceID:   ID,
		})
	}
	return out, nil
}

// FetchCompanyNews calls NEWS_SENTIMENT filtered by ticker. from and to are
// whole days: the window runs from from's first minute to to's last.
func (c *Client) FetchCompanyNews(ctx context.Context, symbol string, from, to *time.Time) ([]models.NewsArticle, error) {
	q := url.Values{"function": {"NEWS_SENTIMENT"}, "tickers": {symbol}, "limit": {newsLimit}, "sort": {"LATEST"}}
	if from != nil {
		q.Set("time_from", from.UTC().Format(dayLayout)+"T0000")
	}
	if to != nil {
		q.Set("time_to", to.UTC().Format(dayLayout)+"T2359")
	}
	return c.news(ctx, provider.OpNews, q, symbol)
}

// FetchMarketNews calls NEWS_SENTIMENT filtered by the topic mapped from category.
func (c *Client) FetchMarketNews(ctx context.Context, category string) ([]models.NewsArticle, error) {
	if category == "" {
		category = "general"
	}
	topic, ok := topics[category]
	if !ok {
		return nil, provider.NewError(ID, provider.OpMarketNews, provider.KindUpstream, "category %q not supported", category)
	}
	q := url.Values{"function": {"NEWS_SENTIMENT"}, "topics": {topic}, "limit": {newsLimit}, "sort": {"LATEST"}}
	return c.news(ctx, provider.OpMarketNews, q, "")
}

func (c *Client) news(ctx context.Context, op string, q url.Values, symbol string) ([]models.NewsArticle, error) {
	var raw newsResponse
	if err := c.query(ctx, op, q, &raw.envelope, &raw); err != nil {
		return nil, err
	}
	out := make([]models.NewsArticle, 0, len(raw.Feed))
	for _, item := range raw.Feed {
		published, err := time.Parse(publishedLayout, item.TimePublished)
		if err != nil {
			return nil, provider.NewError(ID, op, provider.KindMalformedResponse, "bad time_published %q", item.TimePublished)
		}
		a := models.NewsArticle{
			ID:             uuid.NewSHA1(uuid.NameSpaceURL, []byte(item.URL)).String(),
			Title:          item.Title,
			Summary:        item.Summary,
			Source:         item.Source,
			SourceURL:      item.URL,
			PublishedAt:    published.UTC(),
			SentimentScore: models.ClampScore(item.OverallScore),
			SourceID:       ID,
		}
		for _, ts := range item.Tickers {
			if symbol != "" && strings.EqualFold(ts.Ticker, symbol) {
				if s, err := number("ticker_sentiment_score", ts.Score); err == nil {
					a.SentimentScore = models.ClampScore(s)
				}
			}
			a.AddRelated(ts.Ticker, "US")
		}
		a.Sentiment = models.SentimentFromScore(a.SentimentScore)
		out = append(out, a)
	}
	return out, nil
}

// query issues GET /query and checks the error envelope.
func (c *Client) query(ctx context.Context, op string, q url.Values, env *envelope, out any) error {
	if err := c.t.GetJSON(ctx, op, queryPath, q, out); err != nil {
		return err
	}
	return env.check(op)
}

func malformed(op string, err error) error {
	return &provider.Error{Provider: ID, Operation: op, Kind: provider.KindMalformedResponse, Err: err}
}

func missing(op, field string) error {
	return provider.NewError(ID, op, provider.KindMalformedResponse, "missing field %q", field)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
