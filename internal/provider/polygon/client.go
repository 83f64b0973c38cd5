// Package polygon adapts the Polygon.io REST API (https://polygon.io/docs/stocks).
package polygon

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/guttosm/marketpulse/internal/calendar"
	"github.com/guttosm/marketpulse/internal/domain/models"
	"github.com/guttosm/marketpulse/internal/provider"
)

const (
	// ID is the provider key used in records and config.
	ID = "polygon"
	// DefaultBaseURL is the public API root.
	DefaultBaseURL = "https://api.polygon.io"

	dateLayout         = "2006-01-02"
	compactLookbackDay = 150
	fullLookbackYears  = 2
	newsLimit          = "50"
	searchLimit        = "20"
)

// Client implements provider.Provider, ProfileFetcher, TimeSeriesFetcher,
// NewsFetcher and Searcher.
type Client struct {
	t *provider.Transport
}

// New builds a client authenticated with apiKey.
func New(apiKey string, opts ...provider.Option) *Client {
	opts = append([]provider.Option{provider.WithQueryParam("apiKey", apiKey)}, opts...)
	return &Client{t: provider.NewTransport(ID, DefaultBaseURL, opts...)}
}

func (c *Client) ID() string { return ID }

// FetchQuote reads the previous session's aggregate. Polygon's free tier has
// no real-time last trade, so the close of that bar is the price and no
// previous close is known.
func (c *Client) FetchQuote(ctx context.Context, symbol string) (models.Quote, error) {
	var raw aggsResponse
	path := "/v2/aggs/ticker/" + url.PathEscape(symbol) + "/prev"
	if err := c.get(ctx, provider.OpQuote, path, url.Values{"adjusted": {"true"}}, &raw.envelope, &raw); err != nil {
		return models.Quote{}, err
	}
	if len(raw.Results) == 0 {
		return models.Quote{}, provider.NewError(ID, provider.OpQuote, provider.KindSymbolNotFound, "no previous close for %q", symbol)
	}
	a := raw.Results[0]
	if a.Close == nil {
		return models.Quote{}, provider.NewError(ID, provider.OpQuote, provider.KindMalformedResponse, "aggregate for %q has no close", symbol)
	}
	q := models.Quote{
		Symbol: symbol,
		Price:  *a.Close,
		Open:   a.Open,
		High:   a.High,
		Low:    a.Low,
		Volume: int64(a.Volume),
	}
	if a.Millis > 0 {
		q.AsOf = time.UnixMilli(a.Millis).UTC()
	}
	return provider.NormalizeQuote(ID, q)
}

// FetchProfile calls the v3 ticker details endpoint.
func (c *Client) FetchProfile(ctx context.Context, symbol string) (models.Profile, error) {
	var raw tickerDetailsResponse
	if err := c.get(ctx, provider.OpProfile, "/v3/reference/tickers/"+url.PathEscape(symbol), nil, &raw.envelope, &raw); err != nil {
		return models.Profile{}, err
	}
	d := raw.Results
	if d == nil || d.Name == "" {
		return models.Profile{}, provider.NewError(ID, provider.OpProfile, provider.KindSymbolNotFound, "no ticker details for %q", symbol)
	}
	p := models.Profile{
		Symbol:      d.Ticker,
		CompanyName: d.Name,
		Country:     strings.ToUpper(d.Locale),
		Currency:    strings.ToUpper(d.CurrencyName),
		Exchange:    d.PrimaryExchange,
		Industry:    d.SICDescription,
		Logo:        d.Branding.LogoURL,
		WebURL:      d.HomepageURL,
		IPODate:     d.ListDate,
		SourceID:    ID,
	}
	if d.MarketCap > 0 {
		mc := d.MarketCap
		p.MarketCap = &mc
	}
	return p, nil
}

// FetchTimeSeries requests daily aggregates over a range ending at the last US
// business day: 150 calendar days for compact (then trimmed) or 2 years for full.
func (c *Client) FetchTimeSeries(ctx context.Context, symbol string, size models.OutputSize) ([]models.Bar, error) {
	to := calendar.LastBusinessDay(c.t.Now().UTC())
	from := to.AddDate(0, 0, -compactLookbackDay)
	if size == models.OutputFull {
		from = to.AddDate(-fullLookbackYears, 0, 0)
	}
	path := "/v2/aggs/ticker/" + url.PathEscape(symbol) + "/range/1/day/" + from.Format(dateLayout) + "/" + to.Format(dateLayout)
	q := url.Values{"adjusted": {"true"}, "sort": {"asc"}, "limit": {"50000"}}

	var raw aggsResponse
	if err := c.get(ctx, provider.OpTimeSeries, path, q, &raw.envelope, &raw); err != nil {
		return nil, err
	}
	bars := make([]models.Bar, 0, len(raw.Results))
	for _, a := range raw.Results {
		if a.Close == nil {
			return nil, provider.NewError(ID, provider.OpTimeSeries, provider.KindMalformedResponse, "aggregate at %d has no close", a.Millis)
		}
		bars = append(bars, models.Bar{
			Date:     time.UnixMilli(a.Millis).UTC(),
			Open:     a.Open,
			High:     a.High,
			Low:      a.Low,
			Close:    *a.Close,
			Volume:   int64(a.Volume),
			Interval: models.IntervalDaily,
		})
	}
	bars, err := provider.NormalizeBars(ID, bars)
	if err != nil {
		return nil, err
	}
	return provider.TrimToSize(bars, size), nil
}

// FetchCompanyNews calls /v2/reference/news filtered by ticker. Sentiment comes
// from the insight Polygon attaches for that ticker, when there is one.
// to is a whole day, so the upper bound is its last second.
func (c *Client) FetchCompanyNews(ctx context.Context, symbol string, from, to *time.Time) ([]models.NewsArticle, error) {
	q := url.Values{"ticker": {symbol}, "limit": {newsLimit}, "order": {"desc"}, "sort": {"published_utc"}}
	if from != nil {
		q.Set("published_utc.gte", from.UTC().Format(dateLayout))
	}
	if to != nil {
		q.Set("published_utc.lte", to.UTC().Format(dateLayout)+"T23:59:59Z")
	}
	return c.news(ctx, provider.OpNews, q, symbol)
}

// FetchMarketNews returns the latest articles. Polygon has no news categories,
// so only "general" is served.
func (c *Client) FetchMarketNews(ctx context.Context, category string) ([]models.NewsArticle, error) {
	if category != "" && category != "general" {
		return nil, provider.NewError(ID, provider.OpMarketNews, provider.KindUpstream, "category %q not supported", category)
	}
	return c.news(ctx, provider.OpMarketNews, url.Values{"limit": {newsLimit}, "order": {"desc"}, "sort": {"published_utc"}}, "")
}

// Search matches keywords against ticker and company name.
func (c *Client) Search(ctx context.Context, keywords string) ([]models.SearchResult, error) {
	var raw tickersResponse
	q := url.Values{"search": {keywords}, "active": {"true"}, "limit": {searchLimit}}
	if err := c.get(ctx, provider.OpSearch, "/v3/reference/tickers", q, &raw.envelope, &raw); err != nil {
		return nil, err
	}
	out := make([]models.SearchResult, 0, len(raw.Results))
	for _, r := range raw.Results {
		out = append(out, models.SearchResult{
			Symbol:   r.Ticker,
			Name:     r.Name,
			Type:     r.Type,
			Region:   strings.ToUpper(r.Locale),
			Currency: strings.ToUpper(r.CurrencyName),
			SourceID: ID,
		})
	}
	return out, nil
}

func (c *Client) news(ctx context.Context, op string, q url.Values, symbol string) ([]models.NewsArticle, error) {
	var raw newsResponse
	if err := c.get(ctx, op, "/v2/reference/news", q, &raw.envelope, &raw); err != nil {
		return nil, err
	}
	out := make([]models.NewsArticle, 0, len(raw.Results))
	for _, r := range raw.Results {
		published, err := time.Parse(time.RFC3339, r.PublishedUTC)
		if err != nil {
			return nil, &provider.Error{Provider: ID, Operation: op, Kind: provider.KindMalformedResponse,
				Message: "published_utc " + r.PublishedUTC, Err: err}
		}
		a := models.NewsArticle{
			ID:          r.ID,
			Title:       r.Title,
			Summary:     r.Description,
			Source:      r.Publisher.Name,
			SourceURL:   r.ArticleURL,
			PublishedAt: published.UTC(),
			Sentiment:   models.SentimentNeutral,
			SourceID:    ID,
		}
		if ins, ok := insightFor(r.Insights, symbol); ok {
			a.Sentiment, a.SentimentScore = sentimentOf(ins.Sentiment)
		}
		for _, t := range r.Tickers {
			a.AddRelated(t, "US")
		}
		out = append(out, a)
	}
	return out, nil
}

// get performs the request and turns an error envelope into a classified error.
func (c *Client) get(ctx context.Context, op, path string, q url.Values, env *envelope, out any) error {
	if err := c.t.GetJSON(ctx, op, path, q, out); err != nil {
		return err
	}
	if env.failed() {
		detail := env.detail()
		kind := provider.KindUpstream
		if strings.Contains(strings.ToLower(detail), "exceeded") {
			kind = provider.KindRateLimited
		}
		return provider.NewError(ID, op, kind, "%s: %s", env.Status, detail)
	}
	return nil
}

// insightFor picks the insight for symbol, or the first one for market news.
func insightFor(insights []newsInsight, symbol string) (newsInsight, bool) {
	for _, in := range insights {
		if symbol == "" || strings.EqualFold(in.Ticker, symbol) {
			return in, true
		}
	}
	return newsInsight{}, false
}

func sentimentOf(label string) (models.Sentiment, float64) {
	switch strings.ToLower(label) {
	case "positive":
		return models.SentimentPositive, 1
	case "negative":
		return models.SentimentNegative, -1
	default:
		return models.SentimentNeutral, 0
	}
}
