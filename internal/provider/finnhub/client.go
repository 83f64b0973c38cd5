// Package finnhub adapts the Finnhub REST API (https://finnhub.io/docs/api).
package finnhub

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/guttosm/marketpulse/internal/domain/models"
	"github.com/guttosm/marketpulse/internal/provider"
)

const (
	// ID is the provider key used in records and config.
	ID = "finnhub"
	// DefaultBaseURL is the public API root.
	DefaultBaseURL = "https://finnhub.io/api/v1"

	tokenHeader       = "X-Finnhub-Token"
	dateLayout        = "2006-01-02"
	atTimeLayout      = "2006-01-02 15:04:05"
	defaultNewsWindow = 7 * 24 * time.Hour
	compactLookback   = 150 * 24 * time.Hour
	fullLookbackYears = 2
	market            = "US"
)

var categories = map[string]bool{"general": true, "forex": true, "crypto": true, "merger": true}

// Client implements provider.Provider, ProfileFetcher, TimeSeriesFetcher,
// NewsFetcher, Searcher and SentimentFetcher.
type Client struct {
	t *provider.Transport
}

// New builds a client authenticated with apiKey.
func New(apiKey string, opts ...provider.Option) *Client {
	opts = append([]provider.Option{provider.WithHeader(tokenHeader, apiKey)}, opts...)
	return &Client{t: provider.NewTransport(ID, DefaultBaseURL, opts...)}
}

func (c *Client) ID() string { return ID }

// FetchQuote calls /quote. Finnhub answers unknown symbols with an all-zero
// body, which normalization turns into SymbolNotFound.
func (c *Client) FetchQuote(ctx context.Context, symbol string) (models.Quote, error) {
	var raw quoteResponse
	if err := c.t.GetJSON(ctx, provider.OpQuote, "/quote", url.Values{"symbol": {symbol}}, &raw); err != nil {
		return models.Quote{}, err
	}
	q := models.Quote{
		Symbol:        symbol,
		Price:         raw.Current,
		Open:          raw.Open,
		High:          raw.High,
		Low:           raw.Low,
		PreviousClose: raw.PreviousClose,
	}
	if raw.Change != nil {
		q.Change = *raw.Change
	}
	if raw.PercentChange != nil {
		q.ChangePercent = *raw.PercentChange
	}
	if raw.Timestamp > 0 {
		q.AsOf = time.Unix(raw.Timestamp, 0).UTC()
	}
	return provider.NormalizeQuote(ID, q)
}

// FetchProfile calls /stock/profile2. An empty object means the symbol is unknown.
func (c *Client) FetchProfile(ctx context.Context, symbol string) (models.Profile, error) {
	var raw profileResponse
	if err := c.t.GetJSON(ctx, provider.OpProfile, "/stock/profile2", url.Values{"symbol": {symbol}}, &raw); err != nil {
		return models.Profile{}, err
	}
	if raw.Name == "" && raw.Ticker == "" {
		return models.Profile{}, provider.NewError(ID, provider.OpProfile, provider.KindSymbolNotFound, "no profile for %q", symbol)
	}
	p := models.Profile{
		Symbol:      firstNonEmpty(raw.Ticker, symbol),
		CompanyName: raw.Name,
		Country:     raw.Country,
		Currency:    raw.Currency,
		Exchange:    raw.Exchange,
		Industry:    raw.Industry,
		Logo:        raw.Logo,
		WebURL:      raw.WebURL,
		IPODate:     raw.IPO,
		SourceID:    ID,
	}
	if raw.MarketCapMillion > 0 {
		mc := raw.MarketCapMillion * 1e6
		p.MarketCap = &mc
	}
	return p, nil
}

// FetchTimeSeries zips /stock/candle's parallel arrays into daily bars.
func (c *Client) FetchTimeSeries(ctx context.Context, symbol string, size models.OutputSize) ([]models.Bar, error) {
	to := c.t.Now().UTC()
	from := to.Add(-compactLookback)
	if size == models.OutputFull {
		from = to.AddDate(-fullLookbackYears, 0, 0)
	}
	q := url.Values{
		"symbol":     {symbol},
		"resolution": {"D"},
		"from":       {strconv.FormatInt(from.Unix(), 10)},
		"to":         {strconv.FormatInt(to.Unix(), 10)},
	}
	var raw candleResponse
	if err := c.t.GetJSON(ctx, provider.OpTimeSeries, "/stock/candle", q, &raw); err != nil {
		return nil, err
	}
	switch raw.Status {
	case "ok":
	case "no_data":
		return nil, provider.NewError(ID, provider.OpTimeSeries, provider.KindSymbolNotFound, "no candles for %q", symbol)
	default:
		return nil, provider.NewError(ID, provider.OpTimeSeries, provider.KindMalformedResponse, "unexpected candle status %q", raw.Status)
	}
	n := len(raw.Timestamp)
	if len(raw.Open) != n || len(raw.High) != n || len(raw.Low) != n || len(raw.Close) != n || len(raw.Volume) != n {
		return nil, provider.NewError(ID, provider.OpTimeSeries, provider.KindMalformedResponse,
			"candle arrays differ in length (t=%d o=%d h=%d l=%d c=%d v=%d)",
			n, len(raw.Open), len(raw.High), len(raw.Low), len(raw.Close), len(raw.Volume))
	}
	bars := make([]models.Bar, 0, n)
	for i := 0; i < n; i++ {
		bars = append(bars, models.Bar{
			Date:     time.Unix(raw.Timestamp[i], 0).UTC(),
			Open:     raw.Open[i],
			High:     raw.High[i],
			Low:      raw.Low[i],
			Close:    raw.Close[i],
			Volume:   int64(raw.Volume[i]),
			Interval: models.IntervalDaily,
		})
	}
	bars, err := provider.NormalizeBars(ID, bars)
	if err != nil {
		return nil, err
	}
	return provider.TrimToSize(bars, size), nil
}

// FetchCompanyNews calls /company-news. Without a window it covers the last 7 days.
func (c *Client) FetchCompanyNews(ctx context.Context, symbol string, from, to *time.Time) ([]models.NewsArticle, error) {
	end := c.t.Now().UTC()
	if to != nil {
		end = *to
	}
	start := end.Add(-defaultNewsWindow)
	if from != nil {
		start = *from
	}
	q := url.Values{
		"symbol": {symbol},
		"from":   {start.UTC().Format(dateLayout)},
		"to":     {end.UTC().Format(dateLayout)},
	}
	var raw []newsItem
	if err := c.t.GetJSON(ctx, provider.OpNews, "/company-news", q, &raw); err != nil {
		return nil, err
	}
	return toArticles(raw, symbol), nil
}

// FetchMarketNews calls /news. Categories Finnhub does not know fall back to general.
func (c *Client) FetchMarketNews(ctx context.Context, category string) ([]models.NewsArticle, error) {
	if !categories[category] {
		category = "general"
	}
	var raw []newsItem
	if err := c.t.GetJSON(ctx, provider.OpMarketNews, "/news", url.Values{"category": {category}}, &raw); err != nil {
		return nil, err
	}
	return toArticles(raw, ""), nil
}

// Search calls /search.
func (c *Client) Search(ctx context.Context, keywords string) ([]models.SearchResult, error) {
	var raw searchResponse
	if err := c.t.GetJSON(ctx, provider.OpSearch, "/search", url.Values{"q": {keywords}}, &raw); err != nil {
		return nil, err
	}
	out := make([]models.SearchResult, 0, len(raw.Result))
	for _, r := range raw.Result {
		out = append(out, models.SearchResult{
			Symbol:   firstNonEmpty(r.DisplaySymbol, r.Symbol),
			Name:     r.Description,
			Type:     r.Type,
			SourceID: ID,
		})
	}
	return out, nil
}

// FetchSocialSentiment merges the reddit and twitter buckets of
// /stock/social-sentiment into one mention-weighted score.
func (c *Client) FetchSocialSentiment(ctx context.Context, symbol string) (models.SocialSentiment, error) {
	var raw socialSentimentResponse
	if err := c.t.GetJSON(ctx, provider.OpSentiment, "/stock/social-sentiment", url.Values{"symbol": {symbol}}, &raw); err != nil {
		return models.SocialSentiment{}, err
	}
	buckets := append(append([]sentimentBucket{}, raw.Reddit...), raw.Twitter...)
	if len(buckets) == 0 {
		return models.SocialSentiment{}, provider.NewError(ID, provider.OpSentiment, provider.KindSymbolNotFound, "no social sentiment for %q", symbol)
	}

	out := models.SocialSentiment{Symbol: firstNonEmpty(raw.Symbol, symbol), SourceID: ID}
	var weighted float64
	for _, b := range buckets {
		out.Mentions += b.Mention
		out.PositiveMentions += b.PositiveMention
		out.NegativeMentions += b.NegativeMention
		weighted += b.Score * float64(b.Mention)
		if ts, err := time.Parse(atTimeLayout, b.AtTime); err == nil && ts.After(out.AsOf) {
			out.AsOf = ts.UTC()
		}
	}
	if out.Mentions > 0 {
		out.Score = models.ClampScore(weighted / float64(out.Mentions))
	}
	out.Sentiment = models.SentimentFromScore(out.Score)
	if out.AsOf.IsZero() {
		out.AsOf = c.t.Now().UTC()
	}
	return out, nil
}

func toArticles(items []newsItem, symbol string) []models.NewsArticle {
	out := make([]models.NewsArticle, 0, len(items))
	for _, it := range items {
		a := models.NewsArticle{
			Title:       it.Headline,
			Summary:     it.Summary,
			Source:      it.Source,
			SourceURL:   it.URL,
			PublishedAt: time.Unix(it.Datetime, 0).UTC(),
			Sentiment:   models.SentimentNeutral,
			SourceID:    ID,
		}
		if it.ID != 0 {
			a.ID = ID + "-" + strconv.FormatInt(it.ID, 10)
		} else {
			a.ID = uuid.NewSHA1(uuid.NameSpaceURL, []byte(it.URL)).String()
		}
		a.AddRelated(strings.ToUpper(symbol), market)
		for _, rel := range strings.Split(it.Related, ",") {
			a.AddRelated(strings.ToUpper(strings.TrimSpace(rel)), market)
		}
		out = append(out, a)
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
