package alphavantage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/marketpulse/internal/domain/models"
	"github.com/guttosm/marketpulse/internal/provider"
)

// newClient serves body for the given function and fails the test otherwise.
func newClient(t *testing.T, function, body string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/query", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		assert.Equal(t, function, r.URL.Query().Get("function"))
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return New("test-key", provider.WithBaseURL(srv.URL), provider.WithHTTPClient(srv.Client()))
}

func TestFetchQuote(t *testing.T) {
	c := newClient(t, "GLOBAL_QUOTE", `{"Global Quote": {
		"01. symbol": "IBM", "02. open": "255.0000", "03. high": "258.5000", "04. low": "254.1000",
		"05. price": "256.8800", "06. volume": "4417382", "07. latest trading day": "2025-09-12",
		"08. previous close": "253.4400", "09. change": "3.4400", "10. change percent": "1.3573%"}}`)

	q, err := c.FetchQuote(context.Background(), "IBM")
	require.NoError(t, err)
	assert.Equal(t, "IBM", q.Symbol)
	assert.Equal(t, 256.88, q.Price)
	assert.Equal(t, 255.0, q.Open)
	assert.Equal(t, 258.5, q.High)
	assert.Equal(t, 254.1, q.Low)
	assert.Equal(t, 253.44, q.PreviousClose)
	assert.Equal(t, int64(4417382), q.Volume)
	assert.Equal(t, 3.44, q.Change)
	assert.Equal(t, 1.3573, q.ChangePercent)
	assert.Equal(t, time.Date(2025, 9, 12, 0, 0, 0, 0, time.UTC), q.AsOf)
	assert.Equal(t, ID, q.SourceID)
}

func TestFetchQuote_Errors(t *testing.T) {
	cases := []struct {
		name string
		body string
		want error
	}{
		{"empty global quote", `{"Global Quote": {}}`, provider.ErrSymbolNotFound},
		{"all zero", `{"Global Quote": {"01. symbol":"X","05. price":"0.0000","08. previous close":"0.0000","09. change":"0.0000","10. change percent":"0.0000%"}}`, provider.ErrSymbolNotFound},
		{"no global quote key", `{"Meta": {}}`, provider.ErrMalformedResponse},
		{"price missing", `{"Global Quote": {"01. symbol":"IBM","07. latest trading day":"2025-09-12"}}`, provider.ErrMalformedResponse},
		{"previous close missing", `{"Global Quote": {"01. symbol":"IBM","05. price":"256.8800"}}`, provider.ErrMalformedResponse},
		{"invalid call", `{"Error Message": "Invalid API call. Please retry or visit the documentation for GLOBAL_QUOTE."}`, provider.ErrSymbolNotFound},
		{"note quota", `{"Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute."}`, provider.ErrRateLimited},
		{"information quota", `{"Information": "We have detected your API key and our standard API rate limit is 25 requests per day."}`, provider.ErrRateLimited},
		{"information other", `{"Information": "This is a premium endpoint."}`, provider.ErrUpstream},
		{"unparseable price", `{"Global Quote": {"01. symbol":"X","05. price":"abc","08. previous close":"1.0"}}`, provider.ErrMalformedResponse},
		{"not json", `<html>`, provider.ErrMalformedResponse},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newClient(t, "GLOBAL_QUOTE", tc.body)
			_, err := c.FetchQuote(context.Background(), "X")
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestFetchProfile(t *testing.T) {
	c := newClient(t, "OVERVIEW", `{"Symbol":"IBM","Name":"International Business Machines","Country":"USA","Currency":"USD","Exchange":"NYSE","Sector":"TECHNOLOGY","Industry":"COMPUTER & OFFICE EQUIPMENT","MarketCapitalization":"238000000000","OfficialSite":"https://www.ibm.com"}`)
	p, err := c.FetchProfile(context.Background(), "IBM")
	require.NoError(t, err)
	assert.Equal(t, "International Business Machines", p.CompanyName)
	assert.Equal(t, "COMPUTER & OFFICE EQUIPMENT", p.Industry)
	require.NotNil(t, p.MarketCap)
	assert.Equal(t, 238000000000.0, *p.MarketCap)

	none := newClient(t, "OVERVIEW", `{"Symbol":"X","Name":"X Corp","MarketCapitalization":"None"}`)
	p, err = none.FetchProfile(context.Background(), "X")
	require.NoError(t, err)
	assert.Nil(t, p.MarketCap)

	empty := newClient(t, "OVERVIEW", `{}`)
	_, err = empty.FetchProfile(context.Background(), "NOPE")
	assert.ErrorIs(t, err, provider.ErrSymbolNotFound)
}

func TestFetchTimeSeries(t *testing.T) {
	c := newClient(t, "TIME_SERIES_DAILY", `{
		"Meta Data": {"2. Symbol": "IBM", "5. Time Zone": "US/Eastern"},
		"Time Series (Daily)": {
			"2025-09-12": {"1. open": "255.0000", "2. high": "258.5000", "3. low": "254.1000", "4. close": "256.8800", "5. volume": "4417382"},
			"2025-09-10": {"1. open": "250.0000", "2. high": "251.0000", "3. low": "248.5000", "4. close": "250.5000", "5. volume": "3000000"},
			"2025-09-11": {"1. open": "250.5000", "2. high": "254.0000", "3. low": "250.1000", "4. close": "253.4400", "5. volume": "3500000"}
		}}`)
	bars, err := c.FetchTimeSeries(context.Background(), "IBM", models.OutputCompact)
	require.NoError(t, err)
	require.Len(t, bars, 3)

	day := func(d int) time.Time { return time.Date(2025, 9, d, 0, 0, 0, 0, time.UTC) }
	assert.Equal(t, models.Bar{Date: day(10), Open: 250, High: 251, Low: 248.5, Close: 250.5, Volume: 3000000, Interval: "1d"}, bars[0])
	assert.Equal(t, models.Bar{Date: day(11), Open: 250.5, High: 254, Low: 250.1, Close: 253.44, Volume: 3500000, Interval: "1d"}, bars[1])
	assert.Equal(t, models.Bar{Date: day(12), Open: 255, High: 258.5, Low: 254.1, Close: 256.88, Volume: 4417382, Interval: "1d"}, bars[2])
}

func TestFetchTimeSeries_OutputSizeParam(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "full", r.URL.Query().Get("outputsize"))
		_, _ = w.Write([]byte(`{"Time Series (Daily)": {}}`))
	}))
	defer srv.Close()
	c := New("k", provider.WithBaseURL(srv.URL))
	_, err := c.FetchTimeSeries(context.Background(), "IBM", models.OutputFull)
	assert.ErrorIs(t, err, provider.ErrSymbolNotFound)
}

func TestFetchTimeSeries_Errors(t *testing.T) {
	cases := []struct {
		name string
		body string
		want error
	}{
		{"empty series", `{"Meta Data": {"2. Symbol": "X"}, "Time Series (Daily)": {}}`, provider.ErrSymbolNotFound},
		{"series key missing", `{"Meta Data": {"2. Symbol": "IBM", "5. Time Zone": "US/Eastern"}}`, provider.ErrMalformedResponse},
		{"close missing", `{"Time Series (Daily)": {"2025-09-12": {"1. open": "1", "2. high": "2", "3. low": "1", "5. volume": "10"}}}`, provider.ErrMalformedResponse},
		{"bad date", `{"Time Series (Daily)": {"12/09/2025": {"1. open": "1", "2. high": "2", "3. low": "1", "4. close": "1.5"}}}`, provider.ErrMalformedResponse},
		{"invalid call", `{"Error Message": "Invalid API call. Please retry or visit the documentation for TIME_SERIES_DAILY."}`, provider.ErrSymbolNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newClient(t, "TIME_SERIES_DAILY", tc.body)
			_, err := c.FetchTimeSeries(context.Background(), "IBM", models.OutputCompact)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestSearch(t *testing.T) {
	c := newClient(t, "SYMBOL_SEARCH", `{"bestMatches":[{"1. symbol":"TSCO.LON","2. name":"Tesco PLC","3. type":"Equity","4. region":"United Kingdom","5. marketOpen":"08:00","6. marketClose":"16:30","7. timezone":"UTC+01","8. currency":"GBX","9. matchScore":"0.7273"}]}`)
	res, err := c.Search(context.Background(), "tesco")
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, models.SearchResult{Symbol: "TSCO.LON", Name: "Tesco PLC", Type: "Equity", Region: "United Kingdom", Currency: "GBX", MatchScore: 0.7273, SourceID: ID}, res[0])
}

func TestFetchCompanyNews(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "NEWS_SENTIMENT", r.URL.Query().Get("function"))
		assert.Equal(t, "AAPL", r.URL.Query().Get("tickers"))
		assert.Equal(t, "20250901T0000", r.URL.Query().Get("time_from"))
		assert.Equal(t, "20250907T2359", r.URL.Query().Get("time_to"))
		_, _ = w.Write([]byte(`{"items":"1","feed":[{"title":"Apple beats","url":"https://example.com/n1","time_published":"20250912T133000","summary":"s","source":"Motley Fool",
			"overall_sentiment_score":0.05,"overall_sentiment_label":"Neutral",
			"ticker_sentiment":[{"ticker":"AAPL","relevance_score":"0.9","ticker_sentiment_score":"0.42","ticker_sentiment_label":"Bullish"},{"ticker":"MSFT","relevance_score":"0.1","ticker_sentiment_score":"-0.2","ticker_sentiment_label":"Bearish"}]}]}`))
	}))
	defer srv.Close()
	c := New("k", provider.WithBaseURL(srv.URL))

	from := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 9, 7, 0, 0, 0, 0, time.UTC)
	news, err := c.FetchCompanyNews(context.Background(), "AAPL", &from, &to)
	require.NoError(t, err)
	require.Len(t, news, 1)
	a := news[0]
	assert.Equal(t, 0.42, a.SentimentScore)
	assert.Equal(t, models.SentimentPositive, a.Sentiment)
	assert.Equal(t, time.Date(2025, 9, 12, 13, 30, 0, 0, time.UTC), a.PublishedAt)
	assert.Equal(t, []models.RelatedSymbol{{Symbol: "AAPL", Market: "US"}, {Symbol: "MSFT", Market: "US"}}, a.RelatedSymbols)
	assert.Len(t, a.ID, 36)
}

func TestFetchMarketNews_Topics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "blockchain", r.URL.Query().Get("topics"))
		_, _ = w.Write([]byte(`{"items":"0","feed":[]}`))
	}))
	defer srv.Close()
	c := New("k", provider.WithBaseURL(srv.URL))

	news, err := c.FetchMarketNews(context.Background(), "crypto")
	require.NoError(t, err)
	assert.Empty(t, news)

	_, err = c.FetchMarketNews(context.Background(), "gossip")
	assert.ErrorIs(t, err, provider.ErrUpstream)
}
