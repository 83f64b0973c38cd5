package polygon

import "strings"

// envelope is the status block every Polygon response carries.
type envelope struct {
	Status       string `json:"status"`
	RequestID    string `json:"request_id"`
	Error        string `json:"error"`
	Message      string `json:"message"`
	ResultsCount int    `json:"resultsCount"`
}

func (e envelope) failed() bool {
	return strings.EqualFold(e.Status, "ERROR") || strings.EqualFold(e.Status, "NOT_AUTHORIZED")
}

func (e envelope) detail() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Message
}

// agg is one aggregate bar with Polygon's short keys. Close is a pointer so a
// missing "c" is told apart from a zero close.
type agg struct {
	Ticker string   `json:"T"`
	Volume float64  `json:"v"`
	VWAP   float64  `json:"vw"`
	Open   float64  `json:"o"`
	Close  *float64 `json:"c"`
	High   float64  `json:"h"`
	Low    float64  `json:"l"`
	Millis int64    `json:"t"`
	Trades int64    `json:"n"`
}

type aggsResponse struct {
	envelope
	Ticker  string `json:"ticker"`
	Results []agg  `json:"results"`
}

type tickerDetails struct {
	Ticker          string  `json:"ticker"`
	Name            string  `json:"name"`
	Market          string  `json:"market"`
	Locale          string  `json:"locale"`
	PrimaryExchange string  `json:"primary_exchange"`
	Type            string  `json:"type"`
	CurrencyName    string  `json:"currency_name"`
	MarketCap       float64 `json:"market_cap"`
	HomepageURL     string  `json:"homepage_url"`
	ListDate        string  `json:"list_date"`
	SICDescription  string  `json:"sic_description"`
	Branding        struct {
		LogoURL string `json:"logo_url"`
		IconURL string `json:"icon_url"`
	} `json:"branding"`
}

type tickerDetailsResponse struct {
	envelope
	Results *tickerDetails `json:"results"`
}

type tickersResponse struct {
	envelope
	Results []tickerDetails `json:"results"`
}

type newsInsight struct {
	Ticker    string `json:"ticker"`
	Sentiment string `json:"sentiment"`
	Reasoning string `json:"sentiment_reasoning"`
}

type newsResult struct {
	ID        string `json:"id"`
	Publisher struct {
		Name string `json:"name"`
	} `json:"publisher"`
	Title        string        `json:"title"`
	Author       string        `json:"author"`
	PublishedUTC string        `json:"published_utc"`
	ArticleURL   string        `json:"article_url"`
	Tickers      []string      `json:"tickers"`
	Description  string        `json:"description"`
	Insights     []newsInsight `json:"insights"`
}

type newsResponse struct {
	envelope
	Results []newsResult `json:"results"`
}
