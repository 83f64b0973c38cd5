package alphavantage

import (
	"strconv"
	"strings"

	"github.com/guttosm/marketpulse/internal/provider"
)

// envelope holds the keys Alpha Vantage uses to report problems on a 200.
type envelope struct {
	Note         string `json:"Note"`
	Information  string `json:"Information"`
	ErrorMessage string `json:"Error Message"`
}

// check classifies an error envelope. Quota notices come back as Note or
// Information; an unknown symbol as "Invalid API call".
func (e envelope) check(op string) error {
	switch {
	case e.Note != "":
		return provider.NewError(ID, op, provider.KindRateLimited, "%s", e.Note)
	case e.Information != "":
		if isQuotaNotice(e.Information) {
			return provider.NewError(ID, op, provider.KindRateLimited, "%s", e.Information)
		}
		return provider.NewError(ID, op, provider.KindUpstream, "%s", e.Information)
	case e.ErrorMessage != "":
		if strings.Contains(e.ErrorMessage, "Invalid API call") {
			return provider.NewError(ID, op, provider.KindSymbolNotFound, "%s", e.ErrorMessage)
		}
		return provider.NewError(ID, op, provider.KindUpstream, "%s", e.ErrorMessage)
	}
	return nil
}

func isQuotaNotice(msg string) bool {
	m := strings.ToLower(msg)
	for _, s := range []string{"rate limit", "call frequency", "requests per", "per day"} {
		if strings.Contains(m, s) {
			return true
		}
	}
	return false
}

type globalQuote struct {
	Symbol           string `json:"01. symbol"`
	Open             string `json:"02. open"`
	High             string `json:"03. high"`
	Low              string `json:"04. low"`
	Price            string `json:"05. price"`
	Volume           string `json:"06. volume"`
	LatestTradingDay string `json:"07. latest trading day"`
	PreviousClose    string `json:"08. previous close"`
	Change           string `json:"09. change"`
	ChangePercent    string `json:"10. change percent"`
}

type globalQuoteResponse struct {
	envelope
	Quote *globalQuote `json:"Global Quote"`
}

type overviewResponse struct {
	envelope
	Symbol               string `json:"Symbol"`
	Name                 string `json:"Name"`
	Country              string `json:"Country"`
	Currency             string `json:"Currency"`
	Exchange             string `json:"Exchange"`
	Industry             string `json:"Industry"`
	Sector               string `json:"Sector"`
	MarketCapitalization string `json:"MarketCapitalization"`
	OfficialSite         string `json:"OfficialSite"`
}

type dailyPoint struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

type dailyResponse struct {
	envelope
	Meta struct {
		Symbol   string `json:"2. Symbol"`
		TimeZone string `json:"5. Time Zone"`
	} `json:"Meta Data"`
	Series map[string]dailyPoint `json:"Time Series (Daily)"`
}

type searchResponse struct {
	envelope
	BestMatches []struct {
		Symbol     string `json:"1. symbol"`
		Name       string `json:"2. name"`
		Type       string `json:"3. type"`
		Region     string `json:"4. region"`
		Currency   string `json:"8. currency"`
		MatchScore string `json:"9. matchScore"`
	} `json:"bestMatches"`
}

type tickerSentiment struct {
	Ticker    string `json:"ticker"`
	Relevance string `json:"relevance_score"`
	Score     string `json:"ticker_sentiment_score"`
	Label     string `json:"ticker_sentiment_label"`
}

type feedItem struct {
	Title         string            `json:"title"`
	URL           string            `json:"url"`
	TimePublished string            `json:"time_published"`
	Summary       string            `json:"summary"`
	Source        string            `json:"source"`
	OverallScore  float64           `json:"overall_sentiment_score"`
	OverallLabel  string            `json:"overall_sentiment_label"`
	Tickers       []tickerSentiment `json:"ticker_sentiment"`
}

type newsResponse struct {
	envelope
	Items string     `json:"items"`
	Feed  []feedItem `json:"feed"`
}

// number parses Alpha Vantage's stringly typed numbers. Empty, "None" and "-"
// mean absent and yield 0.
func number(field, s string) (float64, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	switch s {
	case "", "None", "-":
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &parseError{field: field, value: s, err: err}
	}
	return v, nil
}

type parseError struct {
	field, value string
	err          error
}

func (e *parseError) Error() string {
	return "field " + strconv.Quote(e.field) + ": cannot parse " + strconv.Quote(e.value)
}

func (e *parseError) Unwrap() error { return e.err }
