package finnhub

// Wire shapes of the Finnhub endpoints in use. Field names follow Finnhub and
// never leave this package.

type quoteResponse struct {
	Current       float64  `json:"c"`
	Change        *float64 `json:"d"`
	PercentChange *float64 `json:"dp"`
	High          float64  `json:"h"`
	Low           float64  `json:"l"`
	Open          float64  `json:"o"`
	PreviousClose float64  `json:"pc"`
	Timestamp     int64    `json:"t"`
}

type profileResponse struct {
	Country          string  `json:"country"`
	Currency         string  `json:"currency"`
	Exchange         string  `json:"exchange"`
	Industry         string  `json:"finnhubIndustry"`
	IPO              string  `json:"ipo"`
	Logo             string  `json:"logo"`
	MarketCapMillion float64 `json:"marketCapitalization"`
	Name             string  `json:"name"`
	Ticker           string  `json:"ticker"`
	WebURL           string  `json:"weburl"`
}

type newsItem struct {
	Category string `json:"category"`
	Datetime int64  `json:"datetime"`
	Headline string `json:"headline"`
	ID       int64  `json:"id"`
	Image    string `json:"image"`
	Related  string `json:"related"`
	Source   string `json:"source"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
}

// candleResponse holds parallel arrays; index i of each array is one bar.
type candleResponse struct {
	Close     []float64 `json:"c"`
	High      []float64 `json:"h"`
	Low       []float64 `json:"l"`
	Open      []float64 `json:"o"`
	Status    string    `json:"s"`
	Timestamp []int64   `json:"t"`
	Volume    []float64 `json:"v"`
}

type searchResponse struct {
	Count  int `json:"count"`
	Result []struct {
		Description   string `json:"description"`
		DisplaySymbol string `json:"displaySymbol"`
		Symbol        string `json:"symbol"`
		Type          string `json:"type"`
	} `json:"result"`
}

type sentimentBucket struct {
	AtTime          string  `json:"atTime"`
	Mention         int64   `json:"mention"`
	PositiveMention int64   `json:"positiveMention"`
	NegativeMention int64   `json:"negativeMention"`
	PositiveScore   float64 `json:"positiveScore"`
	NegativeScore   float64 `json:"negativeScore"`
	Score           float64 `json:"score"`
}

type socialSentimentResponse struct {
	Symbol  string            `json:"symbol"`
	Reddit  []sentimentBucket `json:"reddit"`
	Twitter []sentimentBucket `json:"twitter"`
}
