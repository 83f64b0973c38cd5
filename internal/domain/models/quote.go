package models

import "time"

// Quote is the provider-agnostic snapshot of a symbol's current price.
//
// Fields:
//   - Price: last traded (or last close) price. Never zero in a returned Quote.
//   - Change / ChangePercent: absolute and percent move against PreviousClose.
//     Computed locally whenever Price and PreviousClose are both known.
//   - Open, High, Low, PreviousClose, Volume: zero means "not reported".
//   - SourceID: identifier of the provider that produced the quote.
//   - AsOf: provider timestamp, or fetch time when the provider has none.
//
// swagger:model Quote
type Quote struct {
	Symbol        string    `json:"symbol" example:"AAPL"`
	Price         float64   `json:"price" example:"189.84"`
	Change        float64   `json:"change" example:"1.25"`
	ChangePercent float64   `json:"change_percent" example:"0.6628"`
	Open          float64   `json:"open,omitempty" example:"188.10"`
	High          float64   `json:"high,omitempty" example:"190.32"`
	Low           float64   `json:"low,omitempty" example:"187.45"`
	PreviousClose float64   `json:"previous_close,omitempty" example:"188.59"`
	Volume        int64     `json:"volume,omitempty" example:"48213000"`
	SourceID      string    `json:"source_id" example:"finnhub"`
	AsOf          time.Time `json:"as_of"`
}

// IsZero reports whether price, change and percent change are all exactly zero.
// Providers answer this way for closed markets and unknown symbols alike.
func (q Quote) IsZero() bool {
	return q.Price == 0 && q.Change == 0 && q.ChangePercent == 0
}

// Profile holds static company reference data.
//
// swagger:model Profile
type Profile struct {
	Symbol      string   `json:"symbol" example:"AAPL"`
	CompanyName string   `json:"company_name" example:"Apple Inc"`
	Country     string   `json:"country,omitempty" example:"US"`
	Currency    string   `json:"currency,omitempty" example:"USD"`
	Exchange    string   `json:"exchange,omitempty" example:"NASDAQ"`
	Industry    string   `json:"industry,omitempty" example:"Technology"`
	MarketCap   *float64 `json:"market_cap,omitempty" example:"2950000000000"`
	Logo        string   `json:"logo,omitempty"`
	WebURL      string   `json:"web_url,omitempty"`
	IPODate     string   `json:"ipo_date,omitempty" example:"1980-12-12"`
	SourceID    string   `json:"source_id" example:"finnhub"`
}
