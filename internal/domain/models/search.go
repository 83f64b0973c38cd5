package models

import "time"

// SearchResult is one symbol lookup match.
//
// swagger:model SearchResult
type SearchResult struct {
	Symbol     string  `json:"symbol" example:"AAPL"`
	Name       string  `json:"name" example:"Apple Inc"`
	Type       string  `json:"type,omitempty" example:"Equity"`
	Region     string  `json:"region,omitempty" example:"United States"`
	Currency   string  `json:"currency,omitempty" example:"USD"`
	MatchScore float64 `json:"match_score,omitempty" example:"1"`
	SourceID   string  `json:"source_id" example:"alphavantage"`
}

// SocialSentiment summarizes social media mentions of a symbol.
//
// swagger:model SocialSentiment
type SocialSentiment struct {
	Symbol           string    `json:"symbol" example:"AAPL"`
	Mentions         int64     `json:"mentions" example:"1520"`
	PositiveMentions int64     `json:"positive_mentions" example:"910"`
	NegativeMentions int64     `json:"negative_mentions" example:"330"`
	Score            float64   `json:"score" example:"0.31"`
	Sentiment        Sentiment `json:"sentiment" example:"positive"`
	SourceID         string    `json:"source_id" example:"finnhub"`
	AsOf             time.Time `json:"as_of"`
}
