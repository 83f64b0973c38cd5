package models

import "time"

// Sentiment is the coarse label attached to an article or a sentiment summary.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// neutralBand is the half-width of the score range labelled neutral.
const neutralBand = 0.15

// ClampScore bounds a sentiment score to [-1, 1].
func ClampScore(s float64) float64 {
	if s > 1 {
		return 1
	}
	if s < -1 {
		return -1
	}
	return s
}

// SentimentFromScore labels a score in [-1, 1].
func SentimentFromScore(s float64) Sentiment {
	switch {
	case s >= neutralBand:
		return SentimentPositive
	case s <= -neutralBand:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// RelatedSymbol ties an article to a listed instrument.
type RelatedSymbol struct {
	Symbol string `json:"symbol" example:"AAPL"`
	Market string `json:"market" example:"US"`
}

// NewsArticle is a normalized news item.
//
// swagger:model NewsArticle
type NewsArticle struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Summary        string          `json:"summary,omitempty"`
	Source         string          `json:"source"`
	SourceURL      string          `json:"source_url"`
	PublishedAt    time.Time       `json:"published_at"`
	Sentiment      Sentiment       `json:"sentiment" example:"neutral"`
	SentimentScore float64         `json:"sentiment_score" example:"0.12"`
	RelatedSymbols []RelatedSymbol `json:"related_symbols"`
	SourceID       string          `json:"source_id" example:"polygon"`
}

// AddRelated appends a related symbol unless the same pair is already present.
func (a *NewsArticle) AddRelated(symbol, market string) {
	if symbol == "" {
		return
	}
	for _, r := range a.RelatedSymbols {
		if r.Symbol == symbol && r.Market == market {
			return
		}
	}
	a.RelatedSymbols = append(a.RelatedSymbols, RelatedSymbol{Symbol: symbol, Market: market})
}
