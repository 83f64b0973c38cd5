package provider

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/guttosm/marketpulse/internal/domain/models"
)

var hundred = decimal.NewFromInt(100)

// NormalizeQuote finishes a quote at the adapter boundary.
//
// An all-zero quote is rejected as SymbolNotFound: providers answer that way
// for closed markets and unknown symbols. This is a heuristic, and a genuinely
// zero-priced instrument would be misclassified by it.
//
// Change and percent change are recomputed whenever price and previous close
// are both known, so provider-side rounding never leaks through.
func NormalizeQuote(providerID string, q models.Quote) (models.Quote, error) {
	if q.IsZero() {
		return models.Quote{}, NewError(providerID, OpQuote, KindSymbolNotFound, "zero-valued quote for %q (market closed or unknown symbol)", q.Symbol)
	}
	if q.Price <= 0 || math.IsNaN(q.Price) || math.IsInf(q.Price, 0) {
		return models.Quote{}, NewError(providerID, OpQuote, KindMalformedResponse, "missing or non-positive price %v", q.Price)
	}
	if q.PreviousClose > 0 {
		q.Change, q.ChangePercent = ComputeChange(q.Price, q.PreviousClose)
	}
	if !models.ValidOHLC(q.Open, q.High, q.Low, q.Price) {
		return models.Quote{}, NewError(providerID, OpQuote, KindMalformedResponse,
			"inconsistent OHLC: open=%v high=%v low=%v price=%v", q.Open, q.High, q.Low, q.Price)
	}
	q.Symbol = strings.ToUpper(strings.TrimSpace(q.Symbol))
	if q.AsOf.IsZero() {
		q.AsOf = time.Now().UTC()
	}
	q.SourceID = providerID
	return q, nil
}

// ComputeChange returns price-previousClose and its percentage of previousClose,
// both rounded to 4 decimal places.
func ComputeChange(price, previousClose float64) (change, percent float64) {
	p := decimal.NewFromFloat(price)
	prev := decimal.NewFromFloat(previousClose)
	diff := p.Sub(prev)
	change = diff.Round(4).InexactFloat64()
	if prev.IsZero() {
		return change, 0
	}
	percent = diff.Div(prev).Mul(hundred).Round(4).InexactFloat64()
	return change, percent
}

// NormalizeBars validates OHLC ordering on every bar and sorts ascending by date.
// An empty series is SymbolNotFound.
func NormalizeBars(providerID string, bars []models.Bar) ([]models.Bar, error) {
	if len(bars) == 0 {
		return nil, NewError(providerID, OpTimeSeries, KindSymbolNotFound, "no bars returned")
	}
	for i := range bars {
		b := &bars[i]
		if !models.ValidOHLC(b.Open, b.High, b.Low, b.Close) {
			return nil, NewError(providerID, OpTimeSeries, KindMalformedResponse,
				"inconsistent OHLC on %s", b.Date.Format("2006-01-02"))
		}
		if b.Interval == "" {
			b.Interval = models.IntervalDaily
		}
	}
	models.SortBars(bars, models.Ascending)
	return bars, nil
}

// TrimToSize keeps the latest models.CompactBars points of an ascending series
// when size is compact.
func TrimToSize(bars []models.Bar, size models.OutputSize) []models.Bar {
	if size == models.OutputCompact && len(bars) > models.CompactBars {
		return bars[len(bars)-models.CompactBars:]
	}
	return bars
}
