package models

import (
	"sort"
	"time"
)

// Bar is one OHLCV point of a time series.
//
// swagger:model Bar
type Bar struct {
	Date     time.Time `json:"date"`
	Open     float64   `json:"open" example:"188.10"`
	High     float64   `json:"high" example:"190.32"`
	Low      float64   `json:"low" example:"187.45"`
	Close    float64   `json:"close" example:"189.84"`
	Volume   int64     `json:"volume" example:"48213000"`
	Interval string    `json:"interval" example:"1d"`
}

// IntervalDaily is the only interval the providers are queried for.
const IntervalDaily = "1d"

// OutputSize selects how much history a time series request returns.
type OutputSize string

const (
	// OutputCompact is the latest CompactBars points.
	OutputCompact OutputSize = "compact"
	// OutputFull is all history the provider is willing to return.
	OutputFull OutputSize = "full"
)

// CompactBars is the number of points a compact series is trimmed to.
const CompactBars = 100

// ParseOutputSize maps a user value to an OutputSize, defaulting to compact.
func ParseOutputSize(s string) (OutputSize, bool) {
	switch OutputSize(s) {
	case "", OutputCompact:
		return OutputCompact, true
	case OutputFull:
		return OutputFull, true
	}
	return "", false
}

// SortOrder is the date direction of a returned series.
type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// ParseSortOrder maps a user value to a SortOrder, defaulting to ascending.
func ParseSortOrder(s string) (SortOrder, bool) {
	switch SortOrder(s) {
	case "", Ascending:
		return Ascending, true
	case Descending:
		return Descending, true
	}
	return "", false
}

// SortBars orders bars by date in place.
func SortBars(bars []Bar, order SortOrder) {
	sort.SliceStable(bars, func(i, j int) bool {
		if order == Descending {
			return bars[i].Date.After(bars[j].Date)
		}
		return bars[i].Date.Before(bars[j].Date)
	})
}

// ValidOHLC checks high >= low and that open and last sit inside [low, high].
// Zero values are treated as absent and skip their checks.
func ValidOHLC(open, high, low, last float64) bool {
	if high > 0 && low > 0 && high < low {
		return false
	}
	for _, v := range []float64{open, last} {
		if v <= 0 {
			continue
		}
		if low > 0 && v < low {
			return false
		}
		if high > 0 && v > high {
			return false
		}
	}
	return true
}
