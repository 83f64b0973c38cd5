package models

import "time"

// ProviderError records one failed provider call.
type ProviderError struct {
	Provider  string `json:"provider" example:"polygon"`
	Operation string `json:"operation" example:"quote"`
	Kind      string `json:"kind" example:"rate_limited"`
	Message   string `json:"message"`
}

// ProviderSnapshot is what a single provider answered during a fan-out round.
type ProviderSnapshot struct {
	Quote   *Quote   `json:"quote,omitempty"`
	Profile *Profile `json:"profile,omitempty"`
}

// ComprehensiveRecord collects every provider's view of one symbol.
//
// Conflicting values are not reconciled: each provider's answer sits under its
// own key in Providers. The record is assembled once by the aggregator and is
// read-only afterwards.
//
// swagger:model ComprehensiveRecord
type ComprehensiveRecord struct {
	Symbol              string                      `json:"symbol" example:"AAPL"`
	Providers           map[string]ProviderSnapshot `json:"providers"`
	SuccessfulProviders int                         `json:"successful_providers" example:"2"`
	Errors              []ProviderError             `json:"errors"`
	AsOf                time.Time                   `json:"as_of"`
}
