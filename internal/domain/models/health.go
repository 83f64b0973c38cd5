package models

import "time"

// HealthStatus is the outcome of probing one provider.
type HealthStatus string

const (
	HealthSuccess HealthStatus = "success"
	HealthError   HealthStatus = "error"
)

// ProviderHealth is one line of a HealthReport.
type ProviderHealth struct {
	Provider  string       `json:"provider" example:"finnhub"`
	Status    HealthStatus `json:"status" example:"success"`
	Message   string       `json:"message" example:"ok"`
	Sample    *Quote       `json:"sample"`
	LatencyMS int64        `json:"latency_ms" example:"182"`
}

// HealthReport is regenerated on every probe and never stored.
//
// swagger:model HealthReport
type HealthReport struct {
	Providers      []ProviderHealth `json:"providers"`
	SuccessCount   int              `json:"success_count" example:"2"`
	TotalProviders int              `json:"total_providers" example:"3"`
	Score          int              `json:"score" example:"67"`
	CheckedAt      time.Time        `json:"checked_at"`
}
