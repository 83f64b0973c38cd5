package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/marketpulse/config"
)

func TestBuildProviders(t *testing.T) {
	all := config.ProvidersConfig{
		AlphaVantage: config.ProviderConfig{APIKey: "a"},
		Finnhub:      config.ProviderConfig{APIKey: "f"},
		Polygon:      config.ProviderConfig{APIKey: "p"},
		Timeout:      time.Second,
	}

	cases := []struct {
		name    string
		mutate  func(c *config.ProvidersConfig)
		want    []string
		wantErr bool
	}{
		{
			name:   "priority order kept",
			mutate: func(c *config.ProvidersConfig) { c.Priority = []string{"polygon", "finnhub", "alphavantage"} },
			want:   []string{"polygon", "finnhub", "alphavantage"},
		},
		{
			name: "providers without key skipped",
			mutate: func(c *config.ProvidersConfig) {
				c.Priority = []string{"finnhub", "alphavantage", "polygon"}
				c.AlphaVantage.APIKey = ""
			},
			want: []string{"finnhub", "polygon"},
		},
		{
			name:   "subset",
			mutate: func(c *config.ProvidersConfig) { c.Priority = []string{"alphavantage"} },
			want:   []string{"alphavantage"},
		},
		{
			name: "no keys",
			mutate: func(c *config.ProvidersConfig) {
				c.Priority = []string{"finnhub"}
				c.Finnhub.APIKey = ""
			},
			wantErr: true,
		},
		{
			name:    "unknown id",
			mutate:  func(c *config.ProvidersConfig) { c.Priority = []string{"yahoo"} },
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := all
			tc.mutate(&cfg)
			got, err := BuildProviders(cfg)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			ids := make([]string, 0, len(got))
			for _, p := range got {
				ids = append(ids, p.ID())
			}
			assert.Equal(t, tc.want, ids)
		})
	}
}

func TestCallBudget(t *testing.T) {
	cfg := config.ProvidersConfig{Timeout: 10 * time.Second, RetryInitialBackoff: time.Second}
	assert.Equal(t, 10*time.Second, callBudget(cfg))

	cfg.MaxRetries = 2
	// 10s + (1s + 10s) + (2s + 10s)
	assert.Equal(t, 33*time.Second, callBudget(cfg))
}
