package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/multierr"

	"github.com/guttosm/marketpulse/internal/logger"
)

// Provider identifiers accepted in PROVIDER_PRIORITY and
// COMPREHENSIVE_PROFILE_PROVIDERS.
const (
	ProviderAlphaVantage = "alphavantage"
	ProviderFinnhub      = "finnhub"
	ProviderPolygon      = "polygon"
)

// KnownProviders lists every provider id in the default priority order.
var KnownProviders = []string{ProviderFinnhub, ProviderAlphaVantage, ProviderPolygon}

// Config holds the full application configuration loaded from environment variables or .env file.
//
// Example ENV:
//
//	SERVER_PORT=8080
//	FINNHUB_API_KEY=...
//	ALPHAVANTAGE_API_KEY=...
//	POLYGON_API_KEY=...
//	PROVIDER_PRIORITY=finnhub,alphavantage,polygon
//	PROVIDER_TIMEOUT=12s
//	STORAGE_ENABLED=true
//	POSTGRES_HOST=localhost
//	POSTGRES_DB=marketpulse
type Config struct {
	Server    ServerConfig    // HTTP server configuration
	Providers ProvidersConfig // Upstream market data providers
	Storage   StorageConfig   // Quote archive toggle
	Postgres  PostgresConfig  // PostgreSQL connection settings
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           string        // TCP port the HTTP server listens on (e.g., "8080")
	RequestTimeout time.Duration // Deadline put on every request context
	RateLimit      int           // Requests per minute per client IP; 0 disables limiting
}

// ProviderConfig is the per-provider part of the configuration.
// A provider without an API key is not registered.
type ProviderConfig struct {
	APIKey  string
	BaseURL string // empty means the provider's public endpoint
}

// ProvidersConfig holds everything the aggregator and adapters need.
type ProvidersConfig struct {
	AlphaVantage ProviderConfig
	Finnhub      ProviderConfig
	Polygon      ProviderConfig

	Priority              []string      // Fallback order
	Timeout               time.Duration // Per call timeout, also used by the HTTP client
	MaxRetries            int           // Retries of transient failures inside one adapter call
	RetryInitialBackoff   time.Duration
	ComprehensiveProfiles []string // Providers asked for a profile in comprehensive mode
	HealthProbeSymbol     string
}

// Get returns the settings for a provider id.
func (p ProvidersConfig) Get(id string) (ProviderConfig, bool) {
	switch id {
	case ProviderAlphaVantage:
		return p.AlphaVantage, true
	case ProviderFinnhub:
		return p.Finnhub, true
	case ProviderPolygon:
		return p.Polygon, true
	}
	return ProviderConfig{}, false
}

// StorageConfig toggles the Postgres quote archive.
type StorageConfig struct {
	Enabled       bool
	MigrationsDir string // goose migrations applied on startup; empty skips migrating
}

// PostgresConfig defines connection details for PostgreSQL.
//
// Fields:
//   - Host: hostname of the database server.
//   - Port: port number of the database server (default 5432).
//   - User: username for authentication.
//   - Password: password for authentication.
//   - DBName: target database name.
//   - SSLMode: SSL mode (e.g., "disable", "require").
//   - URL: computed DSN used by database/sql to connect.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and used throughout the application.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Fatal exit:
//   - If the configuration does not pass Validate(), validateConfig() terminates
//     the app with a descriptive log message.
func LoadConfig() {
	setDefaults()

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	viper.AutomaticEnv()

	AppConfig = fromViper()
	validateConfig()
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("REQUEST_TIMEOUT", 20*time.Second)
	viper.SetDefault("RATE_LIMIT_PER_MINUTE", 60)

	viper.SetDefault("ALPHAVANTAGE_API_KEY", "")
	viper.SetDefault("ALPHAVANTAGE_BASE_URL", "")
	viper.SetDefault("FINNHUB_API_KEY", "")
	viper.SetDefault("FINNHUB_BASE_URL", "")
	viper.SetDefault("POLYGON_API_KEY", "")
	viper.SetDefault("POLYGON_BASE_URL", "")

	viper.SetDefault("PROVIDER_PRIORITY", strings.Join(KnownProviders, ","))
	viper.SetDefault("PROVIDER_TIMEOUT", 12*time.Second)
	viper.SetDefault("PROVIDER_MAX_RETRIES", 0)
	viper.SetDefault("PROVIDER_RETRY_INITIAL_BACKOFF", 500*time.Millisecond)
	viper.SetDefault("COMPREHENSIVE_PROFILE_PROVIDERS", ProviderFinnhub)
	viper.SetDefault("HEALTH_PROBE_SYMBOL", "AAPL")

	viper.SetDefault("STORAGE_ENABLED", false)
	viper.SetDefault("STORAGE_MIGRATIONS_DIR", "db/migrations")
	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "marketpulse")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")
}

func fromViper() Config {
	cfg := Config{
		Server: ServerConfig{
			Port:           viper.GetString("SERVER_PORT"),
			RequestTimeout: viper.GetDuration("REQUEST_TIMEOUT"),
			RateLimit:      viper.GetInt("RATE_LIMIT_PER_MINUTE"),
		},
		Providers: ProvidersConfig{
			AlphaVantage: ProviderConfig{
				APIKey:  viper.GetString("ALPHAVANTAGE_API_KEY"),
				BaseURL: viper.GetString("ALPHAVANTAGE_BASE_URL"),
			},
			Finnhub: ProviderConfig{
				APIKey:  viper.GetString("FINNHUB_API_KEY"),
				BaseURL: viper.GetString("FINNHUB_BASE_URL"),
			},
			Polygon: ProviderConfig{
				APIKey:  viper.GetString("POLYGON_API_KEY"),
				BaseURL: viper.GetString("POLYGON_BASE_URL"),
			},
			Priority:              splitList(viper.GetString("PROVIDER_PRIORITY")),
			Timeout:               viper.GetDuration("PROVIDER_TIMEOUT"),
			MaxRetries:            viper.GetInt("PROVIDER_MAX_RETRIES"),
			RetryInitialBackoff:   viper.GetDuration("PROVIDER_RETRY_INITIAL_BACKOFF"),
			ComprehensiveProfiles: splitList(viper.GetString("COMPREHENSIVE_PROFILE_PROVIDERS")),
			HealthProbeSymbol:     strings.ToUpper(strings.TrimSpace(viper.GetString("HEALTH_PROBE_SYMBOL"))),
		},
		Storage: StorageConfig{
			Enabled:       viper.GetBool("STORAGE_ENABLED"),
			MigrationsDir: viper.GetString("STORAGE_MIGRATIONS_DIR"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetInt("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			DBName:   viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		},
	}

	// Construct Postgres DSN (used by database/sql)
	cfg.Postgres.URL = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.DBName,
		cfg.Postgres.SSLMode,
	)
	return cfg
}

// splitList parses a comma separated value, lower-casing and dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.ToLower(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate reports every problem with c at once.
func (c Config) Validate() error {
	var err error
	missing := func(key string) {
		err = multierr.Append(err, fmt.Errorf("missing %s", key))
	}

	if c.Server.Port == "" {
		missing("SERVER_PORT")
	}
	p := c.Providers
	if p.AlphaVantage.APIKey == "" && p.Finnhub.APIKey == "" && p.Polygon.APIKey == "" {
		err = multierr.Append(err, fmt.Errorf("at least one of ALPHAVANTAGE_API_KEY, FINNHUB_API_KEY, POLYGON_API_KEY is required"))
	}
	if len(p.Priority) == 0 {
		missing("PROVIDER_PRIORITY")
	}
	seen := make(map[string]bool, len(p.Priority))
	for _, id := range p.Priority {
		if _, ok := p.Get(id); !ok {
			err = multierr.Append(err, fmt.Errorf("PROVIDER_PRIORITY: unknown provider %q", id))
		}
		if seen[id] {
			err = multierr.Append(err, fmt.Errorf("PROVIDER_PRIORITY: %q listed twice", id))
		}
		seen[id] = true
	}
	for _, id := range p.ComprehensiveProfiles {
		if _, ok := p.Get(id); !ok {
			err = multierr.Append(err, fmt.Errorf("COMPREHENSIVE_PROFILE_PROVIDERS: unknown provider %q", id))
		}
	}
	if p.Timeout <= 0 {
		err = multierr.Append(err, fmt.Errorf("PROVIDER_TIMEOUT must be positive"))
	}
	if p.MaxRetries < 0 {
		err = multierr.Append(err, fmt.Errorf("PROVIDER_MAX_RETRIES must not be negative"))
	}
	if p.HealthProbeSymbol == "" {
		missing("HEALTH_PROBE_SYMBOL")
	}

	if c.Storage.Enabled {
		if c.Postgres.Host == "" {
			missing("POSTGRES_HOST")
		}
		if c.Postgres.Port == 0 {
			missing("POSTGRES_PORT")
		}
		if c.Postgres.User == "" {
			missing("POSTGRES_USER")
		}
		if c.Postgres.Password == "" {
			missing("POSTGRES_PASSWORD")
		}
		if c.Postgres.DBName == "" {
			missing("POSTGRES_DB")
		}
	}
	return err
}

// validateConfig terminates the application when AppConfig is not usable.
//
// This avoids unexpected runtime failures due to incomplete configuration.
func validateConfig() {
	if err := AppConfig.Validate(); err != nil {
		logger.L().Fatal().Errs("problems", multierr.Errors(err)).Msg("invalid configuration")
	}
}
