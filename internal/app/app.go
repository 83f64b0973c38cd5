package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/marketpulse/config"
	"github.com/guttosm/marketpulse/internal/aggregator"
	"github.com/guttosm/marketpulse/internal/api"
	"github.com/guttosm/marketpulse/internal/health"
	"github.com/guttosm/marketpulse/internal/provider"
	"github.com/guttosm/marketpulse/internal/service"
	"github.com/guttosm/marketpulse/internal/storage"
)

const migrateTimeout = time.Minute

// Components are the wired building blocks shared by the API and CLI modes.
type Components struct {
	Providers []provider.Provider
	Service   service.MarketService
	DB        *sql.DB // nil when storage is disabled
}

// ProviderIDs returns the ids of the configured providers in priority order.
func (c *Components) ProviderIDs() []string {
	ids := make([]string, 0, len(c.Providers))
	for _, p := range c.Providers {
		ids = append(ids, p.ID())
	}
	return ids
}

// Build wires providers, aggregator, health prober, optional archive and
// service from cfg.
//
// Returns the components and a cleanup function releasing what Build opened.
func Build(cfg config.Config) (*Components, func(), error) {
	providers, err := BuildProviders(cfg.Providers)
	if err != nil {
		return nil, nil, err
	}

	agg := aggregator.New(providers,
		aggregator.WithCallTimeout(callBudget(cfg.Providers)),
		aggregator.WithProfileProviders(cfg.Providers.ComprehensiveProfiles...),
	)
	prober := health.NewProber(providers,
		health.WithSymbol(cfg.Providers.HealthProbeSymbol),
		health.WithTimeout(cfg.Providers.Timeout),
	)

	var (
		db      *sql.DB
		archive storage.SnapshotRepository
	)
	if cfg.Storage.Enabled {
		// indirection for unit testing
		db, err = postgresOpener(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize postgres: %w", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
		err = Migrate(ctx, db, cfg.Storage.MigrationsDir)
		cancel()
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		archive = storage.NewSnapshotRepository(db)
	}

	comps := &Components{
		Providers: providers,
		Service:   service.NewMarketService(agg, prober, archive),
		DB:        db,
	}
	cleanup := func() {
		if db != nil {
			_ = db.Close()
		}
	}
	return comps, cleanup, nil
}

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Builds the provider adapters in priority order (see Build).
//   - Connects to PostgreSQL and migrates it when storage is enabled.
//   - Creates the HTTP handler layer and the Gin router.
//   - Registers health and readiness probes.
//
// Returns:
//   - *gin.Engine: the configured Gin HTTP router.
//   - func(): cleanup function to be executed on shutdown.
//   - error: any initialization error that occurred.
func InitializeApp() (*gin.Engine, func(), error) {
	cfg := config.AppConfig

	comps, cleanup, err := Build(cfg)
	if err != nil {
		return nil, nil, err
	}

	handler := api.NewHandler(comps.Service)
	router := api.NewRouter(handler,
		api.WithRequestTimeout(cfg.Server.RequestTimeout),
		api.WithRateLimit(cfg.Server.RateLimit, time.Minute),
	)

	var dbPing func(context.Context) error
	if comps.DB != nil {
		dbPing = comps.DB.PingContext
	}
	api.NewHealthHandler(dbPing, comps.ProviderIDs()).Register(router)

	return router, cleanup, nil
}
