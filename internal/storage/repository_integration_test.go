//go:build integration
// +build integration

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/lib/pq"
	goose "github.com/pressly/goose/v3"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/guttosm/marketpulse/internal/domain/models"
)

// startPostgres spins up a Postgres container and returns a DSN and terminate func.
func startPostgres(t *testing.T) (dsn string, terminate func()) {
	t.Helper()
	ctx := context.Background()

	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "marketpulse",
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
		},
		WaitingFor: wait.ForSQL("5432/tcp", "postgres", func(host string, port nat.Port) string {
			return fmt.Sprintf("host=%s port=%s user=postgres password=postgres dbname=marketpulse sslmode=disable", host, port.Port())
		}).WithStartupTimeout(60 * time.Second),
	}

	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Fatalf("container start: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}

	dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", "postgres", "postgres", host, port.Port(), "marketpulse")
	terminate = func() { _ = container.Terminate(context.Background()) }
	return dsn, terminate
}

func openDB(t *testing.T, dsn string) *sql.DB {
	t.Helper()
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
	return db
}

func runMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	if err := goose.SetDialect("postgres"); err != nil {
		t.Fatalf("dialect: %v", err)
	}
	// migrations path relative to this test file (internal/storage → ../../db/migrations)
	path := filepath.Join("..", "..", "db", "migrations")
	if err := goose.Up(db, path); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
}

func TestSnapshotRepository_Integration(t *testing.T) {
	dsn, terminate := startPostgres(t)
	defer terminate()
	db := openDB(t, dsn)
	defer db.Close()
	runMigrations(t, db)

	repo := NewSnapshotRepository(db)
	ctx := context.Background()
	base := time.Date(2025, 9, 10, 20, 0, 0, 0, time.UTC)

	quotes := []models.Quote{
		{Symbol: "AAPL", SourceID: "finnhub", Price: 230, Change: 1, ChangePercent: 0.4367, Open: 229, High: 231, Low: 228, PreviousClose: 229, AsOf: base},
		{Symbol: "AAPL", SourceID: "polygon", Price: 232, Open: 230, High: 233, Low: 229.5, Volume: 1000, AsOf: base.AddDate(0, 0, 1)},
		{Symbol: "AAPL", SourceID: "alphavantage", Price: 234, Change: 2, ChangePercent: 0.8621, PreviousClose: 232, AsOf: base.AddDate(0, 0, 2)},
		{Symbol: "MSFT", SourceID: "finnhub", Price: 500, AsOf: base},
	}
	if err := repo.SaveQuotes(ctx, quotes); err != nil {
		t.Fatalf("SaveQuotes: %v", err)
	}

	cases := []struct {
		name       string
		symbol     string
		limit      int
		wantCount  int
		wantSource string
	}{
		{name: "newest first", symbol: "AAPL", limit: 10, wantCount: 3, wantSource: "alphavantage"},
		{name: "limit applies", symbol: "AAPL", limit: 2, wantCount: 2, wantSource: "alphavantage"},
		{name: "other symbol", symbol: "MSFT", limit: 10, wantCount: 1, wantSource: "finnhub"},
		{name: "unknown symbol", symbol: "ZZZZ", limit: 10, wantCount: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := repo.LatestQuotes(ctx, tc.symbol, tc.limit)
			if err != nil {
				t.Fatalf("LatestQuotes: %v", err)
			}
			if len(out) != tc.wantCount {
				t.Fatalf("got %d quotes, want %d", len(out), tc.wantCount)
			}
			if tc.wantCount > 0 && out[0].SourceID != tc.wantSource {
				t.Fatalf("newest source=%q, want %q", out[0].SourceID, tc.wantSource)
			}
		})
	}

	t.Run("NULL columns round-trip as zero", func(t *testing.T) {
		out, err := repo.LatestQuotes(ctx, "MSFT", 1)
		if err != nil || len(out) != 1 {
			t.Fatalf("LatestQuotes: out=%v err=%v", out, err)
		}
		if out[0].High != 0 || out[0].Volume != 0 || !out[0].AsOf.Equal(base) {
			t.Fatalf("unexpected row %+v", out[0])
		}
	})

	if err := repo.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}
