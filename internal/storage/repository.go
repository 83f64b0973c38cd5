package storage

import (
	"context"
	"database/sql"
	"time"

	pq "github.com/lib/pq"

	"github.com/guttosm/marketpulse/internal/domain/models"
)

// SnapshotRepository archives quotes served to callers.
type SnapshotRepository interface {
	SaveQuotes(ctx context.Context, quotes []models.Quote) error
	LatestQuotes(ctx context.Context, symbol string, limit int) ([]models.Quote, error)
	Ping(ctx context.Context) error
}

type snapshotRepository struct {
	db *sql.DB
}

func NewSnapshotRepository(db *sql.DB) SnapshotRepository {
	return &snapshotRepository{db: db}
}

// SaveQuotes bulk loads quotes with COPY in a single transaction.
func (r *snapshotRepository) SaveQuotes(ctx context.Context, quotes []models.Quote) error {
	if len(quotes) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(
		"quote_snapshots",
		"symbol",
		"source_id",
		"price",
		"change",
		"change_percent",
		"open",
		"high",
		"low",
		"previous_close",
		"volume",
		"as_of",
	))
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	// zero means "not reported" in a Quote and NULL in the table
	toNullFloat := func(v float64) interface{} {
		if v == 0 {
			return nil
		}
		return v
	}
	toNullInt := func(v int64) interface{} {
		if v == 0 {
			return nil
		}
		return v
	}

	for _, q := range quotes {
		asOf := q.AsOf
		if asOf.IsZero() {
			asOf = time.Now().UTC()
		}
		if _, err := stmt.ExecContext(ctx,
			q.Symbol,
			q.SourceID,
			q.Price,
			q.Change,
			q.ChangePercent,
			toNullFloat(q.Open),
			toNullFloat(q.High),
			toNullFloat(q.Low),
			toNullFloat(q.PreviousClose),
			toNullInt(q.Volume),
			asOf,
		); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return err
		}
	}

	if _, err := stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		_ = tx.Rollback()
		return err
	}
	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// LatestQuotes returns up to limit archived quotes for symbol, newest first.
func (r *snapshotRepository) LatestQuotes(ctx context.Context, symbol string, limit int) ([]models.Quote, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT symbol, source_id, price, change, change_percent,
		       open, high, low, previous_close, volume, as_of
		FROM quote_snapshots
		WHERE symbol = $1
		ORDER BY as_of DESC, id DESC
		LIMIT $2
	`, symbol, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := []models.Quote{}
	for rows.Next() {
		var q models.Quote
		var open, high, low, prev sql.NullFloat64
		var volume sql.NullInt64
		if err := rows.Scan(&q.Symbol, &q.SourceID, &q.Price, &q.Change, &q.ChangePercent,
			&open, &high, &low, &prev, &volume, &q.AsOf); err != nil {
			return nil, err
		}
		q.Open = open.Float64
		q.High = high.Float64
		q.Low = low.Float64
		q.PreviousClose = prev.Float64
		q.Volume = volume.Int64
		q.AsOf = q.AsOf.UTC()
		out = append(out, q)
	}
	return out, rows.Err()
}

// Ping checks the database connection.
func (r *snapshotRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
