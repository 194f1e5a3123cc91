package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"portfolio-data/internal/model"
	"portfolio-data/internal/store"
)

// Store implements store.SnapshotStore backed by PostgreSQL.
type Store struct {
	db *sql.DB
}

var _ store.SnapshotStore = (*Store)(nil)

// New creates a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open connects to PostgreSQL and verifies the connection.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, &store.PersistenceError{Op: "open", Err: err}
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, &store.PersistenceError{Op: "open", Err: err}
	}
	return &Store{db: db}, nil
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const upsertSQL = `
	INSERT INTO instruments (
		symbol, company_name, market_cap, avg_volume, dividend_yield,
		trailing_pe, fifty_two_week_low, fifty_two_week_high,
		day_low, day_high, previous_close, updated_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	ON CONFLICT (symbol) DO UPDATE SET
		company_name        = EXCLUDED.company_name,
		market_cap          = EXCLUDED.market_cap,
		avg_volume          = EXCLUDED.avg_volume,
		dividend_yield      = EXCLUDED.dividend_yield,
		trailing_pe         = EXCLUDED.trailing_pe,
		fifty_two_week_low  = EXCLUDED.fifty_two_week_low,
		fifty_two_week_high = EXCLUDED.fifty_two_week_high,
		day_low             = EXCLUDED.day_low,
		day_high            = EXCLUDED.day_high,
		previous_close      = EXCLUDED.previous_close,
		updated_at          = EXCLUDED.updated_at
	RETURNING id`

const appendSQL = `
	INSERT INTO observations (instrument_id, price, volume, observed_at, run_id)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id`

// Upsert inserts or fully replaces the fundamentals row for rec.Symbol.
// The surrogate id is created on first insert and preserved across updates.
func (s *Store) Upsert(ctx context.Context, rec model.NormalizedRecord) (int64, error) {
	return upsert(ctx, s.db, rec)
}

func upsert(ctx context.Context, q execer, rec model.NormalizedRecord) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx, upsertSQL,
		rec.Symbol,
		rec.CompanyName,
		nullFloat(rec.MarketCap),
		nullInt(rec.AvgVolume),
		nullFloat(rec.DividendYield),
		nullFloat(rec.TrailingPE),
		nullFloat(rec.FiftyTwoWkLow),
		nullFloat(rec.FiftyTwoWkHi),
		nullFloat(rec.DayLow),
		nullFloat(rec.DayHigh),
		nullFloat(rec.PreviousClose),
		time.Now().UTC(),
	).Scan(&id)
	if err != nil {
		return 0, &store.PersistenceError{Op: "upsert " + rec.Symbol, Err: err}
	}
	return id, nil
}

// Append inserts one observation row. Rows are never updated or deleted.
// An instrument id that does not exist fails the foreign key check and is
// surfaced as a PersistenceError, never written as an orphan.
func (s *Store) Append(ctx context.Context, obs model.Observation) (int64, error) {
	return appendObs(ctx, s.db, obs)
}

func appendObs(ctx context.Context, q execer, obs model.Observation) (int64, error) {
	if obs.ObservedAt.IsZero() {
		obs.ObservedAt = time.Now().UTC().Truncate(time.Second)
	}
	var id int64
	err := q.QueryRowContext(ctx, appendSQL,
		obs.InstrumentID,
		obs.Price,
		nullInt(obs.Volume),
		obs.ObservedAt,
		obs.RunID,
	).Scan(&id)
	if err != nil {
		return 0, &store.PersistenceError{Op: "append", Err: classify(err)}
	}
	return id, nil
}

// RecordSnapshot performs the upsert and, when obs is non-nil, the append
// in one transaction. A mid-write failure rolls back both writes.
func (s *Store) RecordSnapshot(ctx context.Context, rec model.NormalizedRecord, obs *model.Observation) (int64, int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, &store.PersistenceError{Op: "begin", Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	instrumentID, err := upsert(ctx, tx, rec)
	if err != nil {
		return 0, 0, err
	}

	var observationID int64
	if obs != nil {
		o := *obs
		o.InstrumentID = instrumentID
		observationID, err = appendObs(ctx, tx, o)
		if err != nil {
			return 0, 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, &store.PersistenceError{Op: "commit " + rec.Symbol, Err: err}
	}
	return instrumentID, observationID, nil
}

// classify annotates well-known postgres error classes so callers see the
// constraint that fired, not just a driver code.
func classify(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23503" {
		return errors.New("instrument does not exist: " + pqErr.Detail)
	}
	return err
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
