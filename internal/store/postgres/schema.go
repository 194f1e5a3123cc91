package postgres

import (
	"context"

	"portfolio-data/internal/store"
)

// Schema bootstrap. Migration tooling is deliberately out of scope; the
// tables are small and only ever grow columns with the code that fills them.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS instruments (
		id                  BIGSERIAL PRIMARY KEY,
		symbol              TEXT NOT NULL UNIQUE,
		company_name        TEXT NOT NULL,
		market_cap          DOUBLE PRECISION,
		avg_volume          BIGINT,
		dividend_yield      DOUBLE PRECISION,
		trailing_pe         DOUBLE PRECISION,
		fifty_two_week_low  DOUBLE PRECISION,
		fifty_two_week_high DOUBLE PRECISION,
		day_low             DOUBLE PRECISION,
		day_high            DOUBLE PRECISION,
		previous_close      DOUBLE PRECISION,
		updated_at          TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS observations (
		id            BIGSERIAL PRIMARY KEY,
		instrument_id BIGINT NOT NULL REFERENCES instruments(id),
		price         DOUBLE PRECISION NOT NULL,
		volume        BIGINT,
		observed_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		run_id        TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS observations_instrument_observed_idx
		ON observations (instrument_id, observed_at)`,
}

// EnsureSchema creates the instruments and observations tables when absent.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return &store.PersistenceError{Op: "ensure schema", Err: err}
		}
	}
	return nil
}
