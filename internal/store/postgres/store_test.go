package postgres

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-data/internal/model"
	"portfolio-data/internal/store"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db), mock
}

func ptr[T any](v T) *T { return &v }

func sampleRecord() model.NormalizedRecord {
	return model.NormalizedRecord{
		Symbol:        "AAPL",
		CompanyName:   "Apple Inc.",
		MarketCap:     ptr(2.5e12),
		PreviousClose: ptr(149.0),
		Price:         ptr(150.25),
		Volume:        ptr(int64(1000000)),
	}
}

func TestUpsertReturnsSurrogateID(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("INSERT INTO instruments").
		WithArgs("AAPL", "Apple Inc.", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	id, err := s.Upsert(context.Background(), sampleRecord())
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertPreservesIDAcrossUpdates(t *testing.T) {
	s, mock := newMockStore(t)

	// same symbol twice: ON CONFLICT path hands back the original id
	for i := 0; i < 2; i++ {
		mock.ExpectQuery("INSERT INTO instruments").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
	}

	first, err := s.Upsert(context.Background(), sampleRecord())
	require.NoError(t, err)
	second, err := s.Upsert(context.Background(), sampleRecord())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

// upsertUpdatePattern requires every fundamentals column to ride the
// conflict branch, so dropping one from the SET list fails the match.
const upsertUpdatePattern = `(?s)ON CONFLICT \(symbol\) DO UPDATE SET.*` +
	`company_name\s*=\s*EXCLUDED\.company_name.*` +
	`market_cap\s*=\s*EXCLUDED\.market_cap.*` +
	`avg_volume\s*=\s*EXCLUDED\.avg_volume.*` +
	`dividend_yield\s*=\s*EXCLUDED\.dividend_yield.*` +
	`trailing_pe\s*=\s*EXCLUDED\.trailing_pe.*` +
	`fifty_two_week_low\s*=\s*EXCLUDED\.fifty_two_week_low.*` +
	`fifty_two_week_high\s*=\s*EXCLUDED\.fifty_two_week_high.*` +
	`day_low\s*=\s*EXCLUDED\.day_low.*` +
	`day_high\s*=\s*EXCLUDED\.day_high.*` +
	`previous_close\s*=\s*EXCLUDED\.previous_close.*` +
	`updated_at\s*=\s*EXCLUDED\.updated_at.*` +
	`RETURNING id`

func TestUpsertReplacesEveryColumn(t *testing.T) {
	s, mock := newMockStore(t)

	revised := model.NormalizedRecord{
		Symbol:        "AAPL",
		CompanyName:   "Apple Computer",
		MarketCap:     ptr(2.6e12),
		AvgVolume:     ptr(int64(600000)),
		DividendYield: ptr(0.005),
		TrailingPE:    ptr(28.1),
		FiftyTwoWkLow: ptr(120.0),
		FiftyTwoWkHi:  ptr(210.0),
		DayLow:        ptr(149.8),
		DayHigh:       ptr(152.2),
		PreviousClose: ptr(150.25),
	}

	mock.ExpectQuery(upsertUpdatePattern).
		WithArgs("AAPL", "Apple Computer", 2.6e12, int64(600000), 0.005, 28.1,
			120.0, 210.0, 149.8, 152.2, 150.25, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	id, err := s.Upsert(context.Background(), revised)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertUnreachableStore(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("INSERT INTO instruments").
		WillReturnError(errors.New("connection refused"))

	_, err := s.Upsert(context.Background(), sampleRecord())

	var pe *store.PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, pe.Op, "AAPL")
}

func TestAppendDefaultsTimestamp(t *testing.T) {
	s, mock := newMockStore(t)

	var observedAt time.Time
	mock.ExpectQuery("INSERT INTO observations").
		WithArgs(int64(7), 150.25, sqlmock.AnyArg(), timestampCapture{&observedAt}, "run-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

	id, err := s.Append(context.Background(), model.Observation{
		InstrumentID: 7,
		Price:        150.25,
		Volume:       ptr(int64(1000000)),
		RunID:        "run-1",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	assert.WithinDuration(t, time.Now().UTC(), observedAt, 5*time.Second)
	assert.Zero(t, observedAt.Nanosecond(), "write-time default is second precision")
}

func TestAppendForeignKeyViolation(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("INSERT INTO observations").
		WillReturnError(&pq.Error{Code: "23503", Detail: "Key (instrument_id)=(999) is not present"})

	_, err := s.Append(context.Background(), model.Observation{InstrumentID: 999, Price: 1})

	var pe *store.PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, pe.Error(), "instrument does not exist")
}

func TestRecordSnapshotCommitsPair(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO instruments").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectQuery("INSERT INTO observations").
		WithArgs(int64(7), 150.25, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))
	mock.ExpectCommit()

	instID, obsID, err := s.RecordSnapshot(context.Background(), sampleRecord(),
		&model.Observation{Price: 150.25, Volume: ptr(int64(1000000))})
	require.NoError(t, err)
	assert.Equal(t, int64(7), instID)
	assert.Equal(t, int64(42), obsID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordSnapshotFundamentalsOnly(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO instruments").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectCommit()

	instID, obsID, err := s.RecordSnapshot(context.Background(), sampleRecord(), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(7), instID)
	assert.Zero(t, obsID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordSnapshotRollsBackOnAppendFailure(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO instruments").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectQuery("INSERT INTO observations").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, _, err := s.RecordSnapshot(context.Background(), sampleRecord(),
		&model.Observation{Price: 150.25})

	var pe *store.PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// timestampCapture records the bound timestamp so the test can inspect the
// default the store filled in.
type timestampCapture struct {
	dst *time.Time
}

func (c timestampCapture) Match(v driver.Value) bool {
	ts, ok := v.(time.Time)
	if ok {
		*c.dst = ts
	}
	return ok
}
