package store

import (
	"context"
	"fmt"

	"portfolio-data/internal/model"
)

// PersistenceError means the backing store is unreachable or a constraint
// was violated. Unlike fetch and normalization failures it is run-fatal:
// continuing would silently skip writes while appearing successful.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// FundamentalsStore owns the instruments table. Upserts are full-record
// replacements keyed by symbol; the surrogate id is assigned on first
// insert and stable across updates.
type FundamentalsStore interface {
	Upsert(ctx context.Context, rec model.NormalizedRecord) (instrumentID int64, err error)
}

// ObservationLog owns the append-only observations table. Rows are never
// updated or deleted; an append for an unknown instrument id fails.
type ObservationLog interface {
	Append(ctx context.Context, obs model.Observation) (observationID int64, err error)
}

// SnapshotStore is what the orchestrator writes through: both tables,
// plus the transactional upsert+append pair so a mid-write failure cannot
// leave an instrument without its intended observation.
type SnapshotStore interface {
	FundamentalsStore
	ObservationLog

	// RecordSnapshot upserts rec and, when obs is non-nil, appends it with
	// the fresh instrument id, all in one transaction. observationID is 0
	// when obs is nil.
	RecordSnapshot(ctx context.Context, rec model.NormalizedRecord, obs *model.Observation) (instrumentID, observationID int64, err error)
}
