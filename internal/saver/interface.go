package saver

import (
	"strings"

	"portfolio-data/internal/model"
)

// RowSaver is the abstraction for archiving one run's snapshot rows.
// The orchestrator only depends on this interface; the concrete format is
// injected at wiring time.
type RowSaver interface {
	Save(rows []model.SnapshotRow, path string) error
	Extension() string
}

// NewRowSaver creates an implementation by format (csv, parquet, json).
// Returns nil if format not supported.
func NewRowSaver(format string) RowSaver {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return CSVSaver{}
	case "parquet":
		return ParquetSaver{}
	case "json":
		return JSONSaver{}
	default:
		return nil
	}
}
