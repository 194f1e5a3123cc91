package saver

import (
	"github.com/parquet-go/parquet-go"

	"portfolio-data/internal/model"
)

// ParquetSaver archives rows as Parquet.
type ParquetSaver struct{}

func (ParquetSaver) Extension() string { return "parquet" }

func (ParquetSaver) Save(rows []model.SnapshotRow, path string) error {
	return parquet.WriteFile(path, rows)
}
