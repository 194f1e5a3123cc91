package model

// SnapshotRow is the flat per-symbol row written by the archive savers.
// Shared between ingest and saver for serialization (json, csv, parquet).
type SnapshotRow struct {
	Symbol        string  `json:"symbol" parquet:"symbol"`
	CompanyName   string  `json:"name" parquet:"name"`
	Price         float64 `json:"price,omitempty" parquet:"price,optional"`
	Volume        int64   `json:"volume,omitempty" parquet:"volume,optional"`
	PreviousClose float64 `json:"prev_close,omitempty" parquet:"prev_close,optional"`
	MarketCap     float64 `json:"market_cap,omitempty" parquet:"market_cap,optional"`
	ObservedAt    int64   `json:"observed_at" parquet:"observed_at"` // Unix seconds, UTC
}
