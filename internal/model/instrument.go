package model

import "time"

// NormalizedRecord is the canonical fundamentals shape produced by the
// normalizer. Every numeric field is a pointer: nil means the provider did
// not report the field, which is distinct from an observed zero.
type NormalizedRecord struct {
	Symbol        string
	CompanyName   string
	MarketCap     *float64
	AvgVolume     *int64
	DividendYield *float64 // ratio in [0,1], never pre-formatted as percent
	TrailingPE    *float64
	FiftyTwoWkLow *float64
	FiftyTwoWkHi  *float64
	DayLow        *float64
	DayHigh       *float64
	PreviousClose *float64

	// Resolved observation values after live→fallback resolution.
	// Both must be non-nil for an observation to be emitted.
	Price  *float64
	Volume *int64
}

// HasObservation reports whether both price and volume resolved.
func (r NormalizedRecord) HasObservation() bool {
	return r.Price != nil && r.Volume != nil
}

// Instrument is one row of the fundamentals table. ID is the surrogate key
// assigned by the store on first insert and stable across upserts.
type Instrument struct {
	ID          int64
	Symbol      string
	CompanyName string

	MarketCap     *float64
	AvgVolume     *int64
	DividendYield *float64
	TrailingPE    *float64
	FiftyTwoWkLow *float64
	FiftyTwoWkHi  *float64
	DayLow        *float64
	DayHigh       *float64
	PreviousClose *float64

	UpdatedAt time.Time
}

// Observation is one immutable price/volume sample. Rows are append-only;
// InstrumentID references Instrument.ID.
type Observation struct {
	ID           int64
	InstrumentID int64
	Price        float64
	Volume       *int64
	ObservedAt   time.Time // zero value: store fills write time, UTC, second precision
	RunID        string
}
