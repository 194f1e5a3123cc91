package normalize

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"portfolio-data/internal/model"
	"portfolio-data/internal/provider"
)

// NormalizationError means a payload was unusable as a whole (empty/nil).
// Individual missing fields are not errors; they normalize to nil.
type NormalizationError struct {
	Symbol string
	Reason string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("normalize %s: %s", e.Symbol, e.Reason)
}

// Provider field keys. The upstream schema varies per symbol; every key is
// optional and extracted independently.
const (
	keyShortName     = "shortName"
	keyLongName      = "longName"
	keyMarketPrice   = "regularMarketPrice"
	keyVolume        = "volume"
	keyPreviousClose = "previousClose"
	keyMarketCap     = "marketCap"
	keyAvgVolume     = "averageVolume"
	keyDividendYield = "dividendYield"
	keyTrailingPE    = "trailingPE"
	keyDayLow        = "dayLow"
	keyDayHigh       = "dayHigh"
	key52WkLow       = "fiftyTwoWeekLow"
	key52WkHigh      = "fiftyTwoWeekHigh"
)

// Normalize maps a raw provider snapshot into the canonical record.
// Pure: no I/O, no mutation of the input.
//
// Rules, applied per field:
//   - absent numeric → nil, never zero (zero is a valid observed value)
//   - dividend yield kept as a ratio; formatting is a presentation concern
//   - range bounds (day, 52-week) extracted independently
//   - display name falls back shortName → longName → symbol, never empty
//   - observation price = live price else previous close; volume = live
//     volume else average volume; both required for an observation
func Normalize(symbol string, snap provider.Snapshot) (model.NormalizedRecord, error) {
	if len(snap) == 0 {
		return model.NormalizedRecord{}, &NormalizationError{Symbol: symbol, Reason: "empty payload"}
	}

	rec := model.NormalizedRecord{
		Symbol:        strings.ToUpper(strings.TrimSpace(symbol)),
		CompanyName:   displayName(symbol, snap),
		MarketCap:     asFloat(snap[keyMarketCap]),
		AvgVolume:     asInt64(snap[keyAvgVolume]),
		DividendYield: asFloat(snap[keyDividendYield]),
		TrailingPE:    asFloat(snap[keyTrailingPE]),
		FiftyTwoWkLow: asFloat(snap[key52WkLow]),
		FiftyTwoWkHi:  asFloat(snap[key52WkHigh]),
		DayLow:        asFloat(snap[keyDayLow]),
		DayHigh:       asFloat(snap[keyDayHigh]),
		PreviousClose: asFloat(snap[keyPreviousClose]),
	}

	rec.Price = asFloat(snap[keyMarketPrice])
	if rec.Price == nil {
		rec.Price = rec.PreviousClose
	}
	rec.Volume = asInt64(snap[keyVolume])
	if rec.Volume == nil {
		rec.Volume = rec.AvgVolume
	}

	return rec, nil
}

func displayName(symbol string, snap provider.Snapshot) string {
	if s := asString(snap[keyShortName]); s != "" {
		return s
	}
	if s := asString(snap[keyLongName]); s != "" {
		return s
	}
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// asFloat extracts a numeric value tolerantly: JSON numbers decode as
// float64, but providers occasionally ship ints or numeric strings.
func asFloat(v any) *float64 {
	switch n := v.(type) {
	case float64:
		return &n
	case float32:
		f := float64(n)
		return &f
	case int:
		f := float64(n)
		return &f
	case int64:
		f := float64(n)
		return &f
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return &f
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return &f
		}
	}
	return nil
}

func asInt64(v any) *int64 {
	if f := asFloat(v); f != nil {
		i := int64(*f)
		return &i
	}
	return nil
}

func asString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}
