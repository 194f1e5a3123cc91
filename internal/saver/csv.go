package saver

import (
	"encoding/csv"
	"os"
	"strconv"

	"portfolio-data/internal/model"
)

// CSVSaver archives rows as CSV (header: symbol,name,price,volume,prev_close,market_cap,observed_at).
type CSVSaver struct{}

func (CSVSaver) Extension() string { return "csv" }

func (CSVSaver) Save(rows []model.SnapshotRow, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"symbol", "name", "price", "volume", "prev_close", "market_cap", "observed_at"}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := w.Write([]string{
			r.Symbol,
			r.CompanyName,
			floatStr(r.Price),
			strconv.FormatInt(r.Volume, 10),
			floatStr(r.PreviousClose),
			floatStr(r.MarketCap),
			strconv.FormatInt(r.ObservedAt, 10),
		}); err != nil {
			return err
		}
	}
	return nil
}

func floatStr(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
