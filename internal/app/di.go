package app

import (
	"context"
	"fmt"

	"portfolio-data/internal/provider"
	"portfolio-data/internal/provider/yahoo"
	"portfolio-data/internal/saver"
	"portfolio-data/internal/store/postgres"
)

// ProvideConfig loads config from environment (for Wire).
func ProvideConfig() (*Config, error) {
	return LoadConfig()
}

// ProvideQuoteProvider creates the Yahoo-backed QuoteProvider (for Wire).
// Caller must call Close() when shutting down.
func ProvideQuoteProvider(cfg *Config) *yahoo.Client {
	return yahoo.New(cfg.ProviderBaseURL, cfg.FetchTimeout)
}

// ProvideStore connects to PostgreSQL (for Wire). Caller must call Close()
// when shutting down.
func ProvideStore(cfg *Config) (*postgres.Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.StoreTimeout)
	defer cancel()
	return postgres.Open(ctx, cfg.DatabaseURL)
}

// ProvideRowSaver creates the archive RowSaver from config (for Wire).
// Returns nil (archiving disabled) when the format is "none"; errors on an
// unsupported format.
func ProvideRowSaver(cfg *Config) (saver.RowSaver, error) {
	if !cfg.ArchiveEnabled() {
		return nil, nil
	}
	rs := saver.NewRowSaver(cfg.ArchiveFormat)
	if rs == nil {
		return nil, fmt.Errorf("unsupported ARCHIVE_FORMAT %q (use: csv, parquet, json, none)", cfg.ArchiveFormat)
	}
	return rs, nil
}

var _ provider.QuoteProvider = (*yahoo.Client)(nil)
