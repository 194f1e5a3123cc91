package app

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"portfolio-data/internal/universe"
)

// DefaultSymbols is the universe ingested when neither SYMBOLS nor
// SYMBOLS_FILE is set.
var DefaultSymbols = []string{
	"AAPL", "GOOGL", "MSFT", "AMZN", "TSLA",
	"NVDA", "JPM", "V", "JNJ", "WMT",
}

// Config holds application configuration from env
type Config struct {
	Symbols         []string `validate:"required,min=1,dive,required"`
	DatabaseURL     string   `validate:"required"`
	ProviderBaseURL string   `validate:"omitempty,url"`
	Workers         int      `validate:"min=1,max=64"`
	FetchTimeout    time.Duration
	StoreTimeout    time.Duration
	DataDir         string `validate:"required"`
	ArchiveFormat   string `validate:"omitempty,oneof=csv json parquet none"`
	LogLevel        string // debug | info | warn | error
}

// LoadConfig reads config from environment and validates it.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		ProviderBaseURL: os.Getenv("PROVIDER_BASE_URL"),
		Workers:         getEnvInt("WORKERS", 4),
		FetchTimeout:    time.Duration(getEnvInt("FETCH_TIMEOUT_SEC", 30)) * time.Second,
		StoreTimeout:    time.Duration(getEnvInt("STORE_TIMEOUT_SEC", 10)) * time.Second,
		DataDir:         getEnv("DATA_DIR", "data"),
		ArchiveFormat:   getArchiveFormat(),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}

	var err error
	cfg.Symbols, err = loadSymbols()
	if err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func loadSymbols() ([]string, error) {
	if path := os.Getenv("SYMBOLS_FILE"); path != "" {
		return universe.LoadFromFile(path)
	}
	if list := os.Getenv("SYMBOLS"); list != "" {
		return universe.Parse(list), nil
	}
	return DefaultSymbols, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getArchiveFormat() string {
	if v := os.Getenv("ARCHIVE_FORMAT"); v != "" {
		return v
	}
	switch os.Getenv("PROFILE") {
	case "dev", "development":
		return "json"
	case "prod", "production", "":
		return "parquet"
	default:
		return "parquet"
	}
}

// ArchiveEnabled reports whether snapshot archiving is on.
func (c *Config) ArchiveEnabled() bool {
	return c.ArchiveFormat != "" && c.ArchiveFormat != "none"
}
