package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"portfolio-data/internal/app"
	"portfolio-data/internal/ingest"
	"portfolio-data/internal/provider"
	"portfolio-data/internal/saver"
	"portfolio-data/internal/slogx"
	"portfolio-data/internal/store/postgres"
)

// App holds application dependencies built by Wire.
type App struct {
	Config *app.Config
	DP     provider.QuoteProvider
	Store  *postgres.Store
	Saver  saver.RowSaver
}

func init() {
	slog.SetDefault(slogx.NewDefault("info"))
}

func main() {
	os.Exit(run())
}

func run() int {
	_ = godotenv.Load()

	a, err := InitializeApp()
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		return 1
	}
	defer a.DP.Close()
	defer a.Store.Close()

	cfg := a.Config
	slog.SetDefault(slogx.NewDefault(cfg.LogLevel))
	slog.Info("using data provider", "provider", a.DP.GetName())
	slog.Info("symbol universe", "count", len(cfg.Symbols))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.Store.EnsureSchema(ctx); err != nil {
		slog.Error("failed to ensure schema", "error", err)
		return 1
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		slog.Error("failed to create data dir", "error", err)
		return 1
	}

	runner := ingest.New(a.DP, a.Store, ingest.Options{
		Symbols:      cfg.Symbols,
		Workers:      cfg.Workers,
		FetchTimeout: cfg.FetchTimeout,
		StoreTimeout: cfg.StoreTimeout,
		ReportDir:    cfg.DataDir,
		RowSaver:     a.Saver,
		LogLevel:     slogx.ParseLevel(cfg.LogLevel),
	})

	res := runner.Run(ctx)
	switch res.Outcome {
	case ingest.FatalFailure:
		slog.Error("run aborted", "run_id", res.RunID, "error", res.Fatal)
	case ingest.PartialSuccess:
		slog.Warn("run partially succeeded", "run_id", res.RunID,
			"succeeded", res.Succeeded, "failed", len(res.Failed))
	default:
		slog.Info("run succeeded", "run_id", res.RunID,
			"succeeded", res.Succeeded, "observations", res.Observations)
	}
	return res.Outcome.ExitCode()
}
