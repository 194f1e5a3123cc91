package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"portfolio-data/internal/model"
	"portfolio-data/internal/normalize"
	"portfolio-data/internal/provider"
	"portfolio-data/internal/saver"
	"portfolio-data/internal/slogx"
	"portfolio-data/internal/store"
)

// unitResult is sent by workers for fan-in.
type unitResult struct {
	Ok       bool
	Symbol   string
	Stage    string
	Reason   string
	WroteObs bool
	Row      *model.SnapshotRow
	Fatal    error
}

// Options configures one Runner.
type Options struct {
	Symbols      []string
	Workers      int
	FetchTimeout time.Duration
	StoreTimeout time.Duration

	// ReportDir receives .lastrun.*.json and archive files. Empty disables
	// both.
	ReportDir string
	// RowSaver, when non-nil, archives one flat row per persisted symbol.
	RowSaver saver.RowSaver
	// LogLevel filters the run's fan-in logger. Zero value is info.
	LogLevel slog.Level
}

// Runner drives one ingestion cycle over the symbol universe: fetch →
// normalize → persist per symbol, with bounded parallelism and per-symbol
// failure isolation. Persistence failures abort the run.
type Runner struct {
	dp  provider.QuoteProvider
	st  store.SnapshotStore
	opt Options
}

// New creates a Runner. Workers below 1 run sequentially.
func New(dp provider.QuoteProvider, st store.SnapshotStore, opt Options) *Runner {
	if opt.Workers < 1 {
		opt.Workers = 1
	}
	if opt.FetchTimeout <= 0 {
		opt.FetchTimeout = 30 * time.Second
	}
	if opt.StoreTimeout <= 0 {
		opt.StoreTimeout = 10 * time.Second
	}
	return &Runner{dp: dp, st: st, opt: opt}
}

// Run executes one best-effort pass over the universe. Re-running the same
// universe is the retry mechanism: fundamentals upserts are idempotent and
// each run is tagged with its own run id.
func (r *Runner) Run(ctx context.Context) Result {
	runID := uuid.NewString()
	symbols := r.opt.Symbols

	logs := make(chan string, 2048)
	logger := slogx.NewChanLogger(logs, r.opt.LogLevel)
	var logWg sync.WaitGroup
	logWg.Add(1)
	go func() {
		defer logWg.Done()
		runLogWriter(logs)
	}()
	defer func() {
		close(logs)
		logWg.Wait()
	}()

	logger.Info("run start", "run_id", runID, "symbols", len(symbols), "workers", r.opt.Workers)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	pending := make(chan string, len(symbols))
	for _, s := range symbols {
		pending <- s
	}
	close(pending)

	results := make(chan unitResult, len(symbols)+16)

	var mu sync.Mutex
	state := &runState{}
	var resWg sync.WaitGroup
	resWg.Add(1)
	go func() {
		defer resWg.Done()
		runResultCollector(results, &mu, state)
	}()

	go runHeartbeat(runCtx, 30*time.Second, len(symbols), &mu, state, logger)

	var wg sync.WaitGroup
	wg.Add(r.opt.Workers)
	for i := 0; i < r.opt.Workers; i++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-runCtx.Done():
					return
				case symbol, ok := <-pending:
					if !ok {
						return
					}
					res := r.processOne(runCtx, logger, runID, symbol)
					results <- res
					if res.Fatal != nil {
						// store is gone; stop handing out work
						cancel()
					}
				}
			}
		}()
	}
	wg.Wait()
	close(results)
	resWg.Wait()
	cancel()

	// A cancelled run may leave symbols unconsumed in pending. Those were
	// neither persisted nor attributed as failures, so reporting the run as
	// successful would silently swallow them.
	if state.fatal == nil && ctx.Err() != nil && state.success+len(state.failedList) < len(symbols) {
		state.fatal = fmt.Errorf("run cancelled with %d of %d symbols unprocessed: %w",
			len(symbols)-state.success-len(state.failedList), len(symbols), ctx.Err())
	}

	result := state.result(runID)

	logger.Info("run done", "run_id", runID, "outcome", string(result.Outcome),
		"success", result.Succeeded, "failed", len(result.Failed), "observations", result.Observations)

	if r.opt.ReportDir != "" && result.Fatal == nil {
		if err := writeRunReport(r.opt.ReportDir, state.successList, result.Failed); err != nil {
			logger.Warn("could not write run report", "error", err)
		}
		if r.opt.RowSaver != nil && len(state.rows) > 0 {
			if path, err := writeArchive(r.opt.ReportDir, r.dp.GetName(), runID, r.opt.RowSaver, state.rows); err != nil {
				logger.Warn("could not write snapshot archive", "error", err)
			} else {
				logger.Info("snapshot archive saved", "path", path, "rows", len(state.rows))
			}
		}
	}

	return result
}

// processOne runs one fetch→normalize→persist unit of work. Fetch and
// normalization failures are recoverable; persistence failures are fatal.
func (r *Runner) processOne(ctx context.Context, logger *slog.Logger, runID, symbol string) unitResult {
	fetchCtx, cancelFetch := context.WithTimeout(ctx, r.opt.FetchTimeout)
	snap, err := r.dp.FetchSnapshot(fetchCtx, symbol)
	cancelFetch()
	if err != nil {
		logger.Error("fetch fail", "symbol", symbol, "reason", err.Error())
		return unitResult{Symbol: symbol, Stage: "fetch", Reason: err.Error()}
	}

	rec, err := normalize.Normalize(symbol, snap)
	if err != nil {
		logger.Error("normalize fail", "symbol", symbol, "reason", err.Error())
		return unitResult{Symbol: symbol, Stage: "normalize", Reason: err.Error()}
	}

	// referential ordering: the store upserts fundamentals first and only
	// then appends the observation, inside one transaction
	var obs *model.Observation
	if rec.HasObservation() {
		obs = &model.Observation{Price: *rec.Price, Volume: rec.Volume, RunID: runID}
	}

	storeCtx, cancelStore := context.WithTimeout(ctx, r.opt.StoreTimeout)
	instrumentID, _, err := r.st.RecordSnapshot(storeCtx, rec, obs)
	cancelStore()
	if err != nil {
		var pe *store.PersistenceError
		if errors.As(err, &pe) {
			logger.Error("persist fail, aborting run", "symbol", symbol, "reason", err.Error())
			return unitResult{Symbol: symbol, Stage: "persist", Reason: err.Error(), Fatal: err}
		}
		logger.Error("persist fail", "symbol", symbol, "reason", err.Error())
		return unitResult{Symbol: symbol, Stage: "persist", Reason: err.Error()}
	}

	logger.Info("symbol ok", "symbol", symbol, "instrument_id", instrumentID, "observation", obs != nil)
	return unitResult{Ok: true, Symbol: symbol, WroteObs: obs != nil, Row: snapshotRow(rec, obs)}
}

func snapshotRow(rec model.NormalizedRecord, obs *model.Observation) *model.SnapshotRow {
	row := &model.SnapshotRow{
		Symbol:      rec.Symbol,
		CompanyName: rec.CompanyName,
		ObservedAt:  time.Now().UTC().Unix(),
	}
	if rec.PreviousClose != nil {
		row.PreviousClose = *rec.PreviousClose
	}
	if rec.MarketCap != nil {
		row.MarketCap = *rec.MarketCap
	}
	if obs != nil {
		row.Price = obs.Price
		if obs.Volume != nil {
			row.Volume = *obs.Volume
		}
	}
	return row
}
