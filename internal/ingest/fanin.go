package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"portfolio-data/internal/model"
)

func runLogWriter(lines <-chan string) {
	for s := range lines {
		fmt.Println(s)
	}
}

// runState accumulates fan-in results for one run. Guarded by the mutex
// shared with the heartbeat reader.
type runState struct {
	success      int
	observations int
	successList  []string
	failedList   []SymbolFailure
	rows         []*model.SnapshotRow
	fatal        error
}

func (st *runState) result(runID string) Result {
	res := Result{
		RunID:        runID,
		Succeeded:    st.success,
		Observations: st.observations,
		Failed:       st.failedList,
		Fatal:        st.fatal,
	}
	switch {
	case st.fatal != nil:
		res.Outcome = FatalFailure
	case len(st.failedList) > 0:
		res.Outcome = PartialSuccess
	default:
		res.Outcome = AllSucceeded
	}
	return res
}

func runResultCollector(results <-chan unitResult, mu *sync.Mutex, st *runState) {
	for r := range results {
		mu.Lock()
		switch {
		case r.Fatal != nil:
			if st.fatal == nil {
				st.fatal = r.Fatal
			}
		case r.Ok:
			st.success++
			st.successList = append(st.successList, r.Symbol)
			if r.WroteObs {
				st.observations++
			}
			if r.Row != nil {
				st.rows = append(st.rows, r.Row)
			}
		default:
			st.failedList = append(st.failedList, SymbolFailure{
				Symbol: r.Symbol, Stage: r.Stage, Reason: r.Reason,
			})
		}
		mu.Unlock()
	}
}

func runHeartbeat(ctx context.Context, interval time.Duration, total int, mu *sync.Mutex, st *runState, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			mu.Lock()
			s, f, o := st.success, len(st.failedList), st.observations
			mu.Unlock()
			logger.Info("heartbeat", "done", s+f, "total", total, "success", s, "failed", f, "observations", o)
		}
	}
}
