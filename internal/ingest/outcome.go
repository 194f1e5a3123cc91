package ingest

// Outcome is the terminal state of one ingestion run.
type Outcome string

const (
	// AllSucceeded: every symbol in the universe was fetched, normalized
	// and persisted.
	AllSucceeded Outcome = "all_succeeded"
	// PartialSuccess: at least one symbol failed recoverably; the rest were
	// persisted. Every symbol failing recoverably is still a partial
	// success, not a fatal run.
	PartialSuccess Outcome = "partial_success"
	// FatalFailure: the store rejected a write or became unreachable; the
	// run was aborted to avoid silently skipping the remaining symbols.
	FatalFailure Outcome = "fatal_failure"
)

// ExitCode maps the outcome to a process exit status. Partial success gets
// its own code so operators can alert on it without treating it as total
// failure.
func (o Outcome) ExitCode() int {
	switch o {
	case AllSucceeded:
		return 0
	case PartialSuccess:
		return 2
	default:
		return 1
	}
}

// SymbolFailure is one recoverable per-symbol failure, attributed and
// accumulated without aborting the run.
type SymbolFailure struct {
	Symbol string `json:"symbol"`
	Stage  string `json:"stage"` // fetch | normalize
	Reason string `json:"reason"`
}

// Result is the aggregate of one run. It exists only for the duration of
// one execution and is never persisted.
type Result struct {
	RunID        string
	Outcome      Outcome
	Succeeded    int
	Observations int
	Failed       []SymbolFailure
	Fatal        error
}
