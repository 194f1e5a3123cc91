package provider

import "fmt"

// FetchKind classifies why a snapshot fetch failed.
type FetchKind string

const (
	FetchNetwork     FetchKind = "network"
	FetchNotFound    FetchKind = "not_found"
	FetchMalformed   FetchKind = "malformed"
	FetchRateLimited FetchKind = "rate_limited"
)

// FetchError is a per-symbol fetch failure. It is recoverable and isolated:
// the run continues with the next symbol.
type FetchError struct {
	Symbol string
	Kind   FetchKind
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fetch %s: %s", e.Symbol, e.Kind)
	}
	return fmt.Sprintf("fetch %s: %s: %v", e.Symbol, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
