package provider

import "context"

// Snapshot is the raw, loosely-typed payload returned by a provider for one
// symbol. Keys are provider-defined; a missing field is simply absent from
// the map, never an error.
type Snapshot map[string]any

// QuoteProvider is the abstraction used by the ingest pipeline when fetching
// the current snapshot for a symbol. Implementations must not retry
// internally; retry policy belongs to the caller.
type QuoteProvider interface {
	GetName() string
	FetchSnapshot(ctx context.Context, symbol string) (Snapshot, error)
	Close() error
}
