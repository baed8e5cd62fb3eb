package domain

import "context"

// ReaderPort reads source configuration
type ReaderPort interface {
	List(ctx context.Context) ([]Source, error)
	ListEnabled(ctx context.Context) ([]Source, error)
}

// WriterPort mutates source configuration
type WriterPort interface {
	// Upsert creates or replaces a source keyed by name and returns the row
	Upsert(ctx context.Context, in UpsertInput) (Source, error)
	// EnsureDefaults seeds the default sources when the table is empty
	EnsureDefaults(ctx context.Context) error
}

// StatusPort tracks per-source fetch health for the current process
type StatusPort interface {
	Set(ctx context.Context, sourceName string, st Status)
	Snapshot(ctx context.Context) map[string]Status
}

// StatusCachePort is an optional write-through cache for statuses so health
// survives a process restart; failures are best-effort and never surfaced
type StatusCachePort interface {
	Put(ctx context.Context, sourceName string, st Status) error
	All(ctx context.Context) (map[string]Status, error)
}
