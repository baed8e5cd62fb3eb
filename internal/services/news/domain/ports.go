package domain

import (
	"context"

	"fxradar/internal/core/impact"
)

// ReaderPort exposes read operations over stored news
type ReaderPort interface {
	List(ctx context.Context, f Filter) ([]Record, error)
	Get(ctx context.Context, id string) (Record, error)
	Seed(ctx context.Context, limit int) (DedupSeed, error)
}

// WriterPort persists an item and its analysis atomically
type WriterPort interface {
	Create(ctx context.Context, item Item, analysis impact.Result) (Record, error)
}
