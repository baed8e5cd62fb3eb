package domain

import (
	"context"
	"time"

	"fxradar/internal/core/impact"
	news "fxradar/internal/services/news/domain"
)

// ReaderPort exposes read operations over rules and events
type ReaderPort interface {
	ListRules(ctx context.Context) ([]Rule, error)
	ListEvents(ctx context.Context, limit int) ([]Event, error)
}

// WriterPort mutates rules
type WriterPort interface {
	CreateRule(ctx context.Context, in CreateInput) (Rule, error)
}

// EvaluatorPort runs new analyses against the enabled rules
type EvaluatorPort interface {
	Evaluate(ctx context.Context, rec news.Record, analysis impact.Result, now time.Time) ([]Event, error)
}

// NotifierPort pushes a fired event to an external channel; failures are
// logged, never propagated into the cycle
type NotifierPort interface {
	Notify(ctx context.Context, ev Event) error
}
