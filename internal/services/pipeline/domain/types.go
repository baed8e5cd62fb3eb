// Package domain defines the types and ports of the pipeline coordinator
package domain

import (
	"context"
	"time"

	news "fxradar/internal/services/news/domain"
	sources "fxradar/internal/services/sources/domain"
)

// RawItem is one article as delivered by a fetcher, before dedup and scoring
type RawItem struct {
	URL         string
	Title       string
	Summary     string
	Content     string
	PublishedAt *time.Time
}

// FetcherPort fetches raw items for one source. Implementations pick the
// transport from the source kind
type FetcherPort interface {
	Fetch(ctx context.Context, src sources.Source) ([]RawItem, error)
}

// PublisherPort fans an accepted record out to live listeners
type PublisherPort interface {
	Publish(rec news.Record)
}

// SourceReport is the per-source outcome of one cycle
type SourceReport struct {
	Source    string `json:"source"`
	Fetched   int    `json:"fetched"`
	Accepted  int    `json:"accepted"`
	Duplicate int    `json:"duplicate"`
	Failed    int    `json:"failed"`
	Error     string `json:"error,omitempty"`
}

// CycleReport summarizes one full pipeline run
type CycleReport struct {
	CycleID   string         `json:"cycle_id"`
	StartedAt time.Time      `json:"started_at"`
	Elapsed   time.Duration  `json:"elapsed"`
	Sources   []SourceReport `json:"sources"`
	Accepted  int            `json:"accepted"`
	Alerts    int            `json:"alerts"`
}
