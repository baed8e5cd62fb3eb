// Package domain defines the core types and ports for the news service
package domain

import (
	"time"

	"fxradar/internal/core/impact"
)

// Item is the persisted identity of a unique real-world article
type Item struct {
	ID          string     `json:"id"`
	SourceID    int64      `json:"-"`
	Source      string     `json:"source"`
	URL         string     `json:"url"` // canonical form
	Title       string     `json:"title"`
	Summary     string     `json:"summary,omitempty"`
	Content     string     `json:"content,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	FetchedAt   time.Time  `json:"fetched_at"`
	Hash        string     `json:"-"`
	Language    string     `json:"language,omitempty"`
}

// Record is an item enriched with its analysis; this is both the API list
// shape and the payload published to stream subscribers
type Record struct {
	Item
	Analysis impact.Result `json:"analysis"`
}

// Filter narrows List queries
type Filter struct {
	Symbol        string
	Source        string
	MinConfidence int
	Limit         int
}

// DedupSeed is the bulk read taken at cycle start to prime dedup history
type DedupSeed struct {
	URLs   []string
	Hashes []string
	Titles []string
}
