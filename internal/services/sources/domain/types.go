// Package domain defines the core types and ports for the sources service
package domain

import "time"

// Kind enumerates how a source is fetched
type Kind string

// Kind values
const (
	// KindFeed polls an RSS/Atom feed
	KindFeed Kind = "feed"
	// KindPage scrapes a single HTML page
	KindPage Kind = "page"
	// KindReplay rotates through a local fixture, for demos and tests
	KindReplay Kind = "replay"
)

// Valid reports whether k is a known fetch kind
func (k Kind) Valid() bool {
	switch k {
	case KindFeed, KindPage, KindReplay:
		return true
	}
	return false
}

// Config is the kind-specific fetch configuration
type Config struct {
	// URL is required for feed and page sources
	URL string `json:"url,omitempty" validate:"omitempty,url"`
	// MinIntervalSec spaces out page fetches; 0 means the adapter default
	MinIntervalSec int `json:"min_interval_sec,omitempty" validate:"gte=0"`
	// Fixture names the replay data file for replay sources
	Fixture string `json:"fixture,omitempty"`
}

// Source is a configured ingestion origin. Owned by configuration; the
// pipeline only reads it
type Source struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Kind    Kind   `json:"kind"`
	Config  Config `json:"config"`
	Enabled bool   `json:"enabled"`
}

// Status is the per-source health record updated every cycle
type Status struct {
	OK          bool      `json:"ok"`
	Error       string    `json:"error,omitempty"`
	LastAttempt time.Time `json:"last_attempt"`
}

// UpsertInput is the API payload for creating or replacing a source by name
type UpsertInput struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Kind    Kind   `json:"kind" validate:"required,oneof=feed page replay"`
	Config  Config `json:"config"`
	Enabled bool   `json:"enabled"`
}
