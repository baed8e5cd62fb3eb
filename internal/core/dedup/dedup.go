// Package dedup decides whether a fetched news item is new, using canonical
// URL, content hash, and fuzzy title similarity against cycle history
package dedup

import (
	"github.com/agnivade/levenshtein"

	"fxradar/internal/core/canonical"
)

// DefaultSimilarityThreshold is the title similarity (0..100) at or above
// which a candidate is treated as a re-titled duplicate
const DefaultSimilarityThreshold = 92

// Result carries the dedup keys computed for one candidate item
type Result struct {
	CanonicalURL    string
	Hash            string
	TitleSimilarity int // max ratio against history titles, 0..100
}

// Engine evaluates candidates against a per-cycle History
type Engine struct {
	threshold int
}

// New returns an Engine with the given similarity threshold; values outside
// 0..100 fall back to the default
func New(threshold int) *Engine {
	if threshold <= 0 || threshold > 100 {
		threshold = DefaultSimilarityThreshold
	}
	return &Engine{threshold: threshold}
}

// Threshold returns the configured similarity threshold
func (e *Engine) Threshold() int { return e.threshold }

// Evaluate computes the candidate's canonical URL, content fingerprint, and
// its maximum title similarity over the history titles
func (e *Engine) Evaluate(title, content, rawURL string, h *History) Result {
	r := Result{
		CanonicalURL: canonical.URL(rawURL),
		Hash:         canonical.Fingerprint(title, content),
	}
	for _, other := range h.titles {
		if s := Similarity(title, other); s > r.TitleSimilarity {
			r.TitleSimilarity = s
		}
	}
	return r
}

// IsDuplicate reports whether the evaluated candidate repeats history.
// Checks short-circuit in order: seen canonical URL, seen content hash,
// title similarity at or above the threshold
func (e *Engine) IsDuplicate(r Result, h *History) bool {
	if h.SeenURL(r.CanonicalURL) {
		return true
	}
	if h.SeenHash(r.Hash) {
		return true
	}
	return r.TitleSimilarity >= e.threshold
}

// Similarity is a normalized edit-distance ratio between two strings, 0..100.
// Identical strings score 100; fully dissimilar strings score 0
func Similarity(a, b string) int {
	if a == b {
		return 100
	}
	la, lb := len([]rune(a)), len([]rune(b))
	max := la
	if lb > max {
		max = lb
	}
	if max == 0 {
		return 100
	}
	d := levenshtein.ComputeDistance(a, b)
	return (100 * (max - d)) / max
}
