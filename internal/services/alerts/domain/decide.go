package domain

import (
	"time"

	"fxradar/internal/core/impact"
)

// Decide returns the subset of rules that should fire for the analysis at
// the given instant. lastFired holds the most recent prior event time per
// rule id; a rule whose last event is less than debounce ago is suppressed.
// Each rule is decided independently
func Decide(rules []Rule, lastFired map[int64]time.Time, res impact.Result, now time.Time, debounce time.Duration) []Rule {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	var fired []Rule
	for _, r := range rules {
		if !r.Enabled || !r.Condition.Matches(res) {
			continue
		}
		if last, ok := lastFired[r.ID]; ok && now.Sub(last) < debounce {
			continue
		}
		fired = append(fired, r)
	}
	return fired
}
