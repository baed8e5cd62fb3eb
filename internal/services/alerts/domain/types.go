// Package domain defines the core types and ports for the alerts service
package domain

import (
	"time"

	"fxradar/internal/core/impact"
	news "fxradar/internal/services/news/domain"
)

// DefaultDebounce is the minimum gap between consecutive events of one rule
const DefaultDebounce = 600 * time.Second

// Condition gates a rule; nil fields match anything
type Condition struct {
	Symbol        *string           `json:"symbol,omitempty"`
	MinConfidence *int              `json:"min_confidence,omitempty" validate:"omitempty,gte=0,lte=100"`
	Direction     *impact.Direction `json:"direction,omitempty"`
}

// Matches reports whether the analysis satisfies every set field;
// unset fields are vacuously satisfied
func (c Condition) Matches(res impact.Result) bool {
	if c.Symbol != nil {
		found := false
		for _, s := range res.ImpactedSymbols {
			if s == *c.Symbol {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if c.MinConfidence != nil && res.Confidence < *c.MinConfidence {
		return false
	}
	if c.Direction != nil && res.Direction != *c.Direction {
		return false
	}
	return true
}

// Rule is a persisted alert rule
type Rule struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Condition Condition `json:"condition"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateInput is the write shape for new rules
type CreateInput struct {
	Name      string    `json:"name" validate:"required,max=200"`
	Condition Condition `json:"condition"`
	Enabled   *bool     `json:"enabled,omitempty"`
}

// Event records one rule firing against one news item
type Event struct {
	ID          string        `json:"id"`
	RuleID      int64         `json:"rule_id"`
	RuleName    string        `json:"rule_name"`
	NewsItemID  string        `json:"news_item_id"`
	TriggeredAt time.Time     `json:"triggered_at"`
	Payload     news.Record   `json:"payload"`
}
