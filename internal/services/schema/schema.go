// Package schema creates the database objects the services expect.
// Idempotent; runs at process start
package schema

import (
	"context"

	perr "fxradar/internal/platform/errors"
	"fxradar/internal/platform/store"
)

var statements = []string{
	`CREATE TABLE IF NOT EXISTS sources (
		id      BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		name    TEXT NOT NULL UNIQUE,
		kind    TEXT NOT NULL,
		config  JSONB NOT NULL DEFAULT '{}'::jsonb,
		enabled BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS news_items (
		id           UUID PRIMARY KEY,
		source_id    BIGINT NOT NULL REFERENCES sources(id),
		url          TEXT NOT NULL UNIQUE,
		title        TEXT NOT NULL,
		summary      TEXT NOT NULL DEFAULT '',
		content      TEXT NOT NULL DEFAULT '',
		published_at TIMESTAMPTZ,
		fetched_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		hash         TEXT NOT NULL,
		language     TEXT NOT NULL DEFAULT 'unknown'
	)`,
	`CREATE INDEX IF NOT EXISTS news_items_fetched_at_idx ON news_items (fetched_at DESC)`,
	`CREATE INDEX IF NOT EXISTS news_items_hash_idx ON news_items (hash)`,
	`CREATE TABLE IF NOT EXISTS analyses (
		news_item_id     UUID PRIMARY KEY REFERENCES news_items(id) ON DELETE CASCADE,
		impacted_symbols JSONB NOT NULL DEFAULT '[]'::jsonb,
		confidence       INT NOT NULL,
		result           JSONB NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS analyses_symbols_idx ON analyses USING GIN (impacted_symbols)`,
	`CREATE TABLE IF NOT EXISTS alert_rules (
		id         BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		name       TEXT NOT NULL,
		condition  JSONB NOT NULL DEFAULT '{}'::jsonb,
		enabled    BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS alert_events (
		id           UUID PRIMARY KEY,
		rule_id      BIGINT NOT NULL REFERENCES alert_rules(id) ON DELETE CASCADE,
		news_item_id UUID NOT NULL REFERENCES news_items(id) ON DELETE CASCADE,
		triggered_at TIMESTAMPTZ NOT NULL,
		payload      JSONB NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS alert_events_rule_time_idx ON alert_events (rule_id, triggered_at DESC)`,
}

// Ensure creates every table and index, in order
func Ensure(ctx context.Context, q store.RowQuerier) error {
	for _, stmt := range statements {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return perr.FromPostgres(err, "ensure schema")
		}
	}
	return nil
}
