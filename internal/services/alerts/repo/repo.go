// Package repo provides the alerts repository implementation
package repo

import (
	"context"
	"encoding/json"
	"time"

	perr "fxradar/internal/platform/errors"
	"fxradar/internal/platform/store"
	"fxradar/internal/services/alerts/domain"
)

type (
	pg     struct{ q store.RowQuerier }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() store.Binder[Storage] { return binder{} }

// Bind implements store.Binder
func (binder) Bind(q store.RowQuerier) Storage { return &pg{q: q} }

// Storage defines the alerts repository
type Storage interface {
	InsertRule(ctx context.Context, in domain.CreateInput, enabled bool) (domain.Rule, error)
	ListRules(ctx context.Context) ([]domain.Rule, error)
	ListEnabledRules(ctx context.Context) ([]domain.Rule, error)
	InsertEvent(ctx context.Context, ev domain.Event) error
	ListEvents(ctx context.Context, limit int) ([]domain.Event, error)
	LastFired(ctx context.Context) (map[int64]time.Time, error)
}

const ruleCols = `id, name, condition, enabled, created_at`

// InsertRule implements Storage
func (s *pg) InsertRule(ctx context.Context, in domain.CreateInput, enabled bool) (domain.Rule, error) {
	cond, err := json.Marshal(in.Condition)
	if err != nil {
		return domain.Rule{}, perr.Wrap(err, perr.ErrorCodeJSON, "marshal rule condition")
	}
	row := s.q.QueryRow(ctx, `
		INSERT INTO alert_rules (name, condition, enabled)
		VALUES ($1, $2, $3)
		RETURNING `+ruleCols,
		in.Name, cond, enabled,
	)
	r, err := scanRule(row)
	if err != nil {
		return domain.Rule{}, perr.FromPostgres(err, "insert alert rule")
	}
	return r, nil
}

// ListRules implements Storage
func (s *pg) ListRules(ctx context.Context) ([]domain.Rule, error) {
	return s.listRules(ctx, `SELECT `+ruleCols+` FROM alert_rules ORDER BY id`)
}

// ListEnabledRules implements Storage
func (s *pg) ListEnabledRules(ctx context.Context) ([]domain.Rule, error) {
	return s.listRules(ctx, `SELECT `+ruleCols+` FROM alert_rules WHERE enabled ORDER BY id`)
}

func (s *pg) listRules(ctx context.Context, sql string) ([]domain.Rule, error) {
	rows, err := s.q.Query(ctx, sql)
	if err != nil {
		return nil, perr.FromPostgres(err, "list alert rules")
	}
	defer rows.Close()

	var out []domain.Rule
	for rows.Next() {
		r, err := scanRule(rows)
		if err != nil {
			return nil, perr.FromPostgres(err, "list alert rules")
		}
		out = append(out, r)
	}
	return out, perr.FromPostgres(rows.Err(), "list alert rules")
}

// InsertEvent implements Storage
func (s *pg) InsertEvent(ctx context.Context, ev domain.Event) error {
	payload, err := json.Marshal(ev.Payload)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "marshal event payload")
	}
	_, err = s.q.Exec(ctx, `
		INSERT INTO alert_events (id, rule_id, news_item_id, triggered_at, payload)
		VALUES ($1, $2, $3, $4, $5)`,
		ev.ID, ev.RuleID, ev.NewsItemID, ev.TriggeredAt, payload,
	)
	return perr.FromPostgres(err, "insert alert event")
}

// ListEvents implements Storage; newest first
func (s *pg) ListEvents(ctx context.Context, limit int) ([]domain.Event, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.q.Query(ctx, `
		SELECT e.id, e.rule_id, r.name, e.news_item_id, e.triggered_at, e.payload
		FROM alert_events e
		JOIN alert_rules r ON r.id = e.rule_id
		ORDER BY e.triggered_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "list alert events")
	}
	defer rows.Close()

	var out []domain.Event
	for rows.Next() {
		var (
			ev      domain.Event
			payload []byte
		)
		err := rows.Scan(&ev.ID, &ev.RuleID, &ev.RuleName, &ev.NewsItemID, &ev.TriggeredAt, &payload)
		if err != nil {
			return nil, perr.FromPostgres(err, "list alert events")
		}
		if err := json.Unmarshal(payload, &ev.Payload); err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeJSON, "unmarshal event payload")
		}
		out = append(out, ev)
	}
	return out, perr.FromPostgres(rows.Err(), "list alert events")
}

// LastFired implements Storage; the most recent event time per rule,
// read at cycle start to seed debounce state
func (s *pg) LastFired(ctx context.Context) (map[int64]time.Time, error) {
	rows, err := s.q.Query(ctx, `
		SELECT rule_id, MAX(triggered_at) FROM alert_events GROUP BY rule_id`)
	if err != nil {
		return nil, perr.FromPostgres(err, "load last fired times")
	}
	defer rows.Close()

	out := make(map[int64]time.Time)
	for rows.Next() {
		var (
			id int64
			at time.Time
		)
		if err := rows.Scan(&id, &at); err != nil {
			return nil, perr.FromPostgres(err, "load last fired times")
		}
		out[id] = at
	}
	return out, perr.FromPostgres(rows.Err(), "load last fired times")
}

type scanner interface{ Scan(dest ...any) error }

func scanRule(row scanner) (domain.Rule, error) {
	var (
		r    domain.Rule
		cond []byte
	)
	if err := row.Scan(&r.ID, &r.Name, &cond, &r.Enabled, &r.CreatedAt); err != nil {
		return domain.Rule{}, err
	}
	if len(cond) > 0 {
		if err := json.Unmarshal(cond, &r.Condition); err != nil {
			return domain.Rule{}, perr.Wrap(err, perr.ErrorCodeJSON, "unmarshal rule condition")
		}
	}
	return r, nil
}
