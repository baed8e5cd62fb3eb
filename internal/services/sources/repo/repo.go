// Package repo provides the sources repository implementation
package repo

import (
	"context"
	"encoding/json"

	perr "fxradar/internal/platform/errors"
	"fxradar/internal/platform/store"
	"fxradar/internal/services/sources/domain"
)

type (
	pg     struct{ q store.RowQuerier }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() store.Binder[Storage] { return binder{} }

// Bind implements store.Binder
func (binder) Bind(q store.RowQuerier) Storage { return &pg{q: q} }

// Storage defines the sources repository
type Storage interface {
	List(ctx context.Context) ([]domain.Source, error)
	ListEnabled(ctx context.Context) ([]domain.Source, error)
	Upsert(ctx context.Context, in domain.UpsertInput) (domain.Source, error)
	Count(ctx context.Context) (int, error)
}

const selectCols = `id, name, kind, config, enabled`

// List implements Storage
func (s *pg) List(ctx context.Context) ([]domain.Source, error) {
	return s.list(ctx, `SELECT `+selectCols+` FROM sources ORDER BY id`)
}

// ListEnabled implements Storage
func (s *pg) ListEnabled(ctx context.Context) ([]domain.Source, error) {
	return s.list(ctx, `SELECT `+selectCols+` FROM sources WHERE enabled ORDER BY id`)
}

func (s *pg) list(ctx context.Context, sql string) ([]domain.Source, error) {
	rows, err := s.q.Query(ctx, sql)
	if err != nil {
		return nil, perr.FromPostgres(err, "list sources")
	}
	defer rows.Close()

	var out []domain.Source
	for rows.Next() {
		src, err := scanSource(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, src)
	}
	return out, perr.FromPostgres(rows.Err(), "list sources")
}

// Upsert implements Storage; sources are keyed by name
func (s *pg) Upsert(ctx context.Context, in domain.UpsertInput) (domain.Source, error) {
	cfg, err := json.Marshal(in.Config)
	if err != nil {
		return domain.Source{}, perr.Wrap(err, perr.ErrorCodeJSON, "marshal source config")
	}
	row := s.q.QueryRow(ctx, `
		INSERT INTO sources (name, kind, config, enabled)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO UPDATE
		SET kind = EXCLUDED.kind, config = EXCLUDED.config, enabled = EXCLUDED.enabled
		RETURNING `+selectCols,
		in.Name, string(in.Kind), cfg, in.Enabled,
	)
	src, err := scanSource(row)
	if err != nil {
		return domain.Source{}, perr.FromPostgres(err, "upsert source")
	}
	return src, nil
}

// Count implements Storage
func (s *pg) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.q.QueryRow(ctx, `SELECT COUNT(*) FROM sources`).Scan(&n); err != nil {
		return 0, perr.FromPostgres(err, "count sources")
	}
	return n, nil
}

type scanner interface{ Scan(dest ...any) error }

func scanSource(row scanner) (domain.Source, error) {
	var (
		src  domain.Source
		kind string
		cfg  []byte
	)
	if err := row.Scan(&src.ID, &src.Name, &kind, &cfg, &src.Enabled); err != nil {
		return domain.Source{}, err
	}
	src.Kind = domain.Kind(kind)
	if len(cfg) > 0 {
		if err := json.Unmarshal(cfg, &src.Config); err != nil {
			return domain.Source{}, perr.Wrap(err, perr.ErrorCodeJSON, "unmarshal source config")
		}
	}
	return src, nil
}
