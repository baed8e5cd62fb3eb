// Package repo provides the news repository implementation
package repo

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"fxradar/internal/core/impact"
	perr "fxradar/internal/platform/errors"
	"fxradar/internal/platform/store"
	"fxradar/internal/services/news/domain"
)

type (
	pg     struct{ q store.RowQuerier }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() store.Binder[Storage] { return binder{} }

// Bind implements store.Binder
func (binder) Bind(q store.RowQuerier) Storage { return &pg{q: q} }

// Storage defines the news repository
type Storage interface {
	Insert(ctx context.Context, item domain.Item, analysis impact.Result) (domain.Record, error)
	List(ctx context.Context, f domain.Filter) ([]domain.Record, error)
	Get(ctx context.Context, id string) (domain.Record, error)
	Seed(ctx context.Context, limit int) (domain.DedupSeed, error)
}

const selectCols = `
	n.id, s.name, n.url, n.title, n.summary, n.content,
	n.published_at, n.fetched_at, n.hash, n.language, a.result`

const fromJoin = `
	FROM news_items n
	JOIN sources s ON s.id = n.source_id
	JOIN analyses a ON a.news_item_id = n.id`

// Insert implements Storage; the item row and its analysis row land in the
// same transaction so readers never observe an item without analysis
func (s *pg) Insert(ctx context.Context, item domain.Item, analysis impact.Result) (domain.Record, error) {
	payload, err := json.Marshal(analysis)
	if err != nil {
		return domain.Record{}, perr.Wrap(err, perr.ErrorCodeJSON, "marshal analysis")
	}
	symbols, err := json.Marshal(analysis.ImpactedSymbols)
	if err != nil {
		return domain.Record{}, perr.Wrap(err, perr.ErrorCodeJSON, "marshal impacted symbols")
	}

	err = s.q.QueryRow(ctx, `
		INSERT INTO news_items (id, source_id, url, title, summary, content,
			published_at, fetched_at, hash, language)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING fetched_at`,
		item.ID, item.SourceID, item.URL, item.Title, item.Summary, item.Content,
		item.PublishedAt, item.FetchedAt, item.Hash, item.Language,
	).Scan(&item.FetchedAt)
	if err != nil {
		return domain.Record{}, perr.FromPostgres(err, "insert news item")
	}

	_, err = s.q.Exec(ctx, `
		INSERT INTO analyses (news_item_id, impacted_symbols, confidence, result)
		VALUES ($1, $2, $3, $4)`,
		item.ID, symbols, analysis.Confidence, payload,
	)
	if err != nil {
		return domain.Record{}, perr.FromPostgres(err, "insert analysis")
	}
	return domain.Record{Item: item, Analysis: analysis}, nil
}

// List implements Storage
func (s *pg) List(ctx context.Context, f domain.Filter) ([]domain.Record, error) {
	sql := `SELECT ` + selectCols + fromJoin + ` WHERE 1=1`
	args := make([]any, 0, 4)
	if f.Symbol != "" {
		args = append(args, f.Symbol)
		sql += ` AND a.impacted_symbols ? $` + itoa(len(args))
	}
	if f.Source != "" {
		args = append(args, f.Source)
		sql += ` AND s.name = $` + itoa(len(args))
	}
	if f.MinConfidence > 0 {
		args = append(args, f.MinConfidence)
		sql += ` AND a.confidence >= $` + itoa(len(args))
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)
	sql += ` ORDER BY n.fetched_at DESC LIMIT $` + itoa(len(args))

	rows, err := s.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, perr.FromPostgres(err, "list news")
	}
	defer rows.Close()

	var out []domain.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, perr.FromPostgres(rows.Err(), "list news")
}

// Get implements Storage
func (s *pg) Get(ctx context.Context, id string) (domain.Record, error) {
	row := s.q.QueryRow(ctx, `SELECT `+selectCols+fromJoin+` WHERE n.id = $1`, id)
	rec, err := scanRecord(row)
	if err != nil {
		return domain.Record{}, perr.FromPostgres(err, "get news item")
	}
	return rec, nil
}

// Seed implements Storage; returns the most recent items' identity columns
// for priming the dedup history at cycle start
func (s *pg) Seed(ctx context.Context, limit int) (domain.DedupSeed, error) {
	if limit <= 0 {
		limit = 500
	}
	rows, err := s.q.Query(ctx, `
		SELECT url, hash, title FROM news_items
		ORDER BY fetched_at DESC LIMIT $1`, limit)
	if err != nil {
		return domain.DedupSeed{}, perr.FromPostgres(err, "seed dedup history")
	}
	defer rows.Close()

	var seed domain.DedupSeed
	for rows.Next() {
		var url, hash, title string
		if err := rows.Scan(&url, &hash, &title); err != nil {
			return domain.DedupSeed{}, perr.FromPostgres(err, "seed dedup history")
		}
		seed.URLs = append(seed.URLs, url)
		seed.Hashes = append(seed.Hashes, hash)
		seed.Titles = append(seed.Titles, title)
	}
	return seed, perr.FromPostgres(rows.Err(), "seed dedup history")
}

type scanner interface{ Scan(dest ...any) error }

func scanRecord(row scanner) (domain.Record, error) {
	var (
		rec     domain.Record
		pub     *time.Time
		payload []byte
	)
	err := row.Scan(&rec.ID, &rec.Source, &rec.URL, &rec.Title, &rec.Summary, &rec.Content,
		&pub, &rec.FetchedAt, &rec.Hash, &rec.Language, &payload)
	if err != nil {
		return domain.Record{}, err
	}
	rec.PublishedAt = pub
	if err := json.Unmarshal(payload, &rec.Analysis); err != nil {
		return domain.Record{}, perr.Wrap(err, perr.ErrorCodeJSON, "unmarshal analysis")
	}
	return rec, nil
}

func itoa(n int) string { return strconv.Itoa(n) }
