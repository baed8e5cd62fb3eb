package store

import (
	"context"
	"errors"
	"time"

	"fxradar/internal/platform/logger"
	"fxradar/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgAdapter wraps pg.PG and implements RowQuerier + TxRunner
// queries slower than slowMs are logged at warn level
type pgAdapter struct {
	p      *pg.PG
	log    logger.Logger
	slowMs int
}

func newPGAdapter(p *pg.PG, log logger.Logger, slowMs int) *pgAdapter {
	return &pgAdapter{p: p, log: log, slowMs: slowMs}
}

func (a *pgAdapter) Ping(ctx context.Context) error {
	if a == nil {
		return errors.New("pg: nil adapter")
	}
	var one int
	return a.QueryRow(ctx, "SELECT 1").Scan(&one)
}

func (a *pgAdapter) Close() error { a.p.Close(); return nil }

func (a *pgAdapter) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	start := time.Now()
	ct, err := a.p.Pool.Exec(ctx, sql, args...)
	a.observe(sql, start, err)
	return tag{ct}, err
}

func (a *pgAdapter) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	start := time.Now()
	rs, err := a.p.Pool.Query(ctx, sql, args...)
	a.observe(sql, start, err)
	if err != nil {
		return nil, err
	}
	return rows{r: rs}, nil
}

func (a *pgAdapter) QueryRow(ctx context.Context, sql string, args ...any) Row {
	start := time.Now()
	r := a.p.Pool.QueryRow(ctx, sql, args...)
	return row{
		r: r,
		after: func(scanErr error) {
			a.observe(sql, start, scanErr)
		},
	}
}

func (a *pgAdapter) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	tx, err := a.p.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	q := txQuerier{tx: tx}
	if err := fn(q); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

// observe logs slow or failed statements
func (a *pgAdapter) observe(sql string, start time.Time, err error) {
	elapsed := time.Since(start)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		a.log.Error().Err(err).Dur("elapsed", elapsed).Str("sql", sql).Msg("pg query failed")
		return
	}
	if a.slowMs > 0 && elapsed >= time.Duration(a.slowMs)*time.Millisecond {
		a.log.Warn().Dur("elapsed", elapsed).Str("sql", sql).Msg("pg slow query")
	}
}

// txQuerier adapts a pgx.Tx to RowQuerier
type txQuerier struct{ tx pgx.Tx }

func (q txQuerier) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	ct, err := q.tx.Exec(ctx, sql, args...)
	return tag{ct}, err
}

func (q txQuerier) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	rs, err := q.tx.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return rows{r: rs}, nil
}

func (q txQuerier) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return row{r: q.tx.QueryRow(ctx, sql, args...)}
}

// thin wrappers over pgx result types

type tag struct{ ct pgconn.CommandTag }

func (t tag) String() string      { return t.ct.String() }
func (t tag) RowsAffected() int64 { return t.ct.RowsAffected() }

type rows struct{ r pgx.Rows }

func (w rows) Next() bool             { return w.r.Next() }
func (w rows) Scan(dest ...any) error { return w.r.Scan(dest...) }
func (w rows) Err() error             { return w.r.Err() }
func (w rows) Close()                 { w.r.Close() }

type row struct {
	r     pgx.Row
	after func(error)
}

func (w row) Scan(dest ...any) error {
	err := w.r.Scan(dest...)
	if w.after != nil {
		w.after(err)
	}
	return err
}
