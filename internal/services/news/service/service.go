// Package service implements the news service
package service

import (
	"context"

	"fxradar/internal/core/impact"
	perr "fxradar/internal/platform/errors"
	"fxradar/internal/platform/logger"
	"fxradar/internal/platform/store"
	"fxradar/internal/services/news/domain"
	"fxradar/internal/services/news/repo"

	"github.com/google/uuid"
)

// Service implements domain.ReaderPort and domain.WriterPort
type Service struct {
	db      store.TxRunner
	storage store.Binder[repo.Storage]
	log     logger.Logger
}

// New constructs the news service
func New(db store.TxRunner, log logger.Logger) *Service {
	return &Service{db: db, storage: repo.NewPG(), log: log}
}

// List implements domain.ReaderPort
func (s *Service) List(ctx context.Context, f domain.Filter) ([]domain.Record, error) {
	if f.Limit > 500 {
		f.Limit = 500
	}
	return store.MustBind(s.storage, s.db).List(ctx, f)
}

// Get implements domain.ReaderPort
func (s *Service) Get(ctx context.Context, id string) (domain.Record, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Record{}, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "invalid news id")
	}
	return store.MustBind(s.storage, s.db).Get(ctx, id)
}

// Seed implements domain.ReaderPort
func (s *Service) Seed(ctx context.Context, limit int) (domain.DedupSeed, error) {
	return store.MustBind(s.storage, s.db).Seed(ctx, limit)
}

// Create implements domain.WriterPort; assigns the item id and stores the
// item together with its analysis in a single transaction
func (s *Service) Create(ctx context.Context, item domain.Item, analysis impact.Result) (domain.Record, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	var rec domain.Record
	err := s.db.Tx(ctx, func(q store.RowQuerier) error {
		var err error
		rec, err = store.MustBind(s.storage, q).Insert(ctx, item, analysis)
		return err
	})
	if err != nil {
		return domain.Record{}, err
	}
	logger.C(ctx).Debug().Str("id", rec.ID).Str("url", rec.URL).Msg("stored news item")
	return rec, nil
}
