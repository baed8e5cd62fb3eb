// Package service implements the sources service
package service

import (
	"context"

	perr "fxradar/internal/platform/errors"
	"fxradar/internal/platform/logger"
	"fxradar/internal/platform/store"
	"fxradar/internal/services/sources/domain"
	"fxradar/internal/services/sources/repo"

	"github.com/go-playground/validator/v10"
)

// Service implements domain.ReaderPort and domain.WriterPort
type Service struct {
	db       store.RowQuerier
	storage  store.Binder[repo.Storage]
	validate *validator.Validate
	log      logger.Logger
}

// New constructs the sources service
func New(db store.RowQuerier, log logger.Logger) *Service {
	return &Service{
		db:       db,
		storage:  repo.NewPG(),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log,
	}
}

// List implements domain.ReaderPort
func (s *Service) List(ctx context.Context) ([]domain.Source, error) {
	return store.MustBind(s.storage, s.db).List(ctx)
}

// ListEnabled implements domain.ReaderPort
func (s *Service) ListEnabled(ctx context.Context) ([]domain.Source, error) {
	return store.MustBind(s.storage, s.db).ListEnabled(ctx)
}

// Upsert implements domain.WriterPort; malformed configs are rejected, never stored
func (s *Service) Upsert(ctx context.Context, in domain.UpsertInput) (domain.Source, error) {
	if err := s.validate.Struct(in); err != nil {
		return domain.Source{}, perr.Wrap(err, perr.ErrorCodeValidation, "invalid source")
	}
	if in.Kind != domain.KindReplay && in.Config.URL == "" {
		return domain.Source{}, perr.WithField(
			perr.Validationf("%s sources require a url", in.Kind), "config.url")
	}
	return store.MustBind(s.storage, s.db).Upsert(ctx, in)
}

// EnsureDefaults implements domain.WriterPort; a fresh database gets the
// stock macro feeds plus the demo replay source
func (s *Service) EnsureDefaults(ctx context.Context) error {
	st := store.MustBind(s.storage, s.db)
	n, err := st.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	defaults := []domain.UpsertInput{
		{
			Name:    "Reuters FX RSS",
			Kind:    domain.KindFeed,
			Config:  domain.Config{URL: "https://feeds.reuters.com/reuters/businessNews"},
			Enabled: true,
		},
		{
			Name:    "Federal Reserve RSS",
			Kind:    domain.KindFeed,
			Config:  domain.Config{URL: "https://www.federalreserve.gov/feeds/press_all.xml"},
			Enabled: true,
		},
		{
			Name:    "ECB RSS",
			Kind:    domain.KindFeed,
			Config:  domain.Config{URL: "https://www.ecb.europa.eu/rss/press.html"},
			Enabled: true,
		},
		{
			Name:    "Demo Replay",
			Kind:    domain.KindReplay,
			Enabled: true,
		},
	}
	for _, d := range defaults {
		if _, err := st.Upsert(ctx, d); err != nil {
			return err
		}
	}
	s.log.Info().Int("count", len(defaults)).Msg("seeded default sources")
	return nil
}
