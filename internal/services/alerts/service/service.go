// Package service implements the alerts service
package service

import (
	"context"
	"sync"
	"time"

	"fxradar/internal/core/impact"
	perr "fxradar/internal/platform/errors"
	"fxradar/internal/platform/logger"
	"fxradar/internal/platform/store"
	"fxradar/internal/services/alerts/domain"
	"fxradar/internal/services/alerts/repo"
	news "fxradar/internal/services/news/domain"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Service implements the alert ports. Debounce state is held in memory and
// seeded from the event log, so a restart cannot shorten a cool-down window
type Service struct {
	db       store.RowQuerier
	storage  store.Binder[repo.Storage]
	validate *validator.Validate
	log      logger.Logger
	notifier domain.NotifierPort
	debounce time.Duration

	mu        sync.Mutex
	lastFired map[int64]time.Time
	seeded    bool
}

// Option customizes the service
type Option func(*Service)

// WithNotifier attaches an outbound notification channel
func WithNotifier(n domain.NotifierPort) Option {
	return func(s *Service) { s.notifier = n }
}

// WithDebounce overrides the default cool-down window
func WithDebounce(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.debounce = d
		}
	}
}

// New constructs the alerts service
func New(db store.RowQuerier, log logger.Logger, opts ...Option) *Service {
	s := &Service{
		db:        db,
		storage:   repo.NewPG(),
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		log:       log,
		debounce:  domain.DefaultDebounce,
		lastFired: make(map[int64]time.Time),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// CreateRule implements domain.WriterPort; rules default to enabled
func (s *Service) CreateRule(ctx context.Context, in domain.CreateInput) (domain.Rule, error) {
	if err := s.validate.Struct(in); err != nil {
		return domain.Rule{}, perr.Wrap(err, perr.ErrorCodeValidation, "invalid alert rule")
	}
	if d := in.Condition.Direction; d != nil && !d.Valid() {
		return domain.Rule{}, perr.WithField(
			perr.Validationf("unknown direction %q", *d), "condition.direction")
	}
	enabled := true
	if in.Enabled != nil {
		enabled = *in.Enabled
	}
	return store.MustBind(s.storage, s.db).InsertRule(ctx, in, enabled)
}

// ListRules implements domain.ReaderPort
func (s *Service) ListRules(ctx context.Context) ([]domain.Rule, error) {
	return store.MustBind(s.storage, s.db).ListRules(ctx)
}

// ListEvents implements domain.ReaderPort
func (s *Service) ListEvents(ctx context.Context, limit int) ([]domain.Event, error) {
	return store.MustBind(s.storage, s.db).ListEvents(ctx, limit)
}

// Evaluate implements domain.EvaluatorPort. At most one event per rule per
// call; a rule whose previous event is inside the cool-down window stays
// quiet. Fired events are persisted before the debounce clock advances, so
// an unpersisted event never suppresses a later one
func (s *Service) Evaluate(ctx context.Context, rec news.Record, analysis impact.Result, now time.Time) ([]domain.Event, error) {
	st := store.MustBind(s.storage, s.db)

	rules, err := st.ListEnabledRules(ctx)
	if err != nil {
		return nil, err
	}
	if len(rules) == 0 {
		return nil, nil
	}
	if err := s.seed(ctx, st); err != nil {
		return nil, err
	}

	s.mu.Lock()
	fired := domain.Decide(rules, s.lastFired, analysis, now, s.debounce)
	s.mu.Unlock()

	var out []domain.Event
	for _, r := range fired {
		ev := domain.Event{
			ID:          uuid.NewString(),
			RuleID:      r.ID,
			RuleName:    r.Name,
			NewsItemID:  rec.ID,
			TriggeredAt: now,
			Payload:     rec,
		}
		if err := st.InsertEvent(ctx, ev); err != nil {
			logger.C(ctx).Error().Err(err).Int64("rule_id", r.ID).Msg("persist alert event failed")
			continue
		}
		s.mu.Lock()
		s.lastFired[r.ID] = now
		s.mu.Unlock()
		out = append(out, ev)

		if s.notifier != nil {
			if err := s.notifier.Notify(ctx, ev); err != nil {
				logger.C(ctx).Warn().Err(err).Int64("rule_id", r.ID).Msg("alert notification failed")
			}
		}
		logger.C(ctx).Info().
			Int64("rule_id", r.ID).
			Str("rule", r.Name).
			Str("news_item_id", rec.ID).
			Msg("alert fired")
	}
	return out, nil
}

func (s *Service) seed(ctx context.Context, st repo.Storage) error {
	s.mu.Lock()
	done := s.seeded
	s.mu.Unlock()
	if done {
		return nil
	}
	last, err := st.LastFired(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	for id, at := range last {
		// in-memory state may already be newer than the log
		if cur, ok := s.lastFired[id]; !ok || at.After(cur) {
			s.lastFired[id] = at
		}
	}
	s.seeded = true
	s.mu.Unlock()
	return nil
}
