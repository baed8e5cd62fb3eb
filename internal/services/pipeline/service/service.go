// Package service implements the pipeline coordinator
package service

import (
	"context"
	"sync"
	"time"

	"fxradar/internal/core/dedup"
	"fxradar/internal/core/impact"
	perr "fxradar/internal/platform/errors"
	"fxradar/internal/platform/logger"
	alerts "fxradar/internal/services/alerts/domain"
	news "fxradar/internal/services/news/domain"
	"fxradar/internal/services/pipeline/domain"
	sources "fxradar/internal/services/sources/domain"

	"github.com/google/uuid"
)

const (
	defaultSeedLimit      = 500
	defaultFetchParallel  = 4
	defaultFetchTimeout   = 30 * time.Second
	defaultContentMaxRune = 20000
)

// Service runs ingestion cycles. Fetching is concurrent per source; the
// filter-through-publish stages run on the coordinating goroutine, which
// solely owns the cycle's dedup history
type Service struct {
	sources   sources.ReaderPort
	status    sources.StatusPort
	newsRead  news.ReaderPort
	newsWrite news.WriterPort
	evaluator alerts.EvaluatorPort
	publisher domain.PublisherPort
	fetchers  map[sources.Kind]domain.FetcherPort
	analyzer  *impact.Analyzer
	dedup     *dedup.Engine
	log       logger.Logger

	seedLimit     int
	fetchParallel int
	fetchTimeout  time.Duration
	now           func() time.Time
}

// Deps collects the coordinator's collaborators
type Deps struct {
	Sources   sources.ReaderPort
	Status    sources.StatusPort
	NewsRead  news.ReaderPort
	NewsWrite news.WriterPort
	Evaluator alerts.EvaluatorPort
	Publisher domain.PublisherPort
	Fetchers  map[sources.Kind]domain.FetcherPort
	Analyzer  *impact.Analyzer
	Dedup     *dedup.Engine
}

// Option customizes the coordinator
type Option func(*Service)

// WithSeedLimit bounds how much history primes dedup at cycle start
func WithSeedLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.seedLimit = n
		}
	}
}

// WithFetchParallel caps concurrent source fetches
func WithFetchParallel(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.fetchParallel = n
		}
	}
}

// WithFetchTimeout bounds a single source fetch
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.fetchTimeout = d
		}
	}
}

// WithClock overrides the time source, for tests
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New constructs the coordinator
func New(deps Deps, log logger.Logger, opts ...Option) *Service {
	s := &Service{
		sources:       deps.Sources,
		status:        deps.Status,
		newsRead:      deps.NewsRead,
		newsWrite:     deps.NewsWrite,
		evaluator:     deps.Evaluator,
		publisher:     deps.Publisher,
		fetchers:      deps.Fetchers,
		analyzer:      deps.Analyzer,
		dedup:         deps.Dedup,
		log:           log,
		seedLimit:     defaultSeedLimit,
		fetchParallel: defaultFetchParallel,
		fetchTimeout:  defaultFetchTimeout,
		now:           time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	if s.analyzer == nil {
		s.analyzer = impact.New()
	}
	if s.dedup == nil {
		s.dedup = dedup.New(dedup.DefaultSimilarityThreshold)
	}
	return s
}

type fetchResult struct {
	src   sources.Source
	items []domain.RawItem
	err   error
}

// RunCycle executes one full ingestion cycle. One source failing is recorded
// in its status and never aborts the others
func (s *Service) RunCycle(ctx context.Context) (domain.CycleReport, error) {
	started := s.now()
	report := domain.CycleReport{CycleID: uuid.NewString(), StartedAt: started}
	ctx = logger.WithCycle(ctx, report.CycleID, "")

	log := logger.C(ctx)
	log.Info().Msg("cycle started")

	srcs, err := s.sources.ListEnabled(ctx)
	if err != nil {
		return report, err
	}
	if len(srcs) == 0 {
		log.Info().Msg("no enabled sources")
		report.Elapsed = s.now().Sub(started)
		return report, nil
	}

	seed, err := s.newsRead.Seed(ctx, s.seedLimit)
	if err != nil {
		return report, err
	}
	history := dedup.NewHistory(seed.URLs, seed.Hashes, seed.Titles)

	results := s.fetchAll(ctx, srcs)
	for _, fr := range results {
		sr, alerts := s.processSource(ctx, fr, history)
		report.Sources = append(report.Sources, sr)
		report.Accepted += sr.Accepted
		report.Alerts += alerts
	}
	report.Elapsed = s.now().Sub(started)

	log.Info().
		Int("sources", len(report.Sources)).
		Int("accepted", report.Accepted).
		Dur("elapsed", report.Elapsed).
		Msg("cycle finished")
	return report, nil
}

// fetchAll fans fetches out behind a semaphore and returns results in the
// sources' declared order so downstream processing stays deterministic
func (s *Service) fetchAll(ctx context.Context, srcs []sources.Source) []fetchResult {
	results := make([]fetchResult, len(srcs))
	sem := make(chan struct{}, s.fetchParallel)
	var wg sync.WaitGroup
	for i, src := range srcs {
		wg.Add(1)
		go func(i int, src sources.Source) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = s.fetchOne(ctx, src)
		}(i, src)
	}
	wg.Wait()
	return results
}

func (s *Service) fetchOne(ctx context.Context, src sources.Source) fetchResult {
	ctx = logger.WithCycle(ctx, "", src.Name)
	fetcher, ok := s.fetchers[src.Kind]
	if !ok {
		err := perr.Validationf("no fetcher for source kind %q", src.Kind)
		logger.C(ctx).Warn().Err(err).Msg("source skipped")
		return fetchResult{src: src, err: err}
	}
	fctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	items, err := fetcher.Fetch(fctx, src)
	if err != nil {
		logger.C(ctx).Warn().Err(err).Msg("fetch failed")
	}
	return fetchResult{src: src, items: items, err: err}
}

// processSource walks one source's raw items through the serial stages.
// The dedup history is mutated here only, on the calling goroutine
func (s *Service) processSource(ctx context.Context, fr fetchResult, history *dedup.History) (domain.SourceReport, int) {
	ctx = logger.WithCycle(ctx, "", fr.src.Name)
	sr := domain.SourceReport{Source: fr.src.Name, Fetched: len(fr.items)}

	now := s.now()
	if fr.err != nil {
		sr.Error = fr.err.Error()
		s.status.Set(ctx, fr.src.Name, sources.Status{OK: false, Error: sr.Error, LastAttempt: now})
		return sr, 0
	}
	s.status.Set(ctx, fr.src.Name, sources.Status{OK: true, LastAttempt: now})

	var alerts int
	for _, raw := range fr.items {
		out, fired := s.processItem(ctx, fr.src, raw, history)
		alerts += fired
		switch out {
		case outcomeAccepted:
			sr.Accepted++
		case outcomeDuplicate:
			sr.Duplicate++
		case outcomeFailed:
			sr.Failed++
		}
	}
	return sr, alerts
}

type outcome int

const (
	outcomeAccepted outcome = iota
	outcomeDuplicate
	outcomeFailed
)

// processItem runs dedupe -> analyze -> persist -> alert -> publish for one
// raw item. A persistence failure stops the item's remaining stages; the
// item stays out of the history so a later cycle can retry it
func (s *Service) processItem(ctx context.Context, src sources.Source, raw domain.RawItem, history *dedup.History) (outcome, int) {
	content := truncateRunes(raw.Content, defaultContentMaxRune)

	res := s.dedup.Evaluate(raw.Title, content, raw.URL, history)
	if s.dedup.IsDuplicate(res, history) {
		logger.C(ctx).Debug().
			Str("url", res.CanonicalURL).
			Int("similarity", res.TitleSimilarity).
			Msg("duplicate dropped")
		return outcomeDuplicate, 0
	}

	analysis := s.analyzer.Analyze(raw.Title, raw.Summary, content)

	item := news.Item{
		SourceID:    src.ID,
		Source:      src.Name,
		URL:         res.CanonicalURL,
		Title:       raw.Title,
		Summary:     raw.Summary,
		Content:     content,
		PublishedAt: raw.PublishedAt,
		FetchedAt:   s.now().UTC(),
		Hash:        res.Hash,
		Language:    analysis.Scoring.Language,
	}
	rec, err := s.newsWrite.Create(ctx, item, analysis)
	if err != nil {
		logger.C(ctx).Error().Err(err).Str("url", item.URL).Msg("persist failed, item skipped")
		return outcomeFailed, 0
	}
	history.Add(res.CanonicalURL, res.Hash, raw.Title)

	events, err := s.evaluator.Evaluate(ctx, rec, analysis, s.now())
	if err != nil {
		logger.C(ctx).Error().Err(err).Str("id", rec.ID).Msg("alert evaluation failed")
	}
	if s.publisher != nil {
		s.publisher.Publish(rec)
	}
	return outcomeAccepted, len(events)
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
