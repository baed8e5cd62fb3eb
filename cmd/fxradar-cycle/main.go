// fxradar-cycle runs a single pipeline cycle and prints the report.
// Useful for operations, cron jobs, and debugging a misbehaving source
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"fxradar/internal/platform/config"
	"fxradar/internal/platform/logger"
	"fxradar/internal/platform/store"

	"fxradar/internal/adapters/ingest/feed"
	"fxradar/internal/adapters/ingest/page"
	"fxradar/internal/adapters/ingest/replay"

	"fxradar/internal/core/dedup"
	"fxradar/internal/core/impact"

	alertsdomain "fxradar/internal/services/alerts/domain"
	alertsvc "fxradar/internal/services/alerts/service"
	news "fxradar/internal/services/news/domain"
	newssvc "fxradar/internal/services/news/service"
	pipedomain "fxradar/internal/services/pipeline/domain"
	pipesvc "fxradar/internal/services/pipeline/service"
	"fxradar/internal/services/schema"
	sourcesdomain "fxradar/internal/services/sources/domain"
	sourcesvc "fxradar/internal/services/sources/service"
)

// onlySource narrows the enabled set to a single named source
type onlySource struct {
	inner sourcesdomain.ReaderPort
	name  string
}

func (o onlySource) List(ctx context.Context) ([]sourcesdomain.Source, error) {
	return o.inner.List(ctx)
}

func (o onlySource) ListEnabled(ctx context.Context) ([]sourcesdomain.Source, error) {
	srcs, err := o.inner.ListEnabled(ctx)
	if err != nil {
		return nil, err
	}
	out := srcs[:0]
	for _, s := range srcs {
		if s.Name == o.name {
			out = append(out, s)
		}
	}
	return out, nil
}

// dryWriter satisfies the news writer without touching the store
type dryWriter struct{}

func (dryWriter) Create(_ context.Context, item news.Item, analysis impact.Result) (news.Record, error) {
	item.ID = "dry-run"
	return news.Record{Item: item, Analysis: analysis}, nil
}

// dryEvaluator skips alert persistence in dry runs
type dryEvaluator struct{}

func (dryEvaluator) Evaluate(context.Context, news.Record, impact.Result, time.Time) ([]alertsdomain.Event, error) {
	return nil, nil
}

func main() {
	var (
		sourceName = flag.String("source", "", "run only the named source")
		dryRun     = flag.Bool("dry-run", false, "fetch, dedupe and score but write nothing")
	)
	flag.Parse()

	root := config.New()
	pgCfg := root.Prefix("FXRADAR_PGSQL_")
	pipeCfg := root.Prefix("FXRADAR_PIPELINE_")

	logger.Init(logger.FromEnv())
	l := logger.Get()

	ctx := context.Background()
	st, err := store.Open(ctx, store.Config{
		AppName: "fxradar-cycle",
		PG: store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	if err := schema.Ensure(ctx, st.PG); err != nil {
		l.Panic().Err(err).Msg("schema bootstrap failed")
	}

	srcSvc := sourcesvc.New(st.PG, *logger.Named("sources"))
	newsSvc := newssvc.New(st.PG, *logger.Named("news"))

	var reader sourcesdomain.ReaderPort = srcSvc
	if *sourceName != "" {
		reader = onlySource{inner: srcSvc, name: *sourceName}
	}

	deps := pipesvc.Deps{
		Sources:   reader,
		Status:    sourcesvc.NewStatusTracker(nil, *logger.Named("status")),
		NewsRead:  newsSvc,
		NewsWrite: newsSvc,
		Evaluator: alertsvc.New(st.PG, *logger.Named("alerts"),
			alertsvc.WithDebounce(pipeCfg.MayDuration("ALERT_DEBOUNCE", 600*time.Second))),
		Fetchers: map[sourcesdomain.Kind]pipedomain.FetcherPort{
			sourcesdomain.KindFeed:   feed.New(*logger.Named("feed"), nil),
			sourcesdomain.KindPage:   page.New(*logger.Named("page"), nil),
			sourcesdomain.KindReplay: replay.New(pipeCfg.MayString("FIXTURE_DIR", "fixtures"), *logger.Named("replay")),
		},
		Analyzer: impact.New(),
		Dedup:    dedup.New(pipeCfg.MayInt("SIMILARITY_THRESHOLD", dedup.DefaultSimilarityThreshold)),
	}
	if *dryRun {
		deps.NewsWrite = dryWriter{}
		deps.Evaluator = dryEvaluator{}
	}

	coordinator := pipesvc.New(deps, *logger.Named("pipeline"),
		pipesvc.WithSeedLimit(pipeCfg.MayInt("SEED_LIMIT", 500)))

	report, err := coordinator.RunCycle(ctx)
	if err != nil {
		l.Panic().Err(err).Msg("cycle failed")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(report)
}
