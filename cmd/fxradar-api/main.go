package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"fxradar/internal/platform/config"
	"fxradar/internal/platform/logger"
	phttp "fxradar/internal/platform/net/http"
	"fxradar/internal/platform/net/middleware"
	"fxradar/internal/platform/store"

	annotate "fxradar/internal/adapters/annotate/openai"
	rediscache "fxradar/internal/adapters/cache/redis"
	"fxradar/internal/adapters/ingest/feed"
	"fxradar/internal/adapters/ingest/page"
	"fxradar/internal/adapters/ingest/replay"
	"fxradar/internal/adapters/notify/telegram"

	"fxradar/internal/core/dedup"
	"fxradar/internal/core/impact"

	alertsvc "fxradar/internal/services/alerts/service"
	"fxradar/internal/services/api"
	newssvc "fxradar/internal/services/news/service"
	pipedomain "fxradar/internal/services/pipeline/domain"
	pipesvc "fxradar/internal/services/pipeline/service"
	"fxradar/internal/services/schema"
	sourcesdomain "fxradar/internal/services/sources/domain"
	sourcesvc "fxradar/internal/services/sources/service"
	"fxradar/internal/services/stream"

	"github.com/go-chi/chi/v5"
)

func main() {
	root := config.New()
	apiCfg := root.Prefix("FXRADAR_API_")
	pgCfg := root.Prefix("FXRADAR_PGSQL_")
	pipeCfg := root.Prefix("FXRADAR_PIPELINE_")

	logger.Init(logger.FromEnv())
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(
		ctx,
		store.Config{
			AppName: "fxradar-api",
			PG: store.PGConfig{
				Enabled:     true,
				URL:         pgCfg.MustString("DBURL"),
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 8)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			},
		},
		store.WithLogger(*l),
	)
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

	// services
	srcSvc := sourcesvc.New(st.PG, *logger.Named("sources"))
	newsSvc := newssvc.New(st.PG, *logger.Named("news"))

	var statusCache sourcesdomain.StatusCachePort
	redisCfg := root.Prefix("FXRADAR_REDIS_")
	if addr := redisCfg.MayString("ADDR", ""); addr != "" {
		cache := rediscache.New(
			addr,
			redisCfg.MayString("PASSWORD", ""),
			redisCfg.MayInt("DB", 0),
			*logger.Named("redis"),
		)
		if err := cache.Ping(ctx); err != nil {
			l.Warn().Err(err).Msg("redis unreachable, statuses stay in-process only")
		} else {
			statusCache = cache
			defer cache.Close()
		}
	}
	statusTracker := sourcesvc.NewStatusTracker(statusCache, *logger.Named("status"))

	alertOpts := []alertsvc.Option{
		alertsvc.WithDebounce(pipeCfg.MayDuration("ALERT_DEBOUNCE", 600*time.Second)),
	}
	tgCfg := root.Prefix("FXRADAR_TELEGRAM_")
	if token := tgCfg.MayString("TOKEN", ""); token != "" {
		notifier, err := telegram.New(token, int64(tgCfg.MayInt("CHAT_ID", 0)), *logger.Named("telegram"))
		if err != nil {
			l.Warn().Err(err).Msg("telegram disabled")
		} else {
			alertOpts = append(alertOpts, alertsvc.WithNotifier(notifier))
		}
	}
	alertSvc := alertsvc.New(st.PG, *logger.Named("alerts"), alertOpts...)

	hub := stream.NewHub(*logger.Named("stream"))

	analyzerOpts := []impact.Option{}
	aiCfg := root.Prefix("FXRADAR_OPENAI_")
	if key := aiCfg.MayString("API_KEY", ""); key != "" {
		extractor := annotate.New(key, aiCfg.MayString("MODEL", ""), *logger.Named("annotate"))
		analyzerOpts = append(analyzerOpts, impact.WithExtractor(extractor))
	}

	coordinator := pipesvc.New(
		pipesvc.Deps{
			Sources:   srcSvc,
			Status:    statusTracker,
			NewsRead:  newsSvc,
			NewsWrite: newsSvc,
			Evaluator: alertSvc,
			Publisher: hub,
			Fetchers: map[sourcesdomain.Kind]pipedomain.FetcherPort{
				sourcesdomain.KindFeed:   feed.New(*logger.Named("feed"), nil),
				sourcesdomain.KindPage:   page.New(*logger.Named("page"), nil),
				sourcesdomain.KindReplay: replay.New(pipeCfg.MayString("FIXTURE_DIR", "fixtures"), *logger.Named("replay")),
			},
			Analyzer: impact.New(analyzerOpts...),
			Dedup:    dedup.New(pipeCfg.MayInt("SIMILARITY_THRESHOLD", dedup.DefaultSimilarityThreshold)),
		},
		*logger.Named("pipeline"),
		pipesvc.WithSeedLimit(pipeCfg.MayInt("SEED_LIMIT", 500)),
		pipesvc.WithFetchParallel(pipeCfg.MayInt("FETCH_PARALLEL", 4)),
	)

	if err := srcSvc.EnsureDefaults(ctx); err != nil {
		l.Panic().Err(err).Msg("seeding default sources failed")
	}

	scheduler := pipesvc.NewScheduler(
		coordinator,
		pipeCfg.MayDuration("INTERVAL", pipesvc.DefaultInterval),
		*logger.Named("scheduler"),
	)
	go scheduler.Run(ctx)

	srv := phttp.NewServer(apiCfg, func(m *chi.Mux) {
		m.Use(middleware.RealIP())
		m.Use(middleware.RequestID())
		m.Use(middleware.RecoverJSON)
		m.Use(middleware.CORS(middleware.CORSOptions{}))
		m.Use(middleware.AccessLogZerolog(middleware.AccessLogOptions{
			Slow: time.Duration(apiCfg.MayInt("SLOW_MS", 1000)) * time.Millisecond,
		}))
	})

	pinger, _ := any(st.PG).(store.Pinger)
	api.Mount(srv.Mux(), api.Deps{
		News:     newsSvc,
		Sources:  srcSvc,
		SourcesW: srcSvc,
		Status:   statusTracker,
		AlertsR:  alertSvc,
		AlertsW:  alertSvc,
		Hub:      hub,
		DB:       pinger,
	})

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			l.Error().Err(err).Msg("http shutdown failed")
		}
	}()

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
