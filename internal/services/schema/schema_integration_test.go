//go:build integration_pg
// +build integration_pg

package schema_test

import (
	"context"
	"fmt"
	"reflect"
	"testing"
	"time"

	"fxradar/internal/core/impact"
	"fxradar/internal/platform/logger"
	"fxradar/internal/platform/store"
	alertsdomain "fxradar/internal/services/alerts/domain"
	alertsvc "fxradar/internal/services/alerts/service"
	news "fxradar/internal/services/news/domain"
	newssvc "fxradar/internal/services/news/service"
	"fxradar/internal/services/schema"
	sourcesdomain "fxradar/internal/services/sources/domain"
	sourcesvc "fxradar/internal/services/sources/service"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startPostgres launches a disposable Postgres and returns DSN + stop func
func startPostgres(t *testing.T) (dsn string, stop func()) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)

	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_DB":       "postgres",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections"),
		).WithDeadline(2 * time.Minute),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		cancel()
		t.Fatalf("failed to start postgres container: %v", err)
	}

	host, err := c.Host(ctx)
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get container host: %v", err)
	}
	mapped, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get mapped port: %v", err)
	}

	dsn = fmt.Sprintf("postgres://postgres:postgres@%s:%s/postgres?sslmode=disable", host, mapped.Port())
	stop = func() {
		_ = c.Terminate(context.Background())
		cancel()
	}
	return dsn, stop
}

func TestSchemaAndRoundTrip_Integration(t *testing.T) {
	dsn, stop := startPostgres(t)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	st, err := store.Open(ctx, store.Config{
		AppName: "fxradar-integration",
		PG:      store.PGConfig{Enabled: true, URL: dsn, MaxConns: 2},
	}, store.WithLogger(*logger.Get()))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	defer st.Close(context.Background())

	if err := schema.Ensure(ctx, st.PG); err != nil {
		t.Fatalf("schema.Ensure: %v", err)
	}
	// a second run must be a no-op
	if err := schema.Ensure(ctx, st.PG); err != nil {
		t.Fatalf("schema.Ensure rerun: %v", err)
	}

	log := logger.Get()
	srcSvc := sourcesvc.New(st.PG, *log)
	newsSvc := newssvc.New(st.PG, *log)
	alertSvc := alertsvc.New(st.PG, *log)

	src, err := srcSvc.Upsert(ctx, sourcesdomain.UpsertInput{
		Name:    "integration feed",
		Kind:    sourcesdomain.KindFeed,
		Config:  sourcesdomain.Config{URL: "https://example.com/rss"},
		Enabled: true,
	})
	if err != nil {
		t.Fatalf("upsert source: %v", err)
	}

	analysis := impact.New().Analyze(
		"Gold jumps on risk-off",
		"",
		"Risk-off tone boosts gold demand",
	)
	rec, err := newsSvc.Create(ctx, news.Item{
		SourceID:  src.ID,
		Source:    src.Name,
		URL:       "https://example.com/gold-jumps",
		Title:     "Gold jumps on risk-off",
		Content:   "Risk-off tone boosts gold demand",
		FetchedAt: time.Now().UTC(),
		Hash:      "abc123",
		Language:  analysis.Scoring.Language,
	}, analysis)
	if err != nil {
		t.Fatalf("create news: %v", err)
	}

	// persisting and reloading the analysis must reproduce it exactly
	got, err := newsSvc.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("get news: %v", err)
	}
	if !reflect.DeepEqual(got.Analysis, analysis) {
		t.Fatalf("analysis round-trip mismatch:\n got %+v\nwant %+v", got.Analysis, analysis)
	}

	// symbol filter must hit via the jsonb index path
	list, err := newsSvc.List(ctx, news.Filter{Symbol: "XAUUSD"})
	if err != nil {
		t.Fatalf("list news: %v", err)
	}
	if len(list) != 1 || list[0].ID != rec.ID {
		t.Fatalf("symbol filter returned %d items", len(list))
	}

	seed, err := newsSvc.Seed(ctx, 10)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if len(seed.URLs) != 1 || seed.URLs[0] != rec.URL {
		t.Fatalf("seed = %+v", seed)
	}

	// alert rule fires once, then debounce suppression holds
	minConf := 1
	if _, err := alertSvc.CreateRule(ctx, alertsdomain.CreateInput{
		Name:      "any gold",
		Condition: alertsdomain.Condition{MinConfidence: &minConf},
	}); err != nil {
		t.Fatalf("create rule: %v", err)
	}
	now := time.Now().UTC()
	events, err := alertSvc.Evaluate(ctx, got, analysis, now)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	again, err := alertSvc.Evaluate(ctx, got, analysis, now.Add(10*time.Second))
	if err != nil {
		t.Fatalf("evaluate again: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("debounce failed, second evaluation fired %d events", len(again))
	}

	history, err := alertSvc.ListEvents(ctx, 10)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(history) != 1 || history[0].NewsItemID != rec.ID {
		t.Fatalf("history = %+v", history)
	}
}
