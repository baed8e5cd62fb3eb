package service

import (
	"context"
	"testing"
	"time"

	"fxradar/internal/core/impact"
	perr "fxradar/internal/platform/errors"
	"fxradar/internal/platform/logger"
	alerts "fxradar/internal/services/alerts/domain"
	news "fxradar/internal/services/news/domain"
	"fxradar/internal/services/pipeline/domain"
	sources "fxradar/internal/services/sources/domain"
)

type fakeSources struct{ srcs []sources.Source }

func (f *fakeSources) List(context.Context) ([]sources.Source, error)        { return f.srcs, nil }
func (f *fakeSources) ListEnabled(context.Context) ([]sources.Source, error) { return f.srcs, nil }

type fakeStatus struct{ set map[string]sources.Status }

func (f *fakeStatus) Set(_ context.Context, name string, st sources.Status) {
	if f.set == nil {
		f.set = map[string]sources.Status{}
	}
	f.set[name] = st
}
func (f *fakeStatus) Snapshot(context.Context) map[string]sources.Status { return f.set }

type fakeNews struct {
	seed    news.DedupSeed
	created []news.Item
	failURL string
}

func (f *fakeNews) List(context.Context, news.Filter) ([]news.Record, error) { return nil, nil }
func (f *fakeNews) Get(context.Context, string) (news.Record, error)         { return news.Record{}, nil }
func (f *fakeNews) Seed(context.Context, int) (news.DedupSeed, error)        { return f.seed, nil }

func (f *fakeNews) Create(_ context.Context, item news.Item, analysis impact.Result) (news.Record, error) {
	if f.failURL != "" && item.URL == f.failURL {
		return news.Record{}, perr.New(perr.ErrorCodeDB, "write refused")
	}
	item.ID = "item-" + item.Title
	f.created = append(f.created, item)
	return news.Record{Item: item, Analysis: analysis}, nil
}

type fakeEvaluator struct{ evaluated []string }

func (f *fakeEvaluator) Evaluate(_ context.Context, rec news.Record, _ impact.Result, _ time.Time) ([]alerts.Event, error) {
	f.evaluated = append(f.evaluated, rec.ID)
	return []alerts.Event{{ID: "ev", NewsItemID: rec.ID}}, nil
}

type fakePublisher struct{ published []string }

func (f *fakePublisher) Publish(rec news.Record) { f.published = append(f.published, rec.ID) }

type fakeFetcher struct {
	byName map[string][]domain.RawItem
	errFor string
}

func (f *fakeFetcher) Fetch(_ context.Context, src sources.Source) ([]domain.RawItem, error) {
	if src.Name == f.errFor {
		return nil, perr.Transportf("connection refused")
	}
	return f.byName[src.Name], nil
}

func src(id int64, name string) sources.Source {
	return sources.Source{ID: id, Name: name, Kind: sources.KindFeed, Enabled: true}
}

func raw(title, url string) domain.RawItem {
	return domain.RawItem{Title: title, URL: url, Content: title + " body"}
}

func newTestService(t *testing.T, deps Deps) *Service {
	t.Helper()
	return New(deps, *logger.Get(), WithFetchParallel(2))
}

func TestRunCycle_SourceFailureIsolated(t *testing.T) {
	st := &fakeStatus{}
	nw := &fakeNews{}
	pub := &fakePublisher{}
	svc := newTestService(t, Deps{
		Sources:  &fakeSources{srcs: []sources.Source{src(1, "good"), src(2, "bad")}},
		Status:   st,
		NewsRead: nw, NewsWrite: nw,
		Evaluator: &fakeEvaluator{},
		Publisher: pub,
		Fetchers: map[sources.Kind]domain.FetcherPort{
			sources.KindFeed: &fakeFetcher{
				byName: map[string][]domain.RawItem{"good": {raw("Gold jumps", "https://a.example/1")}},
				errFor: "bad",
			},
		},
	})

	report, err := svc.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	if report.Accepted != 1 {
		t.Fatalf("accepted = %d, want 1", report.Accepted)
	}
	if !st.set["good"].OK {
		t.Fatal("good source not marked healthy")
	}
	if bad := st.set["bad"]; bad.OK || bad.Error == "" {
		t.Fatalf("bad source status = %+v, want recorded failure", bad)
	}
	if len(pub.published) != 1 {
		t.Fatalf("published = %d, want 1", len(pub.published))
	}
}

func TestRunCycle_DuplicatesDropped(t *testing.T) {
	nw := &fakeNews{seed: news.DedupSeed{
		URLs:   []string{"https://a.example/old"},
		Hashes: []string{"x"},
		Titles: []string{"ECB keeps rates unchanged at March meeting"},
	}}
	svc := newTestService(t, Deps{
		Sources:  &fakeSources{srcs: []sources.Source{src(1, "feed")}},
		Status:   &fakeStatus{},
		NewsRead: nw, NewsWrite: nw,
		Evaluator: &fakeEvaluator{},
		Fetchers: map[sources.Kind]domain.FetcherPort{
			sources.KindFeed: &fakeFetcher{byName: map[string][]domain.RawItem{"feed": {
				// same canonical URL as history, utm noise stripped
				raw("Anything", "https://a.example/old?utm_source=x"),
				// near-identical title to history
				raw("ECB keeps rates unchanged at March meetings", "https://b.example/2"),
				// genuinely new
				raw("Oil slides on demand fears", "https://c.example/3"),
				// duplicate of the new one within the same cycle
				raw("Oil slides on demand fears", "https://c.example/3?utm_medium=rss"),
			}}},
		},
	})

	report, err := svc.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	sr := report.Sources[0]
	if sr.Accepted != 1 || sr.Duplicate != 3 {
		t.Fatalf("accepted=%d duplicate=%d, want 1/3", sr.Accepted, sr.Duplicate)
	}
	if len(nw.created) != 1 || nw.created[0].Title != "Oil slides on demand fears" {
		t.Fatalf("created = %+v, want only the oil item", nw.created)
	}
}

func TestRunCycle_PersistFailureSkipsAlertAndPublish(t *testing.T) {
	nw := &fakeNews{failURL: "https://a.example/1"}
	ev := &fakeEvaluator{}
	pub := &fakePublisher{}
	svc := newTestService(t, Deps{
		Sources:  &fakeSources{srcs: []sources.Source{src(1, "feed")}},
		Status:   &fakeStatus{},
		NewsRead: nw, NewsWrite: nw,
		Evaluator: ev,
		Publisher: pub,
		Fetchers: map[sources.Kind]domain.FetcherPort{
			sources.KindFeed: &fakeFetcher{byName: map[string][]domain.RawItem{"feed": {
				raw("Doomed write", "https://a.example/1"),
				raw("Healthy write", "https://a.example/2"),
			}}},
		},
	})

	report, err := svc.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	sr := report.Sources[0]
	if sr.Failed != 1 || sr.Accepted != 1 {
		t.Fatalf("failed=%d accepted=%d, want 1/1", sr.Failed, sr.Accepted)
	}
	if len(ev.evaluated) != 1 || len(pub.published) != 1 {
		t.Fatalf("evaluated=%d published=%d, want 1/1: unpersisted item leaked downstream",
			len(ev.evaluated), len(pub.published))
	}
}

func TestRunCycle_UnknownKindRecorded(t *testing.T) {
	st := &fakeStatus{}
	nw := &fakeNews{}
	bad := sources.Source{ID: 1, Name: "odd", Kind: sources.Kind("ftp"), Enabled: true}
	svc := newTestService(t, Deps{
		Sources:  &fakeSources{srcs: []sources.Source{bad}},
		Status:   st,
		NewsRead: nw, NewsWrite: nw,
		Evaluator: &fakeEvaluator{},
		Fetchers:  map[sources.Kind]domain.FetcherPort{},
	})

	if _, err := svc.RunCycle(context.Background()); err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	if stt := st.set["odd"]; stt.OK || stt.Error == "" {
		t.Fatalf("status = %+v, want recorded configuration failure", stt)
	}
}
