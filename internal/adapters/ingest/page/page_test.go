package page

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fxradar/internal/platform/logger"
	sources "fxradar/internal/services/sources/domain"
)

const doc = `<!doctype html>
<html>
<head>
  <title> ECB Press Briefing </title>
  <style>body { color: red }</style>
  <script>var tracking = true;</script>
</head>
<body>
  <h1>Rates on hold</h1>
  <p>The governing council kept policy rates unchanged.</p>
  <noscript>enable javascript</noscript>
</body>
</html>`

func newServer(t *testing.T, hits *int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hits++
		_, _ = w.Write([]byte(doc))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchExtractsTitleAndText(t *testing.T) {
	var hits int
	srv := newServer(t, &hits)

	f := New(*logger.Get(), srv.Client())
	src := sources.Source{Name: "ecb", Kind: sources.KindPage, Config: sources.Config{URL: srv.URL}}

	items, err := f.Fetch(context.Background(), src)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}
	it := items[0]
	if it.Title != "ECB Press Briefing" {
		t.Fatalf("title = %q", it.Title)
	}
	if !strings.Contains(it.Content, "kept policy rates unchanged") {
		t.Fatalf("content = %q", it.Content)
	}
	if strings.Contains(it.Content, "tracking") || strings.Contains(it.Content, "color: red") {
		t.Fatalf("script/style text leaked: %q", it.Content)
	}
	if strings.Contains(it.Content, "enable javascript") {
		t.Fatalf("noscript text leaked: %q", it.Content)
	}
}

func TestFetchThrottledInsideMinInterval(t *testing.T) {
	var hits int
	srv := newServer(t, &hits)

	f := New(*logger.Get(), srv.Client())
	src := sources.Source{
		Name:   "ecb",
		Kind:   sources.KindPage,
		Config: sources.Config{URL: srv.URL, MinIntervalSec: 300},
	}

	if _, err := f.Fetch(context.Background(), src); err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	items, err := f.Fetch(context.Background(), src)
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("throttled fetch returned %d items", len(items))
	}
	if hits != 1 {
		t.Fatalf("server hit %d times, want 1", hits)
	}

	// past the interval the fetch goes through again
	f.now = func() time.Time { return time.Now().Add(301 * time.Second) }
	if _, err := f.Fetch(context.Background(), src); err != nil {
		t.Fatalf("third fetch: %v", err)
	}
	if hits != 2 {
		t.Fatalf("server hit %d times, want 2", hits)
	}
}

func TestFetchSummaryTruncated(t *testing.T) {
	long := strings.Repeat("word ", 400)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><head><title>Long</title></head><body>" + long + "</body></html>"))
	}))
	t.Cleanup(srv.Close)

	f := New(*logger.Get(), srv.Client())
	src := sources.Source{Name: "long", Kind: sources.KindPage, Config: sources.Config{URL: srv.URL, MinIntervalSec: 1}}
	items, err := f.Fetch(context.Background(), src)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got := len([]rune(items[0].Summary)); got > summaryMaxRunes {
		t.Fatalf("summary runes = %d, want <= %d", got, summaryMaxRunes)
	}
	if len(items[0].Content) <= len(items[0].Summary) {
		t.Fatal("content should keep the full text")
	}
}
