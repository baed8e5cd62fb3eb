package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"fxradar/internal/platform/logger"
	sources "fxradar/internal/services/sources/domain"
)

const rss = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Macro Wire</title>
  <item>
    <title>Fed signals rate cut</title>
    <link>https://example.com/fed-cut</link>
    <description>Dovish tone at the presser</description>
    <pubDate>Mon, 02 Mar 2026 10:00:00 GMT</pubDate>
  </item>
  <item>
    <title></title>
    <link>https://example.com/untitled</link>
  </item>
  <item>
    <title>Gold jumps on risk-off</title>
    <link>https://example.com/gold</link>
  </item>
</channel>
</rss>`

func TestFetchParsesFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(rss))
	}))
	t.Cleanup(srv.Close)

	f := New(*logger.Get(), srv.Client())
	src := sources.Source{Name: "wire", Kind: sources.KindFeed, Config: sources.Config{URL: srv.URL}}

	items, err := f.Fetch(context.Background(), src)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	// the untitled entry is dropped
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	first := items[0]
	if first.Title != "Fed signals rate cut" || first.URL != "https://example.com/fed-cut" {
		t.Fatalf("first item = %+v", first)
	}
	if first.Summary != "Dovish tone at the presser" {
		t.Fatalf("summary = %q", first.Summary)
	}
	if first.PublishedAt == nil {
		t.Fatal("pubDate not parsed")
	}
}

func TestFetchMissingURL(t *testing.T) {
	f := New(*logger.Get(), nil)
	src := sources.Source{Name: "broken", Kind: sources.KindFeed}
	if _, err := f.Fetch(context.Background(), src); err == nil {
		t.Fatal("expected an error for a feed source without a url")
	}
}

func TestFetchUnreachableFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	t.Cleanup(srv.Close)

	f := New(*logger.Get(), srv.Client())
	src := sources.Source{Name: "dead", Kind: sources.KindFeed, Config: sources.Config{URL: srv.URL}}
	if _, err := f.Fetch(context.Background(), src); err == nil {
		t.Fatal("expected a transport error")
	}
}
