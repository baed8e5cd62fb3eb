package replay

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"fxradar/internal/platform/logger"
	sources "fxradar/internal/services/sources/domain"
)

const fixture = `[
	{"url": "https://example.com/1", "title": "First"},
	{"url": "https://example.com/2", "title": "Second"},
	{"url": "https://example.com/3", "title": "Third"}
]`

func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "replay.json"), []byte(fixture), 0o600); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestFetchRotatesThroughFixture(t *testing.T) {
	f := New(writeFixture(t), *logger.Get())
	src := sources.Source{Name: "demo", Kind: sources.KindReplay}

	var titles []string
	for i := 0; i < 3; i++ {
		items, err := f.Fetch(context.Background(), src)
		if err != nil {
			t.Fatalf("fetch %d: %v", i, err)
		}
		for _, it := range items {
			titles = append(titles, it.Title)
		}
	}
	want := []string{"First", "Second", "Third", "First", "Second", "Third"}
	if len(titles) != len(want) {
		t.Fatalf("titles = %v", titles)
	}
	for i := range want {
		if titles[i] != want[i] {
			t.Fatalf("titles[%d] = %q, want %q", i, titles[i], want[i])
		}
	}
}

func TestFetchMissingFixture(t *testing.T) {
	f := New(t.TempDir(), *logger.Get())
	src := sources.Source{Name: "demo", Kind: sources.KindReplay, Config: sources.Config{Fixture: "nope.json"}}
	if _, err := f.Fetch(context.Background(), src); err == nil {
		t.Fatal("expected an error for a missing fixture")
	}
}

func TestFetchCursorPerSource(t *testing.T) {
	f := New(writeFixture(t), *logger.Get())
	a := sources.Source{Name: "a", Kind: sources.KindReplay}
	b := sources.Source{Name: "b", Kind: sources.KindReplay}

	itemsA, _ := f.Fetch(context.Background(), a)
	itemsB, _ := f.Fetch(context.Background(), b)
	if itemsA[0].Title != "First" || itemsB[0].Title != "First" {
		t.Fatalf("cursors leaked across sources: %q / %q", itemsA[0].Title, itemsB[0].Title)
	}
}
