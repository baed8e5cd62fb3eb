// Package replay serves canned items from a JSON fixture, rotating through
// the file one batch per fetch. Used for demos and local development
package replay

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	perr "fxradar/internal/platform/errors"
	"fxradar/internal/platform/logger"
	"fxradar/internal/services/pipeline/domain"
	sources "fxradar/internal/services/sources/domain"
)

const defaultBatch = 2

type fixtureItem struct {
	URL         string     `json:"url"`
	Title       string     `json:"title"`
	Summary     string     `json:"summary,omitempty"`
	Content     string     `json:"content,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// Fetcher replays fixture items in a loop
type Fetcher struct {
	dir   string
	batch int
	log   logger.Logger

	mu     sync.Mutex
	cursor map[string]int
}

// New constructs the replay fetcher; dir holds the fixture files
func New(dir string, log logger.Logger) *Fetcher {
	return &Fetcher{dir: dir, batch: defaultBatch, log: log, cursor: make(map[string]int)}
}

// Fetch implements domain.FetcherPort. Each call yields the next batch,
// wrapping around at the end of the fixture
func (f *Fetcher) Fetch(ctx context.Context, src sources.Source) ([]domain.RawItem, error) {
	name := src.Config.Fixture
	if name == "" {
		name = "replay.json"
	}
	path := filepath.Join(f.dir, name)

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeTransport, "read fixture %q", path)
	}
	var items []fixtureItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeJSON, "parse fixture %q", path)
	}
	if len(items) == 0 {
		return nil, nil
	}

	f.mu.Lock()
	start := f.cursor[src.Name] % len(items)
	f.cursor[src.Name] = (start + f.batch) % len(items)
	f.mu.Unlock()

	out := make([]domain.RawItem, 0, f.batch)
	for i := 0; i < f.batch && i < len(items); i++ {
		it := items[(start+i)%len(items)]
		out = append(out, domain.RawItem{
			URL:         it.URL,
			Title:       it.Title,
			Summary:     it.Summary,
			Content:     it.Content,
			PublishedAt: it.PublishedAt,
		})
	}
	logger.C(ctx).Debug().Int("items", len(out)).Str("fixture", name).Msg("replay batch served")
	return out, nil
}
