// Package feed fetches RSS/Atom sources
package feed

import (
	"context"
	"net/http"
	"time"

	perr "fxradar/internal/platform/errors"
	"fxradar/internal/platform/logger"
	"fxradar/internal/services/pipeline/domain"
	sources "fxradar/internal/services/sources/domain"

	"github.com/mmcdole/gofeed"
)

const defaultTimeout = 30 * time.Second

// Fetcher pulls items out of an RSS or Atom feed
type Fetcher struct {
	parser *gofeed.Parser
	log    logger.Logger
}

// New constructs the feed fetcher
func New(log logger.Logger, client *http.Client) *Fetcher {
	p := gofeed.NewParser()
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	p.Client = client
	p.UserAgent = "fxradar/1.0"
	return &Fetcher{parser: p, log: log}
}

// Fetch implements domain.FetcherPort
func (f *Fetcher) Fetch(ctx context.Context, src sources.Source) ([]domain.RawItem, error) {
	if src.Config.URL == "" {
		return nil, perr.Validationf("feed source %q has no url", src.Name)
	}
	parsed, err := f.parser.ParseURLWithContext(src.Config.URL, ctx)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeTransport, "parse feed %q", src.Config.URL)
	}

	out := make([]domain.RawItem, 0, len(parsed.Items))
	for _, it := range parsed.Items {
		if it == nil || it.Link == "" || it.Title == "" {
			continue
		}
		out = append(out, domain.RawItem{
			URL:         it.Link,
			Title:       it.Title,
			Summary:     it.Description,
			Content:     it.Content,
			PublishedAt: publishedAt(it),
		})
	}
	logger.C(ctx).Debug().Int("items", len(out)).Str("feed", parsed.Title).Msg("feed fetched")
	return out, nil
}

func publishedAt(it *gofeed.Item) *time.Time {
	if it.PublishedParsed != nil {
		return it.PublishedParsed
	}
	return it.UpdatedParsed
}
