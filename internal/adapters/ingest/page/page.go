// Package page scrapes single HTML pages as one-item sources
package page

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	perr "fxradar/internal/platform/errors"
	"fxradar/internal/platform/logger"
	"fxradar/internal/services/pipeline/domain"
	sources "fxradar/internal/services/sources/domain"

	"golang.org/x/net/html"
)

const (
	defaultTimeout     = 20 * time.Second
	defaultMinInterval = 5 * time.Minute
	summaryMaxRunes    = 500
	bodyMaxBytes       = 2 << 20
)

// Fetcher turns an HTML page into a single raw item: the document title
// plus its visible text. Pages change slowly, so fetches for a given URL
// are spaced out by the source's min interval
type Fetcher struct {
	client *http.Client
	log    logger.Logger
	now    func() time.Time

	mu       sync.Mutex
	lastSeen map[string]time.Time
}

// New constructs the page fetcher
func New(log logger.Logger, client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Fetcher{
		client:   client,
		log:      log,
		now:      time.Now,
		lastSeen: make(map[string]time.Time),
	}
}

// Fetch implements domain.FetcherPort. A fetch inside the min interval
// returns no items and no error
func (f *Fetcher) Fetch(ctx context.Context, src sources.Source) ([]domain.RawItem, error) {
	if src.Config.URL == "" {
		return nil, perr.Validationf("page source %q has no url", src.Name)
	}
	interval := defaultMinInterval
	if src.Config.MinIntervalSec > 0 {
		interval = time.Duration(src.Config.MinIntervalSec) * time.Second
	}

	now := f.now()
	f.mu.Lock()
	last, seen := f.lastSeen[src.Config.URL]
	if seen && now.Sub(last) < interval {
		f.mu.Unlock()
		logger.C(ctx).Debug().Str("url", src.Config.URL).Msg("page fetch throttled")
		return nil, nil
	}
	f.lastSeen[src.Config.URL] = now
	f.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.Config.URL, nil)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "build page request")
	}
	req.Header.Set("User-Agent", "fxradar/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeTransport, "fetch page %q", src.Config.URL)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, perr.Transportf("fetch page %q: status %d", src.Config.URL, resp.StatusCode)
	}

	title, text, err := extract(io.LimitReader(resp.Body, bodyMaxBytes))
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeTransport, "parse page html")
	}
	if title == "" {
		title = src.Name
	}
	return []domain.RawItem{{
		URL:     src.Config.URL,
		Title:   title,
		Summary: truncateRunes(text, summaryMaxRunes),
		Content: text,
	}}, nil
}

// extract walks the DOM collecting the <title> and the visible text,
// skipping script/style/noscript subtrees
func extract(r io.Reader) (title, text string, err error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", "", err
	}
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "noscript":
				return
			case "title":
				if title == "" && n.FirstChild != nil {
					title = strings.TrimSpace(n.FirstChild.Data)
				}
			}
		case html.TextNode:
			if t := strings.TrimSpace(n.Data); t != "" {
				sb.WriteString(t)
				sb.WriteByte(' ')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return title, strings.Join(strings.Fields(sb.String()), " "), nil
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
