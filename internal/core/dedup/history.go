package dedup

// History is the per-cycle dedup state: everything persisted before the cycle
// started plus items accepted within the cycle. It is owned by the pipeline
// coordinator and mutated only from its serialized item loop, never shared
// across concurrent cycles
type History struct {
	urls   map[string]struct{}
	hashes map[string]struct{}
	titles []string
}

// NewHistory seeds history from bulk store reads taken at cycle start
func NewHistory(urls, hashes, titles []string) *History {
	h := &History{
		urls:   make(map[string]struct{}, len(urls)),
		hashes: make(map[string]struct{}, len(hashes)),
		titles: make([]string, 0, len(titles)),
	}
	for _, u := range urls {
		h.urls[u] = struct{}{}
	}
	for _, x := range hashes {
		h.hashes[x] = struct{}{}
	}
	h.titles = append(h.titles, titles...)
	return h
}

// SeenURL reports whether the canonical url is already known
func (h *History) SeenURL(u string) bool {
	_, ok := h.urls[u]
	return ok
}

// SeenHash reports whether the content hash is already known
func (h *History) SeenHash(x string) bool {
	_, ok := h.hashes[x]
	return ok
}

// Add extends history with an accepted item so duplicates arriving later in
// the same cycle are caught without a store round trip
func (h *History) Add(canonicalURL, hash, title string) {
	h.urls[canonicalURL] = struct{}{}
	h.hashes[hash] = struct{}{}
	h.titles = append(h.titles, title)
}

// Size returns the number of known titles (for logging)
func (h *History) Size() int { return len(h.titles) }
