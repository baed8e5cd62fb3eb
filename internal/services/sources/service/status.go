package service

import (
	"context"
	"sync"

	"fxradar/internal/platform/logger"
	"fxradar/internal/services/sources/domain"
)

// StatusTracker implements domain.StatusPort with an in-memory map and an
// optional write-through cache. The cache is best-effort: its failures are
// logged and never propagated
type StatusTracker struct {
	mu    sync.RWMutex
	bySrc map[string]domain.Status
	cache domain.StatusCachePort
	log   logger.Logger
}

// NewStatusTracker builds a tracker; cache may be nil
func NewStatusTracker(cache domain.StatusCachePort, log logger.Logger) *StatusTracker {
	t := &StatusTracker{
		bySrc: make(map[string]domain.Status),
		cache: cache,
		log:   log,
	}
	if cache != nil {
		// warm from the cache so restarts keep the last known health
		if all, err := cache.All(context.Background()); err == nil {
			for k, v := range all {
				t.bySrc[k] = v
			}
		}
	}
	return t
}

// Set implements domain.StatusPort
func (t *StatusTracker) Set(ctx context.Context, sourceName string, st domain.Status) {
	t.mu.Lock()
	t.bySrc[sourceName] = st
	t.mu.Unlock()

	if t.cache != nil {
		if err := t.cache.Put(ctx, sourceName, st); err != nil {
			t.log.Warn().Err(err).Str("source", sourceName).Msg("status cache write failed")
		}
	}
}

// Snapshot implements domain.StatusPort
func (t *StatusTracker) Snapshot(_ context.Context) map[string]domain.Status {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]domain.Status, len(t.bySrc))
	for k, v := range t.bySrc {
		out[k] = v
	}
	return out
}
