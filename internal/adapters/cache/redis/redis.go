// Package redis provides the source status cache so fetch health survives
// process restarts
package redis

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	perr "fxradar/internal/platform/errors"
	"fxradar/internal/platform/logger"
	sources "fxradar/internal/services/sources/domain"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "fxradar:source_status:"
	defaultTTL = 24 * time.Hour
)

// StatusCache implements sources.StatusCachePort over a redis instance
type StatusCache struct {
	client *redis.Client
	ttl    time.Duration
	log    logger.Logger
}

// New constructs the cache; addr is host:port
func New(addr, password string, db int, log logger.Logger) *StatusCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &StatusCache{client: client, ttl: defaultTTL, log: log}
}

// Ping verifies connectivity at startup
func (c *StatusCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "redis ping")
	}
	return nil
}

// Close releases the client
func (c *StatusCache) Close() error { return c.client.Close() }

// Put implements sources.StatusCachePort
func (c *StatusCache) Put(ctx context.Context, sourceName string, st sources.Status) error {
	payload, err := json.Marshal(st)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "marshal source status")
	}
	if err := c.client.Set(ctx, keyPrefix+sourceName, payload, c.ttl).Err(); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "cache source status")
	}
	return nil
}

// All implements sources.StatusCachePort
func (c *StatusCache) All(ctx context.Context) (map[string]sources.Status, error) {
	out := make(map[string]sources.Status)
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		raw, err := c.client.Get(ctx, key).Bytes()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "read cached status")
		}
		var st sources.Status
		if err := json.Unmarshal(raw, &st); err != nil {
			c.log.Warn().Str("key", key).Msg("dropping unreadable cached status")
			continue
		}
		out[strings.TrimPrefix(key, keyPrefix)] = st
	}
	if err := iter.Err(); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "scan cached statuses")
	}
	return out, nil
}
