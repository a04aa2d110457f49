// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// projects.go provides a Valkey-backed cache of public API responses.
// The published-project listing and per-slug lookups are the hot path of
// the marketing site; caching their serialized JSON skips the DB query
// entirely. Admin writes invalidate the whole namespace since any mutation
// can change the listing.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// projectKeyPrefix namespaces project cache keys in Valkey.
	projectKeyPrefix = "projects:"

	// listKey caches the published-project listing.
	listKey = projectKeyPrefix + "published"

	// DefaultProjectTTL is how long a cached response stays valid. Admin
	// writes invalidate eagerly, so the TTL only bounds staleness when an
	// invalidation is lost.
	DefaultProjectTTL = 5 * time.Minute
)

// ProjectCache caches serialized public API responses in Valkey. A nil
// *ProjectCache is valid and disables caching, so the server runs without
// Valkey configured.
type ProjectCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProjectCache creates a project cache backed by the given Valkey client.
func NewProjectCache(client *redis.Client, ttl time.Duration) *ProjectCache {
	if ttl <= 0 {
		ttl = DefaultProjectTTL
	}
	return &ProjectCache{client: client, ttl: ttl}
}

// Close releases the underlying Valkey connection. Safe on a nil cache.
func (pc *ProjectCache) Close() error {
	if pc == nil || pc.client == nil {
		return nil
	}
	return pc.client.Close()
}

// GetList retrieves the cached published listing. Returns false on miss.
func (pc *ProjectCache) GetList(ctx context.Context) ([]byte, bool) {
	return pc.get(ctx, listKey)
}

// SetList stores the serialized published listing.
func (pc *ProjectCache) SetList(ctx context.Context, payload []byte) {
	pc.set(ctx, listKey, payload)
}

// GetBySlug retrieves a cached per-slug response. Returns false on miss.
func (pc *ProjectCache) GetBySlug(ctx context.Context, slug string) ([]byte, bool) {
	return pc.get(ctx, projectKeyPrefix+"slug:"+slug)
}

// SetBySlug stores a serialized per-slug response.
func (pc *ProjectCache) SetBySlug(ctx context.Context, slug string, payload []byte) {
	pc.set(ctx, projectKeyPrefix+"slug:"+slug, payload)
}

// Invalidate clears every cached project response. Called after any admin
// write: a rename changes slugs, a publish toggle changes the listing, and
// it is not worth being clever about which keys survived.
func (pc *ProjectCache) Invalidate(ctx context.Context) {
	if pc == nil {
		return
	}

	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := pc.client.Scan(ctx, cursor, projectKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("project cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := pc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("project cache delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("project cache invalidated", "deleted", deleted)
	}
}

func (pc *ProjectCache) get(ctx context.Context, key string) ([]byte, bool) {
	if pc == nil {
		return nil, false
	}
	val, err := pc.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("project cache get error", "key", key, "error", err)
		return nil, false
	}
	return val, true
}

func (pc *ProjectCache) set(ctx context.Context, key string, payload []byte) {
	if pc == nil {
		return
	}
	if err := pc.client.Set(ctx, key, payload, pc.ttl).Err(); err != nil {
		slog.Warn("project cache set error", "key", key, "error", err)
	}
}
