package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tmorell/chorus/internal/config"
	"github.com/tmorell/chorus/internal/models"
	"github.com/tmorell/chorus/pkg/logger"
)

// CachedProject is the read-through cache entry for a project and its HEAD
// version. Versions are immutable, so a stale entry can only misreport which
// version is HEAD, never its contents; entries expire with the TTL.
type CachedProject struct {
	Project        models.Project  `json:"project"`
	CurrentVersion *models.Version `json:"current_version"`
}

// ProjectCache is an optional Redis cache keyed by "project:{id}". A nil or
// unreachable Redis behaves as a permanent miss: all errors are logged and
// swallowed, never surfaced to the caller.
type ProjectCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewProjectCache connects to Redis per config. When the cache is disabled
// or Redis is unreachable the returned cache is a no-op.
func NewProjectCache(cfg *config.CacheConfig) *ProjectCache {
	ttl := time.Duration(cfg.TTLSeconds) * time.Second
	if !cfg.Enabled {
		return &ProjectCache{ttl: ttl}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn().Err(err).Str("addr", cfg.Addr).Msg("redis unreachable, project cache disabled")
		_ = rdb.Close()
		return &ProjectCache{ttl: ttl}
	}

	logger.Infof("[Cache] project cache enabled, redis at %s, ttl %s", cfg.Addr, ttl)
	return &ProjectCache{rdb: rdb, ttl: ttl}
}

// Enabled reports whether a Redis backend is attached.
func (c *ProjectCache) Enabled() bool {
	return c != nil && c.rdb != nil
}

func cacheKey(projectID uint) string {
	return fmt.Sprintf("project:%d", projectID)
}

// Get returns the cached entry for a project, or nil on miss or error.
func (c *ProjectCache) Get(ctx context.Context, projectID uint) *CachedProject {
	if !c.Enabled() {
		return nil
	}

	raw, err := c.rdb.Get(ctx, cacheKey(projectID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warn().Err(err).Uint("project_id", projectID).Msg("cache get failed")
		}
		return nil
	}

	var entry CachedProject
	if err := json.Unmarshal(raw, &entry); err != nil {
		logger.Warn().Err(err).Uint("project_id", projectID).Msg("cache entry corrupt, dropping")
		c.Invalidate(ctx, projectID)
		return nil
	}
	return &entry
}

// Set stores the entry with the configured TTL.
func (c *ProjectCache) Set(ctx context.Context, projectID uint, entry *CachedProject) {
	if !c.Enabled() || entry == nil {
		return
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		logger.Warn().Err(err).Uint("project_id", projectID).Msg("cache marshal failed")
		return
	}

	if err := c.rdb.Set(ctx, cacheKey(projectID), raw, c.ttl).Err(); err != nil {
		logger.Warn().Err(err).Uint("project_id", projectID).Msg("cache set failed")
	}
}

// Invalidate deletes the entry. Called on every HEAD move or project
// metadata mutation.
func (c *ProjectCache) Invalidate(ctx context.Context, projectID uint) {
	if !c.Enabled() {
		return
	}

	if err := c.rdb.Del(ctx, cacheKey(projectID)).Err(); err != nil {
		logger.Warn().Err(err).Uint("project_id", projectID).Msg("cache invalidate failed")
	}
}

// Close releases the Redis connection.
func (c *ProjectCache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Close()
}
