package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jobhunt/jobhunt/internal/domain/application"
)

// SummaryCache holds per-owner analytics summaries between writes.
// All implementations are best-effort: a miss or a backend failure
// just means the summary gets recomputed.
type SummaryCache interface {
	Get(ctx context.Context, ownerID string) (application.Summary, bool)
	Set(ctx context.Context, ownerID string, s application.Summary)
	Invalidate(ctx context.Context, ownerID string)
}

func summaryKey(ownerID string) string {
	return "analytics:summary:v1:user=" + ownerID
}

type RedisSummaryCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisSummaryCache(rdb *redis.Client, ttl time.Duration) *RedisSummaryCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	return &RedisSummaryCache{rdb: rdb, ttl: ttl}
}

func (c *RedisSummaryCache) Get(ctx context.Context, ownerID string) (application.Summary, bool) {
	raw, err := c.rdb.Get(ctx, summaryKey(ownerID)).Bytes()

	if err != nil {
		return application.Summary{}, false
	}

	var s application.Summary

	if err := json.Unmarshal(raw, &s); err != nil {
		return application.Summary{}, false
	}

	return s, true
}

func (c *RedisSummaryCache) Set(ctx context.Context, ownerID string, s application.Summary) {
	raw, err := json.Marshal(s)

	if err != nil {
		return
	}

	_ = c.rdb.Set(ctx, summaryKey(ownerID), raw, c.ttl).Err()
}

func (c *RedisSummaryCache) Invalidate(ctx context.Context, ownerID string) {
	_ = c.rdb.Del(ctx, summaryKey(ownerID)).Err()
}

// MemorySummaryCache backs tests and redis-less deployments.
type MemorySummaryCache struct {
	mu  sync.RWMutex
	ttl time.Duration
	m   map[string]memoryEntry
}

type memoryEntry struct {
	val application.Summary
	exp time.Time
}

func NewMemorySummaryCache(ttl time.Duration) *MemorySummaryCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	return &MemorySummaryCache{
		ttl: ttl,
		m:   make(map[string]memoryEntry),
	}
}

func (c *MemorySummaryCache) Get(ctx context.Context, ownerID string) (application.Summary, bool) {
	now := time.Now()
	c.mu.RLock()
	e, ok := c.m[ownerID]
	c.mu.RUnlock()

	if !ok {
		return application.Summary{}, false
	}

	if now.After(e.exp) {
		c.mu.Lock()
		delete(c.m, ownerID)
		c.mu.Unlock()
		return application.Summary{}, false
	}

	return e.val, true
}

func (c *MemorySummaryCache) Set(ctx context.Context, ownerID string, s application.Summary) {
	c.mu.Lock()
	c.m[ownerID] = memoryEntry{val: s, exp: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

func (c *MemorySummaryCache) Invalidate(ctx context.Context, ownerID string) {
	c.mu.Lock()
	delete(c.m, ownerID)
	c.mu.Unlock()
}
