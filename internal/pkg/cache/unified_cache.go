package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	goCache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/FACorreiaa/estate-templui/internal/app/observability/metrics"
)

// CacheMetrics tracks cache performance
type CacheMetrics struct {
	Hits   int64
	Misses int64
	Sets   int64
}

// UnifiedCache is a typed TTL cache. Concurrent misses for the same key share
// one load.
type UnifiedCache[T any] struct {
	items  *goCache.Cache
	ttl    time.Duration
	name   string
	group  singleflight.Group
	logger *zap.Logger

	hits, misses, sets atomic.Int64
}

// NewUnifiedCache creates a cache whose entries live for ttl.
func NewUnifiedCache[T any](ttl time.Duration, name string, logger *zap.Logger) *UnifiedCache[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UnifiedCache[T]{
		items:  goCache.New(ttl, 2*ttl),
		ttl:    ttl,
		name:   name,
		logger: logger,
	}
}

func (c *UnifiedCache[T]) Set(key string, value T) {
	c.items.Set(key, value, goCache.DefaultExpiration)
	c.sets.Add(1)
	c.logger.Debug("Cache set",
		zap.String("cache", c.name),
		zap.String("key", key),
		zap.Duration("ttl", c.ttl),
	)
}

func (c *UnifiedCache[T]) Get(key string) (T, bool) {
	v, found := c.items.Get(key)
	if found {
		if value, ok := v.(T); ok {
			c.hits.Add(1)
			c.logger.Debug("Cache hit", zap.String("cache", c.name), zap.String("key", key))
			return value, true
		}
	}
	c.misses.Add(1)
	c.logger.Debug("Cache miss", zap.String("cache", c.name), zap.String("key", key))
	var zero T
	return zero, false
}

// GetOrLoad returns the cached value or calls load once per key and caches a
// successful result. Errors are not cached.
func (c *UnifiedCache[T]) GetOrLoad(ctx context.Context, key string, load func(context.Context) (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		metrics.RecordCacheLookup(ctx, c.name, true)
		return v, nil
	}
	metrics.RecordCacheLookup(ctx, c.name, false)

	v, err, _ := c.group.Do(key, func() (any, error) {
		// A load that finished between Get and Do already filled the entry.
		if cached, found := c.items.Get(key); found {
			if value, ok := cached.(T); ok {
				return value, nil
			}
		}
		value, err := load(ctx)
		if err != nil {
			return value, err
		}
		c.Set(key, value)
		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

func (c *UnifiedCache[T]) Delete(key string) {
	c.items.Delete(key)
	c.logger.Debug("Cache delete", zap.String("cache", c.name), zap.String("key", key))
}

func (c *UnifiedCache[T]) Clear() {
	c.items.Flush()
	c.logger.Info("Cache cleared", zap.String("cache", c.name))
}

// GetMetrics returns current cache metrics
func (c *UnifiedCache[T]) GetMetrics() CacheMetrics {
	return CacheMetrics{Hits: c.hits.Load(), Misses: c.misses.Load(), Sets: c.sets.Load()}
}

// Size counts entries, including expired ones not yet evicted.
func (c *UnifiedCache[T]) Size() int {
	return c.items.ItemCount()
}

// CacheKeyBuilder helps build consistent cache keys
type CacheKeyBuilder struct {
	components []any
	logger     *zap.Logger
}

func NewCacheKeyBuilder(logger *zap.Logger) *CacheKeyBuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheKeyBuilder{
		components: make([]any, 0, 4),
		logger:     logger,
	}
}

// Add adds a component to the cache key
func (b *CacheKeyBuilder) Add(key string, value any) *CacheKeyBuilder {
	b.components = append(b.components, map[string]any{key: value})
	return b
}

// Build generates the final cache key as an MD5 hash
func (b *CacheKeyBuilder) Build() (string, error) {
	jsonBytes, err := json.Marshal(b.components)
	if err != nil {
		return "", fmt.Errorf("failed to marshal cache key components: %w", err)
	}

	hash := md5.Sum(jsonBytes)
	key := hex.EncodeToString(hash[:])

	b.logger.Debug("Cache key built",
		zap.String("key", key),
		zap.String("components", string(jsonBytes)),
	)

	return key, nil
}

// BuildOrDefault builds the cache key, returns empty string on error
func (b *CacheKeyBuilder) BuildOrDefault() string {
	key, err := b.Build()
	if err != nil {
		b.logger.Error("Failed to build cache key", zap.Error(err))
		return ""
	}
	return key
}
