// Package cache provides a TTL cache object that callers own and pass around.
package cache

import (
	"context"
	"time"

	"github.com/viccon/sturdyc"
)

// Defaults sized for a handful of API responses and tokens.
const (
	DefaultCapacity    = 1024
	DefaultShards      = 4
	evictionPercentage = 10
)

// Cache is a typed in-memory cache with a fixed TTL per entry.
// It is safe for concurrent use.
type Cache[T any] struct {
	client *sturdyc.Client[T]
	ttl    time.Duration
}

// Option configures a Cache.
type Option func(*settings)

type settings struct {
	capacity int
	shards   int
}

// WithCapacity sets the maximum number of entries.
// Panics if n < 1.
func WithCapacity(n int) Option {
	if n < 1 {
		panic("cache: capacity must be positive")
	}
	return func(s *settings) {
		s.capacity = n
	}
}

// WithShards sets the number of internal shards.
// Panics if n < 1.
func WithShards(n int) Option {
	if n < 1 {
		panic("cache: shard count must be positive")
	}
	return func(s *settings) {
		s.shards = n
	}
}

// New creates a cache whose entries expire ttl after they are written.
// Panics if ttl <= 0.
func New[T any](ttl time.Duration, opts ...Option) *Cache[T] {
	if ttl <= 0 {
		panic("cache: ttl must be positive")
	}
	s := settings{capacity: DefaultCapacity, shards: DefaultShards}
	for _, opt := range opts {
		opt(&s)
	}
	if s.shards > s.capacity {
		s.shards = s.capacity
	}
	return &Cache[T]{
		client: sturdyc.New[T](s.capacity, s.shards, ttl, evictionPercentage),
		ttl:    ttl,
	}
}

// TTL returns the lifetime of each entry.
func (c *Cache[T]) TTL() time.Duration {
	return c.ttl
}

// Get returns the cached value for key and whether it was present and fresh.
func (c *Cache[T]) Get(key string) (T, bool) {
	return c.client.Get(key)
}

// Set stores value under key, replacing any previous entry.
func (c *Cache[T]) Set(key string, value T) {
	c.client.Set(key, value)
}

// Invalidate removes key so the next lookup misses.
func (c *Cache[T]) Invalidate(key string) {
	c.client.Delete(key)
}

// Len returns the number of stored entries, expired ones included until evicted.
func (c *Cache[T]) Len() int {
	return c.client.Size()
}

// GetOrFetch returns the cached value or calls fetch, caching its result on success.
// Concurrent callers for the same key share one fetch. Errors are not cached.
func (c *Cache[T]) GetOrFetch(ctx context.Context, key string, fetch func(context.Context) (T, error)) (T, error) {
	if v, ok := c.client.Get(key); ok {
		return v, nil
	}
	return c.client.GetOrFetch(ctx, key, fetch)
}
