// Package memoize provides an unbounded memoizing cache and a function wrapper built on it.
//
// A Cache maps call keys to previously computed values. Values are only recomputed on a miss,
// or after the entry has been removed with Invalidate. A cacheability predicate can keep
// selected results (for example nil or empty ones) out of the cache, so the next call with
// the same arguments computes again.
package memoize

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/isometry/gh-issue-bridge/internal/helpers"
	"github.com/isometry/gh-issue-bridge/internal/metrics"
)

// Option configures a Cache.
type Option[V any] func(*Cache[V])

// WithName sets the name used to label the cache metrics.
func WithName[V any](name string) Option[V] {
	return func(c *Cache[V]) {
		c.name = name
	}
}

// WithLogger sets the logger of the cache.
func WithLogger[V any](logger *slog.Logger) Option[V] {
	return func(c *Cache[V]) {
		c.logger = logger
	}
}

// WithCacheable restricts storage to values for which fn returns true.
// Repeated use combines the predicates; all of them must accept a value.
func WithCacheable[V any](fn func(V) bool) Option[V] {
	return func(c *Cache[V]) {
		prev := c.cacheable
		if prev == nil {
			c.cacheable = fn
			return
		}
		c.cacheable = func(v V) bool {
			return prev(v) && fn(v)
		}
	}
}

// Except never stores results equal to one of values.
func Except[V comparable](values ...V) Option[V] {
	excluded := slices.Clone(values)
	return WithCacheable(func(v V) bool {
		return !slices.Contains(excluded, v)
	})
}

// Cache is an unbounded, never-evicting store of computed values.
type Cache[V any] struct {
	mu        sync.Mutex
	name      string
	entries   map[Key]V
	cacheable func(V) bool
	logger    *slog.Logger
}

// New returns an empty Cache.
func New[V any](opts ...Option[V]) *Cache[V] {
	_inst := &Cache[V]{entries: make(map[Key]V)}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.name == "" {
		_inst.name = "default"
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	_inst.logger = _inst.logger.With(slog.String("cache", _inst.name))
	return _inst
}

// Get returns the value stored under key, if any.
func (c *Cache[V]) Get(key Key) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

// GetOrCompute returns the value stored under key. On a miss it calls compute and stores the
// result unless compute fails or the result is not cacheable.
// compute runs without holding the cache lock.
func (c *Cache[V]) GetOrCompute(key Key, compute func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		metrics.CacheHits.WithLabelValues(c.name).Inc()
		return v, nil
	}
	metrics.CacheMisses.WithLabelValues(c.name).Inc()

	v, err := compute()
	if err != nil {
		var zero V
		return zero, err
	}
	if c.cacheable != nil && !c.cacheable(v) {
		c.logger.Debug("result not cacheable. skipping store...")
		return v, nil
	}

	c.mu.Lock()
	c.entries[key] = v
	c.mu.Unlock()
	return v, nil
}

// Invalidate removes the entry stored under key and reports whether one was present.
func (c *Cache[V]) Invalidate(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; !ok {
		return false
	}
	delete(c.entries, key)
	metrics.CacheInvalidations.WithLabelValues(c.name).Inc()
	return true
}

// Len returns the number of stored entries.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Name returns the cache name.
func (c *Cache[V]) Name() string {
	return c.name
}
