// Package cache provides the two LRU+TTL caches spec §4.6 requires:
// a compiled-matcher cache and a filesystem-metadata cache. Both share
// one generic implementation, the way terragrunt's cache.GenericCache[T]
// parameterizes a single cache body over its value type — extended here
// with TTL expiry, strict LRU eviction, and hit/miss/eviction/expiration
// counters. The key index is a puzpuzpuz/xsync.MapOf, so a lookup that
// misses never takes the mutex; hits and writes take the mutex that
// guards the LRU list.
package cache

import (
	"container/list"
	"sync"
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

// DefaultCapacity and DefaultTTL match spec §4.6's stated defaults.
const (
	DefaultCapacity = 1024
	DefaultTTL      = 5 * time.Minute
)

// Metrics are monotone-within-process counters, per spec §4.6.
type Metrics struct {
	Hits        atomic.Uint64
	Misses      atomic.Uint64
	Evictions   atomic.Uint64
	Expirations atomic.Uint64
}

// Snapshot is a point-in-time copy of Metrics suitable for returning
// from the public cache_metrics() API.
type Snapshot struct {
	Hits        uint64
	Misses      uint64
	Evictions   uint64
	Expirations uint64
}

func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		Hits:        m.Hits.Load(),
		Misses:      m.Misses.Load(),
		Evictions:   m.Evictions.Load(),
		Expirations: m.Expirations.Load(),
	}
}

type entry[V any] struct {
	key       string
	value     V
	expiresAt time.Time
	elem      *list.Element
}

// Cache is an LRU cache with per-entry TTL, bounded at Capacity. The
// zero value is not usable; construct with New.
type Cache[V any] struct {
	Capacity int
	TTL      time.Duration

	Metrics Metrics

	mu      sync.Mutex
	order   *list.List // front = most recently used
	entries *xsync.MapOf[string, *entry[V]]
}

// New creates a Cache. capacity <= 0 and ttl <= 0 fall back to the
// package defaults.
func New[V any](capacity int, ttl time.Duration) *Cache[V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Cache[V]{
		Capacity: capacity,
		TTL:      ttl,
		order:    list.New(),
		entries:  xsync.NewMapOf[string, *entry[V]](),
	}
}

// Get returns the cached value for key. An expired entry is treated as
// a miss and evicted, per spec §4.6 ("TTL check occurs on read").
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V

	e, ok := c.entries.Load(key)
	if !ok {
		c.Metrics.Misses.Add(1)
		return zero, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if time.Now().After(e.expiresAt) {
		c.removeLocked(e)
		c.Metrics.Expirations.Add(1)
		c.Metrics.Misses.Add(1)

		return zero, false
	}

	c.order.MoveToFront(e.elem)
	c.Metrics.Hits.Add(1)

	return e.value, true
}

// Put inserts or replaces key's value, evicting the least-recently-used
// entry if Capacity is exceeded. Values are never mutated in place —
// Put always installs a fresh entry, matching spec §3's "replace-on-
// refresh" metadata-entry lifecycle.
func (c *Cache[V]) Put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.entries.Load(key); ok {
		c.order.Remove(existing.elem)
		c.entries.Delete(key)
	}

	e := &entry[V]{key: key, value: value, expiresAt: time.Now().Add(c.TTL)}
	e.elem = c.order.PushFront(key)
	c.entries.Store(key, e)

	for c.order.Len() > c.Capacity {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}

		oldKey, _ := oldest.Value.(string)
		if victim, ok := c.entries.Load(oldKey); ok {
			c.removeLocked(victim)
			c.Metrics.Evictions.Add(1)
		}
	}
}

// removeLocked drops e from both the index map and the LRU list. Caller
// must hold c.mu.
func (c *Cache[V]) removeLocked(e *entry[V]) {
	c.order.Remove(e.elem)
	c.entries.Delete(e.key)
}

// Len reports the current entry count, for cache-bound tests.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.order.Len()
}

// Reset clears all entries and zeroes metrics. Matches spec §9's
// "reset hook" design note for idempotent test fixtures.
func (c *Cache[V]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.order.Init()
	c.entries = xsync.NewMapOf[string, *entry[V]]()
	c.Metrics.Hits.Store(0)
	c.Metrics.Misses.Store(0)
	c.Metrics.Evictions.Store(0)
	c.Metrics.Expirations.Store(0)
}
