package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheMissThenHit(t *testing.T) {
	t.Parallel()

	c := New[string](0, 0)

	_, found := c.Get("potato")
	assert.False(t, found)

	c.Put("potato", "carrot")

	value, found := c.Get("potato")
	require.True(t, found)
	assert.Equal(t, "carrot", value)

	snap := c.Metrics.Snapshot()
	assert.Equal(t, uint64(1), snap.Hits)
	assert.Equal(t, uint64(1), snap.Misses)
}

func TestCacheExpiration(t *testing.T) {
	t.Parallel()

	c := New[string](0, time.Millisecond)
	c.Put("potato", "carrot")

	time.Sleep(5 * time.Millisecond)

	_, found := c.Get("potato")
	assert.False(t, found)

	snap := c.Metrics.Snapshot()
	assert.Equal(t, uint64(1), snap.Expirations)
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	c := New[int](2, 0)
	c.Put("a", 1)
	c.Put("b", 2)

	// Touch "a" so "b" becomes the least-recently-used entry.
	_, _ = c.Get("a")

	c.Put("c", 3)

	_, found := c.Get("b")
	assert.False(t, found)

	_, found = c.Get("a")
	assert.True(t, found)

	_, found = c.Get("c")
	assert.True(t, found)

	snap := c.Metrics.Snapshot()
	assert.Equal(t, uint64(1), snap.Evictions)
}

func TestCacheReset(t *testing.T) {
	t.Parallel()

	c := New[string](0, 0)
	c.Put("k", "v")
	c.Get("k")

	c.Reset()

	assert.Equal(t, 0, c.Len())

	snap := c.Metrics.Snapshot()
	assert.Equal(t, uint64(0), snap.Hits)
	assert.Equal(t, uint64(0), snap.Misses)
	assert.Equal(t, uint64(0), snap.Evictions)
	assert.Equal(t, uint64(0), snap.Expirations)
}

func TestCacheDefaultsAppliedForNonPositiveArgs(t *testing.T) {
	t.Parallel()

	c := New[string](-1, -1)
	assert.Equal(t, DefaultCapacity, c.Capacity)
	assert.Equal(t, DefaultTTL, c.TTL)
}
