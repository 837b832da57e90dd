package metacache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/globtrail/globtrail/internal/cache"
	"github.com/globtrail/globtrail/internal/predicate"
	"github.com/globtrail/globtrail/internal/vfs"
)

func TestFetchPopulatesCacheOnMiss(t *testing.T) {
	t.Parallel()

	fsys := vfs.NewMemMapFS()
	require.NoError(t, vfs.WriteFile(fsys, "a.txt", []byte("hello"), 0o644))

	c := cache.New[*Entry](0, 0)

	entry, err := Fetch(fsys, c, "a.txt", true)
	require.NoError(t, err)
	assert.False(t, entry.NotFound)
	assert.Equal(t, int64(5), entry.Meta.Size)
	assert.Equal(t, predicate.File, entry.Meta.Type)

	snap := c.Metrics.Snapshot()
	assert.Equal(t, uint64(1), snap.Misses)

	_, err = Fetch(fsys, c, "a.txt", true)
	require.NoError(t, err)

	snap = c.Metrics.Snapshot()
	assert.Equal(t, uint64(1), snap.Hits)
}

func TestFetchNotFoundIsCachedNegatively(t *testing.T) {
	t.Parallel()

	fsys := vfs.NewMemMapFS()
	c := cache.New[*Entry](0, 0)

	entry, err := Fetch(fsys, c, "missing.txt", true)
	require.NoError(t, err)
	assert.True(t, entry.NotFound)

	entry2, err := Fetch(fsys, c, "missing.txt", true)
	require.NoError(t, err)
	assert.True(t, entry2.NotFound)

	snap := c.Metrics.Snapshot()
	assert.Equal(t, uint64(1), snap.Hits)
}

func TestFetchDistinguishesFollowVsLstat(t *testing.T) {
	t.Parallel()

	fsys := vfs.NewMemMapFS()
	require.NoError(t, vfs.WriteFile(fsys, "a.txt", []byte("hi"), 0o644))

	c := cache.New[*Entry](0, 0)

	_, err := Fetch(fsys, c, "a.txt", true)
	require.NoError(t, err)
	_, err = Fetch(fsys, c, "a.txt", false)
	require.NoError(t, err)

	assert.Equal(t, 2, c.Len())
}
