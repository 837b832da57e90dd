package globtrail

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/globtrail/globtrail/internal/vfs"
)

func buildFixture(t *testing.T) FS {
	t.Helper()

	fsys := NewMemMapFS()
	files := []string{
		"root/a.go",
		"root/b.txt",
		"root/sub/c.go",
		"root/sub/deeper/d.go",
	}

	for _, f := range files {
		require.NoError(t, vfs.WriteFile(fsys, f, []byte("hello"), 0o644))
	}

	return fsys
}

func TestCompileManyAndGlobSyncEndToEnd(t *testing.T) {
	t.Parallel()

	fsys := buildFixture(t)

	opts, err := NewGlobOptions()
	require.NoError(t, err)

	patterns, err := CompileMany([]string{"**/*.go"}, opts)
	require.NoError(t, err)

	res, err := GlobSync(fsys, patterns, opts, []string{"root"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"root/a.go", "root/sub/c.go", "root/sub/deeper/d.go"}, res.Paths)
}

func TestGlobSyncAppliesPredicates(t *testing.T) {
	t.Parallel()

	fsys := buildFixture(t)

	minSize := int64(10)

	opts, err := NewGlobOptions(WithPredicates(Predicates{MinSize: &minSize}))
	require.NoError(t, err)

	patterns, err := CompileMany([]string{"**/*.go"}, opts)
	require.NoError(t, err)

	res, err := GlobSync(fsys, patterns, opts, []string{"root"})
	require.NoError(t, err)
	assert.Empty(t, res.Paths)
}

func TestGlobStreamEndToEnd(t *testing.T) {
	t.Parallel()

	fsys := buildFixture(t)

	opts, err := NewGlobOptions(WithMaxInflight(4))
	require.NoError(t, err)

	patterns, err := CompileMany([]string{"**/*.go"}, opts)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, ch := GlobStream(ctx, fsys, patterns, opts, []string{"root"})

	var paths []string
	for ev := range ch {
		require.NoError(t, ev.Err)
		paths = append(paths, ev.Path)
	}

	assert.ElementsMatch(t, []string{"root/a.go", "root/sub/c.go", "root/sub/deeper/d.go"}, paths)
}

// Not marked t.Parallel(): it asserts exact counts on the process-wide
// cache singletons, which parallel tests in this package also touch.
func TestCacheMetricsReportsBothCaches(t *testing.T) {
	ResetCaches()

	_, err := CompileMany([]string{"*.go"}, mustOpts(t))
	require.NoError(t, err)

	m := CacheMetrics()
	assert.Equal(t, uint64(1), m.Matcher.Misses)
	assert.Equal(t, uint64(0), m.Metadata.Misses)
}

func mustOpts(t *testing.T) GlobOptions {
	t.Helper()

	o, err := NewGlobOptions()
	require.NoError(t, err)

	return o
}
