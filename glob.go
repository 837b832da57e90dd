// Package globtrail compiles human-authored glob/brace/extglob/regex
// patterns into an efficient matcher and walks filesystem trees to find
// the paths that satisfy them, both as a materialized batch
// (GlobSync) and as a cancellable, back-pressured stream (GlobStream).
package globtrail

import (
	"context"
	"sync"

	"github.com/globtrail/globtrail/internal/cache"
	"github.com/globtrail/globtrail/internal/matcher"
	"github.com/globtrail/globtrail/internal/metacache"
	"github.com/globtrail/globtrail/internal/stream"
	"github.com/globtrail/globtrail/internal/vfs"
	"github.com/globtrail/globtrail/internal/walk"
)

// Patterns is the immutable, compiled result of CompileMany, safe to
// share read-only across every traversal worker (spec §3).
type Patterns = matcher.Patterns

// FS is the filesystem abstraction both traversal engines walk. Pass
// vfs.NewOSFS() for the real filesystem or vfs.NewMemMapFS() for an
// in-memory fixture.
type FS = vfs.FS

func NewOSFS() FS     { return vfs.NewOSFS() }
func NewMemMapFS() FS { return vfs.NewMemMapFS() }

var (
	globalMatcherCache  = sync.OnceValue(func() *cache.Cache[*matcher.Matcher] { return cache.New[*matcher.Matcher](0, 0) })
	globalMetadataCache = sync.OnceValue(func() *cache.Cache[*metacache.Entry] { return cache.New[*metacache.Entry](0, 0) })
)

func matcherCache(o GlobOptions) *cache.Cache[*matcher.Matcher] {
	if o.MatcherCacheCapacity == 0 && o.MatcherCacheTTL == 0 {
		return globalMatcherCache()
	}

	return cache.New[*matcher.Matcher](o.MatcherCacheCapacity, o.MatcherCacheTTL)
}

func metadataCache(o GlobOptions) *cache.Cache[*metacache.Entry] {
	if o.MetadataCacheCapacity == 0 && o.MetadataCacheTTL == 0 {
		return globalMetadataCache()
	}

	return cache.New[*metacache.Entry](o.MetadataCacheCapacity, o.MetadataCacheTTL)
}

// ResetCaches clears the process-wide matcher and metadata caches.
// Exposed for tests that need a clean slate between cases, per spec
// §9's "reset hook" design note.
func ResetCaches() {
	globalMatcherCache().Reset()
	globalMetadataCache().Reset()
}

// CacheMetricsReport is cache_metrics()'s return shape (spec §6).
type CacheMetricsReport struct {
	Matcher  cache.Snapshot
	Metadata cache.Snapshot
}

// CacheMetrics reports hits/misses/evictions/expirations for both
// process-wide caches.
func CacheMetrics() CacheMetricsReport {
	return CacheMetricsReport{
		Matcher:  globalMatcherCache().Metrics.Snapshot(),
		Metadata: globalMetadataCache().Metrics.Snapshot(),
	}
}

// CompileMany implements spec §4.3/§6's compile_many: validate,
// brace-expand, classify, compile (consulting the matcher cache),
// assemble.
func CompileMany(patterns []string, opts GlobOptions) (*Patterns, error) {
	cfg := matcher.CompileConfig{
		CaseSensitive:       opts.CaseSensitive,
		RejectPathTraversal: opts.RejectPathTraversal,
		BraceLimits:         opts.BraceLimits,
	}

	return matcher.CompileMany(patterns, cfg, matcherCache(opts))
}

// Diagnostic is one non-aborting per-entry error from GlobSync.
type Diagnostic = walk.Diagnostic

// GlobSyncResult is GlobSync's return value.
type GlobSyncResult struct {
	Paths       []string
	Diagnostics []Diagnostic
}

// GlobSync implements spec §4.4/§6's glob_sync: a depth-first,
// depth-bounded, symlink-cycle-safe walk of roots, returning every
// matching path once all frames are exhausted.
func GlobSync(fsys FS, patterns *Patterns, opts GlobOptions, roots []string) (*GlobSyncResult, error) {
	cfg := walk.Config{
		FollowSymlinks: opts.FollowSymlinks,
		MaxDepth:       opts.MaxDepth,
		Predicates:     opts.Predicates,
		Logger:         opts.Logger,
	}

	res, err := walk.Sync(fsys, patterns, cfg, roots, metadataCache(opts))
	if err != nil {
		return nil, err
	}

	return &GlobSyncResult{Paths: res.Paths, Diagnostics: res.Diagnostics}, nil
}

// StreamEvent is one item of GlobStream's sequence<Result<Path>>.
type StreamEvent = stream.Event

// StreamHandle lets a consumer cancel an in-flight GlobStream call.
type StreamHandle = stream.Handle

// GlobStream implements spec §4.5/§6's glob_stream: a bounded-
// concurrency, back-pressured, cancellable stream of matches. No
// result is produced until the consumer receives from the returned
// channel.
func GlobStream(ctx context.Context, fsys FS, patterns *Patterns, opts GlobOptions, roots []string) (*StreamHandle, <-chan StreamEvent) {
	cfg := stream.Config{
		FollowSymlinks: opts.FollowSymlinks,
		MaxDepth:       opts.MaxDepth,
		MaxInflight:    int64(opts.MaxInflight),
		Predicates:     opts.Predicates,
		Logger:         opts.Logger,
	}

	return stream.Start(ctx, fsys, patterns, cfg, roots, metadataCache(opts))
}
