// Package stream implements the bounded-concurrency streaming traversal
// engine of spec §4.5: at most max_inflight directory expansions active
// at once, results handed to the consumer through a back-pressured
// channel, cancellable at every suspension point. Concurrency is capped
// with golang.org/x/sync/semaphore and fanned out with
// golang.org/x/sync/errgroup, the same combination terragrunt reaches
// for whenever it needs bounded parallel work with first-error
// cancellation (its run-all and discovery phases).
package stream

import (
	"context"
	"os"
	"path"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/globtrail/globtrail/internal/cache"
	"github.com/globtrail/globtrail/internal/matcher"
	"github.com/globtrail/globtrail/internal/metacache"
	"github.com/globtrail/globtrail/internal/predicate"
	"github.com/globtrail/globtrail/internal/vfs"
	"github.com/globtrail/globtrail/internal/xerrors"
)

// Config mirrors walk.Config; kept as a separate type so internal/walk
// and internal/stream don't need to import one another.
type Config struct {
	FollowSymlinks bool
	MaxDepth       *uint32
	MaxInflight    int64
	Predicates     predicate.Predicates
	Logger         *logrus.Entry
}

// Event is one item of the lazily-delivered sequence<Result<Path>> of
// spec §4.5. Exactly one of Path/Err is set.
type Event struct {
	Path string
	Err  error
}

// Handle identifies one glob_stream call for log correlation — the
// streaming analogue of a request ID, grounded in the same "tag this
// unit of concurrent work" role uuid.New() plays in the teacher's
// provider-cache locking.
type Handle struct {
	ID     uuid.UUID
	Cancel context.CancelFunc
}

// Start launches the streaming walk and returns a Handle plus a
// receive-only channel of Events. Closing (cancelling) the handle stops
// further directory reads promptly; in-flight I/O is allowed to finish
// but its result is discarded, per spec §4.5's cancellation contract.
// The channel is unbuffered, so a paused consumer directly back-
// pressures every worker at its send.
func Start(ctx context.Context, fsys vfs.FS, patterns *matcher.Patterns, cfg Config, roots []string, metaCache *cache.Cache[*metacache.Entry]) (*Handle, <-chan Event) {
	if cfg.MaxInflight <= 0 {
		cfg.MaxInflight = 1
	}

	ctx, cancel := context.WithCancel(ctx)
	out := make(chan Event)
	sem := semaphore.NewWeighted(cfg.MaxInflight)

	go func() {
		defer close(out)

		g, gctx := errgroup.WithContext(ctx)

		s := &streamer{
			fs:        fsys,
			patterns:  patterns,
			cfg:       cfg,
			metaCache: metaCache,
			sem:       sem,
			out:       out,
			group:     g,
		}

		for _, root := range roots {
			root := root

			info, err := fsys.Stat(root)
			if err != nil {
				// A root-level error terminates the stream (spec §4.5):
				// emit it, then cancel so any sibling root goroutines
				// already spawned quiesce instead of producing more.
				s.emit(gctx, Event{Err: xerrors.IO(root, err)})
				cancel()

				break
			}

			if cfg.MaxDepth != nil && *cfg.MaxDepth == 0 {
				// Max depth 0: the root itself is the only candidate.
				g.Go(func() error {
					s.considerPath(gctx, root, "")
					return nil
				})

				continue
			}

			ancestors := map[vfs.DeviceInode]struct{}{
				vfs.IdentityOf(info, root): {},
			}

			g.Go(func() error {
				return s.walkDir(gctx, root, "", 0, ancestors)
			})
		}

		_ = g.Wait()
	}()

	return &Handle{ID: uuid.New(), Cancel: cancel}, out
}

type streamer struct {
	fs        vfs.FS
	patterns  *matcher.Patterns
	cfg       Config
	metaCache *cache.Cache[*metacache.Entry]
	sem       *semaphore.Weighted
	out       chan Event
	group     *errgroup.Group
}

// emit hands one Event to the consumer, honoring cancellation as a
// third suspension point alongside directory/metadata I/O (spec §4.5).
func (s *streamer) emit(ctx context.Context, ev Event) {
	select {
	case s.out <- ev:
	case <-ctx.Done():
	}
}

func (s *streamer) walkDir(ctx context.Context, absDir, relDir string, depth uint32, ancestors map[vfs.DeviceInode]struct{}) error {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil //nolint:nilerr // cancellation, not a root-level failure
	}

	entries, err := vfs.ReadDir(s.fs, absDir)
	s.sem.Release(1)

	if err != nil {
		s.emit(ctx, Event{Err: xerrors.IO(absDir, err)})
		return nil
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			return nil
		}

		entryAbs := path.Join(absDir, entry.Name())
		entryRel := joinRel(relDir, entry.Name())

		s.considerPath(ctx, entryAbs, entryRel)

		shouldRecurse := entry.IsDir()
		if !shouldRecurse && entry.Mode()&os.ModeSymlink != 0 && s.cfg.FollowSymlinks {
			if target, err := s.fs.Stat(entryAbs); err == nil && target.IsDir() {
				shouldRecurse = true
			}
		}

		if !shouldRecurse {
			continue
		}

		if s.cfg.MaxDepth != nil && depth+1 > *s.cfg.MaxDepth {
			continue
		}

		childInfo, statErr := s.fs.Stat(entryAbs)
		if statErr != nil {
			s.emit(ctx, Event{Err: xerrors.IO(entryAbs, statErr)})
			continue
		}

		identity := vfs.IdentityOf(childInfo, entryAbs)
		if _, seen := ancestors[identity]; seen {
			if s.cfg.Logger != nil {
				s.cfg.Logger.Debugf("skipping %s: symlink cycle detected", entryAbs)
			}

			continue
		}

		childAncestors := make(map[vfs.DeviceInode]struct{}, len(ancestors)+1)
		for k := range ancestors {
			childAncestors[k] = struct{}{}
		}

		childAncestors[identity] = struct{}{}

		entryAbsCopy, entryRelCopy, depthCopy := entryAbs, entryRel, depth+1

		s.group.Go(func() error {
			return s.walkDir(ctx, entryAbsCopy, entryRelCopy, depthCopy, childAncestors)
		})
	}

	return nil
}

func (s *streamer) considerPath(ctx context.Context, absPath, relPath string) {
	testPath := relPath
	if testPath == "" {
		testPath = "."
	}

	if !s.patterns.Match(testPath) {
		return
	}

	if isZeroPredicates(s.cfg.Predicates) {
		s.emit(ctx, Event{Path: absPath})
		return
	}

	followForMeta := s.cfg.FollowSymlinks
	if s.cfg.Predicates.FollowSymlinks != nil {
		followForMeta = *s.cfg.Predicates.FollowSymlinks
	}

	entry, err := metacache.Fetch(s.fs, s.metaCache, absPath, followForMeta)
	if err != nil {
		s.emit(ctx, Event{Err: xerrors.IO(absPath, err)})
		return
	}

	if entry.NotFound {
		return
	}

	if !predicate.Evaluate(s.cfg.Predicates, entry.Meta) {
		return
	}

	s.emit(ctx, Event{Path: absPath})
}

func isZeroPredicates(p predicate.Predicates) bool {
	return p.MinSize == nil && p.MaxSize == nil && p.FileType == predicate.Any &&
		p.MTimeAfter == nil && p.MTimeBefore == nil && p.CTimeAfter == nil && p.CTimeBefore == nil
}

func joinRel(relDir, name string) string {
	if relDir == "" {
		return name
	}

	return relDir + "/" + name
}
