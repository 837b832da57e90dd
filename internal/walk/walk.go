// Package walk implements the synchronous traversal engine of spec
// §4.4: a depth-first, depth-bounded walk with a symlink-cycle guard,
// matcher testing, and predicate filtering, built the way terragrunt's
// own recursive config-discovery walk is structured — one frame struct
// carrying the state a single directory's expansion needs, recursed
// directly rather than through an explicit stack.
package walk

import (
	"os"
	"path"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/globtrail/globtrail/internal/cache"
	"github.com/globtrail/globtrail/internal/matcher"
	"github.com/globtrail/globtrail/internal/metacache"
	"github.com/globtrail/globtrail/internal/predicate"
	"github.com/globtrail/globtrail/internal/vfs"
	"github.com/globtrail/globtrail/internal/xerrors"
)

// Config carries the GlobOptions fields the walker needs, passed in
// rather than importing the root package (which would cycle back here).
type Config struct {
	FollowSymlinks bool
	MaxDepth       *uint32
	Predicates     predicate.Predicates
	Logger         *logrus.Entry
}

// Diagnostic is one non-aborting per-entry error collected into the
// tail list spec §4.4/§7 describes.
type Diagnostic struct {
	Path string
	Err  error
}

// Result is glob_sync's return value: the matched paths plus any
// per-entry diagnostics that didn't abort the walk.
type Result struct {
	Paths       []string
	Diagnostics []Diagnostic
}

// Sync walks every root, testing each encountered path against
// patterns and filtering by predicate, and returns once every frame is
// exhausted (spec §4.4's termination condition).
func Sync(fsys vfs.FS, patterns *matcher.Patterns, cfg Config, roots []string, metaCache *cache.Cache[*metacache.Entry]) (*Result, error) {
	result := &Result{}

	var diagErrs *multierror.Error

	for _, root := range roots {
		info, err := fsys.Stat(root)
		if err != nil {
			return nil, xerrors.IO(root, err)
		}

		ancestors := map[vfs.DeviceInode]struct{}{
			vfs.IdentityOf(info, root): {},
		}

		w := &walker{
			fs:        fsys,
			patterns:  patterns,
			cfg:       cfg,
			metaCache: metaCache,
			root:      root,
			result:    result,
		}

		if cfg.MaxDepth != nil && *cfg.MaxDepth == 0 {
			if err := w.considerPath(root, "", info); err != nil {
				diagErrs = multierror.Append(diagErrs, err)
			}

			continue
		}

		if err := w.walkDir(root, "", 0, ancestors); err != nil {
			return nil, err
		}
	}

	result.Diagnostics = appendDiagnostics(result.Diagnostics, diagErrs)

	return result, nil
}

type walker struct {
	fs        vfs.FS
	patterns  *matcher.Patterns
	cfg       Config
	metaCache *cache.Cache[*metacache.Entry]
	root      string
	result    *Result
}

func (w *walker) walkDir(absDir, relDir string, depth uint32, ancestors map[vfs.DeviceInode]struct{}) error {
	entries, err := vfs.ReadDir(w.fs, absDir)
	if err != nil {
		w.result.Diagnostics = append(w.result.Diagnostics, Diagnostic{Path: absDir, Err: xerrors.IO(absDir, err)})
		return nil
	}

	for _, entry := range entries {
		entryAbs := path.Join(absDir, entry.Name())
		entryRel := joinRel(relDir, entry.Name())

		if err := w.considerPath(entryAbs, entryRel, entry); err != nil {
			w.result.Diagnostics = append(w.result.Diagnostics, Diagnostic{Path: entryAbs, Err: err})
			continue
		}

		shouldRecurse := entry.IsDir()
		if !shouldRecurse && entry.Mode()&os.ModeSymlink != 0 && w.cfg.FollowSymlinks {
			target, err := w.fs.Stat(entryAbs) // follows the link
			if err == nil && target.IsDir() {
				shouldRecurse = true
			}
		}

		if !shouldRecurse {
			continue
		}

		if w.cfg.MaxDepth != nil && depth+1 > *w.cfg.MaxDepth {
			continue
		}

		childInfo, statErr := w.fs.Stat(entryAbs)
		if statErr != nil {
			w.result.Diagnostics = append(w.result.Diagnostics, Diagnostic{Path: entryAbs, Err: xerrors.IO(entryAbs, statErr)})
			continue
		}

		identity := vfs.IdentityOf(childInfo, entryAbs)
		if _, seen := ancestors[identity]; seen {
			if w.cfg.Logger != nil {
				w.cfg.Logger.Debugf("skipping %s: symlink cycle detected", entryAbs)
			}

			continue
		}

		childAncestors := make(map[vfs.DeviceInode]struct{}, len(ancestors)+1)
		for k := range ancestors {
			childAncestors[k] = struct{}{}
		}

		childAncestors[identity] = struct{}{}

		if err := w.walkDir(entryAbs, entryRel, depth+1, childAncestors); err != nil {
			return err
		}
	}

	return nil
}

// considerPath tests one candidate against patterns and, if it matches,
// applies predicates before appending it to the result.
func (w *walker) considerPath(absPath, relPath string, _ os.FileInfo) error {
	testPath := relPath
	if testPath == "" {
		testPath = "."
	}

	if !w.patterns.Match(testPath) {
		return nil
	}

	if isZeroPredicates(w.cfg.Predicates) {
		w.result.Paths = append(w.result.Paths, absPath)
		return nil
	}

	followForMeta := w.cfg.FollowSymlinks
	if w.cfg.Predicates.FollowSymlinks != nil {
		followForMeta = *w.cfg.Predicates.FollowSymlinks
	}

	entry, err := metacache.Fetch(w.fs, w.metaCache, absPath, followForMeta)
	if err != nil {
		return xerrors.IO(absPath, err)
	}

	if entry.NotFound {
		return nil
	}

	if !predicate.Evaluate(w.cfg.Predicates, entry.Meta) {
		return nil
	}

	w.result.Paths = append(w.result.Paths, absPath)

	return nil
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

func appendDiagnostics(existing []Diagnostic, merr *multierror.Error) []Diagnostic {
	if merr == nil {
		return existing
	}

	for _, e := range merr.Errors {
		existing = append(existing, Diagnostic{Err: e})
	}

	return existing
}
