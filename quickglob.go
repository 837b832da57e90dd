package globtrail

import (
	"path/filepath"

	"github.com/mattn/go-zglob"
)

// QuickGlob is the single-shot convenience wrapper spec §3's "common
// case" calls for: one root, one pattern, default options, no
// predicates, no streaming. It bypasses compile_many/glob_sync
// entirely and defers straight to mattn/go-zglob, which already
// implements "**" recursive matching against the real OS filesystem
// with no caching or cancellation overhead — the right tool when a
// caller just wants "all the *.go files under here" without building a
// GlobOptions.
func QuickGlob(root, pattern string) ([]string, error) {
	return zglob.Glob(filepath.Join(root, pattern))
}
