// Package metacache is the metadata half of spec §4.6's cache layer:
// fetch-on-miss filesystem metadata, keyed by the path as given (plus
// whether symlinks are followed), with
// explicit negative caching for "not found" so a repeated lookup for a
// missing path doesn't re-stat the filesystem.
package metacache

import (
	"os"
	"time"

	"github.com/globtrail/globtrail/internal/cache"
	"github.com/globtrail/globtrail/internal/predicate"
	"github.com/globtrail/globtrail/internal/vfs"
)

// Entry is the cached value: either metadata or an explicit NotFound
// marker, per spec §4.6 ("value = metadata entry or NotFound").
type Entry struct {
	Meta     predicate.Metadata
	NotFound bool
}

// Fetch resolves path's metadata through cache, populating it on miss.
// followSymlinks controls whether the fetch resolves through a
// trailing symlink (Stat) or reports the link itself (Lstat) — this is
// the predicate-local override spec §4.7/§9 keeps independent from the
// traversal-level follow_symlinks knob.
func Fetch(fsys vfs.FS, c *cache.Cache[*Entry], path string, followSymlinks bool) (*Entry, error) {
	key := cacheKey(path, followSymlinks)

	if c != nil {
		if e, ok := c.Get(key); ok {
			return e, nil
		}
	}

	var (
		info os.FileInfo
		err  error
	)

	if followSymlinks {
		info, err = fsys.Stat(path)
	} else {
		info, err = vfs.Lstat(fsys, path)
	}

	var entry *Entry

	switch {
	case err != nil && os.IsNotExist(err):
		entry = &Entry{NotFound: true}
	case err != nil:
		return nil, err
	default:
		entry = &Entry{Meta: toMetadata(info)}
	}

	if c != nil {
		c.Put(key, entry)
	}

	return entry, nil
}

func toMetadata(info os.FileInfo) predicate.Metadata {
	meta := predicate.Metadata{
		Size:    info.Size(),
		Type:    predicate.FileTypeOf(info),
		ModTime: info.ModTime(),
	}

	if ct, ok := changeTime(info); ok {
		meta.HasChangeTime = true
		meta.ChangeTime = ct
	}

	return meta
}

// changeTime reports the platform ctime when the underlying FileInfo
// exposes it (real OS filesystems do, via syscall.Stat_t); in-memory
// and other synthetic filesystems fall back to "unavailable", which
// predicate.Evaluate already treats as a non-match against any ctime
// predicate per spec §4.7.
func changeTime(info os.FileInfo) (time.Time, bool) {
	sys := info.Sys()
	if sys == nil {
		return time.Time{}, false
	}

	return changeTimeFromSys(sys)
}

func cacheKey(path string, followSymlinks bool) string {
	if followSymlinks {
		return "f:" + path
	}

	return "l:" + path
}
