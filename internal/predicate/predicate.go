// Package predicate evaluates the size/type/mtime/ctime filters spec
// §4.7 describes, short-circuiting on the first failing predicate.
package predicate

import (
	"os"
	"time"
)

// FileType mirrors spec §3's Predicates.file_type enumeration.
type FileType int

const (
	Any FileType = iota
	File
	Directory
	Symlink
)

// Metadata is the subset of a cached metadata entry the filter needs.
// Ctime and the "timestamp unavailable" cases are represented
// explicitly since many filesystems don't report a true creation time.
type Metadata struct {
	Size            int64
	Type            FileType
	ModTime         time.Time
	ChangeTime      time.Time
	HasChangeTime   bool
	IsSymlinkTarget bool
}

// Predicates is an immutable filter specification, part of GlobOptions.
type Predicates struct {
	MinSize        *int64
	MaxSize        *int64
	FileType       FileType
	MTimeAfter     *time.Time
	MTimeBefore    *time.Time
	CTimeAfter     *time.Time
	CTimeBefore    *time.Time
	FollowSymlinks *bool // predicate-local override, independent of GlobOptions.FollowSymlinks
}

// Evaluate reports whether meta satisfies p, per spec §4.7: "Time
// comparisons use the metadata's reported instant; files with
// unavailable timestamps match only when the predicate is absent."
func Evaluate(p Predicates, meta Metadata) bool {
	if p.MinSize != nil && meta.Size < *p.MinSize {
		return false
	}

	if p.MaxSize != nil && meta.Size > *p.MaxSize {
		return false
	}

	if p.FileType != Any && meta.Type != p.FileType {
		return false
	}

	if p.MTimeAfter != nil && !meta.ModTime.After(*p.MTimeAfter) {
		return false
	}

	if p.MTimeBefore != nil && !meta.ModTime.Before(*p.MTimeBefore) {
		return false
	}

	if p.CTimeAfter != nil {
		if !meta.HasChangeTime || !meta.ChangeTime.After(*p.CTimeAfter) {
			return false
		}
	}

	if p.CTimeBefore != nil {
		if !meta.HasChangeTime || !meta.ChangeTime.Before(*p.CTimeBefore) {
			return false
		}
	}

	return true
}

// FileTypeOf classifies an os.FileInfo the way Predicates.FileType
// expects, using the raw (unfollowed) mode bits.
func FileTypeOf(info os.FileInfo) FileType {
	switch {
	case info.Mode()&os.ModeSymlink != 0:
		return Symlink
	case info.IsDir():
		return Directory
	default:
		return File
	}
}
