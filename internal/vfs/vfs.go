// Package vfs wraps spf13/afero so the traversal engines depend on an
// interface instead of the os package directly, the same indirection
// terragrunt's own internal/vfs package uses to let walk-heavy code run
// against an in-memory filesystem in tests.
package vfs

import (
	"io/fs"
	"os"
	"time"

	"github.com/spf13/afero"
)

// FS is the filesystem surface the walker and streamer need.
type FS = afero.Fs

// NewOSFS returns an FS backed by the real operating system filesystem.
func NewOSFS() FS {
	return afero.NewOsFs()
}

// NewMemMapFS returns an in-memory FS, used by tests to build fixture
// trees without touching disk.
func NewMemMapFS() FS {
	return afero.NewMemMapFs()
}

// FileExists reports whether path exists on fs, following spec §3's
// "metadata entry ... fetched lazily" without yet fetching full
// metadata.
func FileExists(fsys FS, path string) (bool, error) {
	_, err := fsys.Stat(path)
	if err == nil {
		return true, nil
	}

	if os.IsNotExist(err) {
		return false, nil
	}

	return false, err
}

// WriteFile and ReadFile are thin afero.Util wrappers kept as named
// functions (rather than calling afero.WriteFile/afero.ReadFile at
// every call site) so fixture-building test code reads the same way
// whether the code under test is in this package or another.
func WriteFile(fsys FS, path string, data []byte, perm os.FileMode) error {
	return afero.WriteFile(fsys, path, data, perm)
}

func ReadFile(fsys FS, path string) ([]byte, error) {
	return afero.ReadFile(fsys, path)
}

// ReadDir lists dir's entries in the order the underlying filesystem
// returns them — spec §4.4/§4.5 require OS-enumeration order be
// preserved, never re-sorted.
func ReadDir(fsys FS, dir string) ([]os.FileInfo, error) {
	f, err := fsys.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return f.Readdir(-1)
}

// Lstat reports lstat-style metadata: afero.Lstater is implemented by
// OsFs and MemMapFs but not guaranteed by the FS interface in general,
// so this falls back to Stat (which follows symlinks) when the
// underlying FS doesn't support Lstat.
func Lstat(fsys FS, path string) (os.FileInfo, error) {
	if lstater, ok := fsys.(afero.Lstater); ok {
		info, _, err := lstater.LstatIfPossible(path)
		return info, err
	}

	return fsys.Stat(path)
}

// DeviceInode identifies a file for symlink-cycle detection (spec §3's
// "walk frame" invariant: "no device+inode appears twice on an active
// frame chain"). Filesystems that can't report device/inode (notably
// MemMapFs) get a synthetic identity derived from the resolved path,
// which is still stable and unique per distinct path within one walk.
type DeviceInode struct {
	Device uint64
	Inode  uint64
	path   string
}

func IdentityOf(info fs.FileInfo, resolvedPath string) DeviceInode {
	if sys := info.Sys(); sys != nil {
		if di, ok := deviceInodeFromSys(sys); ok {
			return di
		}
	}

	return DeviceInode{path: resolvedPath}
}

// ModTime/Size/IsDir are re-exported for readability at call sites that
// only need one field off an fs.FileInfo.
func ModTime(info os.FileInfo) time.Time { return info.ModTime() }
func Size(info os.FileInfo) int64        { return info.Size() }
func IsDir(info os.FileInfo) bool        { return info.IsDir() }
