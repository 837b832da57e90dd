//go:build windows

package vfs

// Windows' os.FileInfo.Sys() doesn't expose a stable device+inode pair
// through the standard library without extra syscalls; fall back to
// the synthetic path-derived identity in IdentityOf.
func deviceInodeFromSys(sys any) (DeviceInode, bool) {
	return DeviceInode{}, false
}
