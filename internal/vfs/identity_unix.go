//go:build !windows

package vfs

import "syscall"

func deviceInodeFromSys(sys any) (DeviceInode, bool) {
	st, ok := sys.(*syscall.Stat_t)
	if !ok {
		return DeviceInode{}, false
	}

	return DeviceInode{Device: uint64(st.Dev), Inode: st.Ino}, true
}
