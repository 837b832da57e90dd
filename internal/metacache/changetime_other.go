//go:build !linux

package metacache

import "time"

// Non-Linux platforms (including Windows, and any other unix whose
// syscall.Stat_t field layout isn't mirrored here) report ctime as
// unavailable; predicate.Evaluate treats that as a non-match against
// any ctime predicate, per spec §4.7.
func changeTimeFromSys(sys any) (time.Time, bool) {
	return time.Time{}, false
}
