//go:build linux

package splendir

import (
	"os"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// fileTimes returns creation and access times. Creation time needs statx
// and a filesystem that records it; otherwise it is the zero time.
func fileTimes(path string, info os.FileInfo) (created, accessed time.Time) {
	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		accessed = time.Unix(int64(stat.Atim.Sec), int64(stat.Atim.Nsec))
	}

	var stx unix.Statx_t
	if err := unix.Statx(unix.AT_FDCWD, path, 0, unix.STATX_BTIME, &stx); err == nil {
		if stx.Mask&unix.STATX_BTIME != 0 {
			created = time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec))
		}
	}
	return created, accessed
}
