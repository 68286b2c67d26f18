//go:build darwin

package splendir

import (
	"os"
	"syscall"
	"time"
)

func fileTimes(path string, info os.FileInfo) (created, accessed time.Time) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return time.Time{}, time.Time{}
	}
	created = time.Unix(stat.Birthtimespec.Sec, stat.Birthtimespec.Nsec)
	accessed = time.Unix(stat.Atimespec.Sec, stat.Atimespec.Nsec)
	return created, accessed
}
