//go:build windows

package splendir

import (
	"os"
	"syscall"
	"time"
)

func fileTimes(path string, info os.FileInfo) (created, accessed time.Time) {
	attrs, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return time.Time{}, time.Time{}
	}
	created = time.Unix(0, attrs.CreationTime.Nanoseconds())
	accessed = time.Unix(0, attrs.LastAccessTime.Nanoseconds())
	return created, accessed
}
