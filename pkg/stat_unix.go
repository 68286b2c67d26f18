//go:build unix

package splendir

import (
	"os"
	"syscall"
)

// deviceID returns the id of the device holding the file
func deviceID(info os.FileInfo) (uint64, bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, false
	}
	return uint64(stat.Dev), true
}
