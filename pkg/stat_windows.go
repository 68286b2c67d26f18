//go:build windows

package splendir

import "os"

// deviceID is not derivable from os.FileInfo on Windows; the mount-boundary
// rule is skipped there.
func deviceID(info os.FileInfo) (uint64, bool) {
	return 0, false
}
