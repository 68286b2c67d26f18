//go:build !unix && !windows

package splendir

import "os"

func deviceID(info os.FileInfo) (uint64, bool) {
	return 0, false
}
