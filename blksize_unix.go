//go:build !windows
// +build !windows

package shred

import (
	"os"
	"syscall"
)

// preferredBlockSize returns the I/O block size reported by
// stat, or 0 when it is not available.
func preferredBlockSize(info os.FileInfo) int {
	if st, ok := info.Sys().(*syscall.Stat_t); ok && st.Blksize > 0 {
		return int(st.Blksize)
	}
	return 0
}
