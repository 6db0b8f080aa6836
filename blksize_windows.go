package shred

import (
	"os"
)

func preferredBlockSize(os.FileInfo) int {
	return 0
}
