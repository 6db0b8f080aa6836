//go:build !windows
// +build !windows

package shred

import (
	"context"

	"github.com/spf13/afero"
	"golang.org/x/sys/unix"
)

func (e *chmodEscalator) escalate(_ context.Context, name string) error {
	info, err := e.chmod(name)
	if err != nil {
		return err
	}

	// Confirm the grant took effect when operating on the
	// real filesystem, since we might not own the file.
	if _, ok := e.fs.(*afero.OsFs); !ok {
		return nil
	}
	mode := uint32(unix.R_OK | unix.W_OK)
	if info.IsDir() {
		mode |= unix.X_OK
	}
	if err := unix.Access(name, mode); err != nil {
		return pathError("access", name, err)
	}
	return nil
}
