// Package shred implements the shredding engine.
//
// Shredding is done in two phases. Every regular file under
// the targets is first overwritten several times, following
// the pattern sequence of the Gutmann method, by a bounded
// number of concurrent workers. After every worker has
// finished, the targets are optionally removed.
//
// Removal renames each entry through a chain of shorter and
// shorter names before unlinking it, so that the directory
// slot that held the original name is rewritten multiple
// times. Removal is always done by a single goroutine,
// depth first, since each rename must observe a consistent
// view of its siblings while searching for a free name.
//
// All filesystem access goes through afero.Fs, so that the
// engine runs on both the OS and the in-memory filesystem.
package shred

import (
	"fmt"
	"io/fs"

	"github.com/pkg/errors"
)

var (
	// ErrNameSpaceExhausted is returned when every name of a
	// given length is already taken in the directory of the
	// entry being removed.
	ErrNameSpaceExhausted = errors.New("no free name of required length")

	// ErrDirectoryNotEmpty is returned when a directory still
	// has children at the moment it is about to be removed.
	ErrDirectoryNotEmpty = errors.New("directory not empty")

	// ErrNoEntryName is returned for targets like "." or "/"
	// which have no base name to be obfuscated.
	ErrNoEntryName = errors.New("cannot derive entry name")
)

// UsageError reports a target that cannot be processed with
// the current parameters, e.g. a directory without recursive
// mode. It terminates the whole run.
type UsageError struct {
	Op   string
	Path string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("%s: %q is a directory, recursive mode required",
		e.Op, e.Path)
}

// IsUsageError tells whether err is or wraps a *UsageError.
func IsUsageError(err error) bool {
	var usageErr *UsageError
	return errors.As(err, &usageErr)
}

// isPermission tells whether err is a permission failure
// that may be recovered by escalation.
func isPermission(err error) bool {
	return errors.Is(err, fs.ErrPermission)
}

// pathError wraps err with the operation and path it failed on.
func pathError(op, name string, err error) error {
	return &fs.PathError{
		Op:   op,
		Path: name,
		Err:  err,
	}
}
