package shred

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Delete removes the target, depth first, renaming every
// entry through a chain of shorter names before unlinking
// it. Directories are only removed after their content.
//
// Failures are local to the entry they occur on: they are
// logged and collected into the report, and the siblings
// are still removed. Only a *UsageError, raised for a
// directory without recursive mode, or the cancellation of
// ctx are returned as error.
func (s *Shredder) Delete(ctx context.Context, target string) (Report, error) {
	var report Report
	if err := ctx.Err(); err != nil {
		return report, err
	}
	info, err := lstat(s.fs, target)
	if err != nil {
		s.logger.Warn("attempted to delete invalid file",
			zap.String("path", target), zap.Error(err))
		return report, nil
	}
	mode := info.Mode()
	switch {
	case mode.IsDir():
		if !s.recursive {
			return report, &UsageError{Op: "delete", Path: target}
		}
		names, err := s.listDir(ctx, target)
		if err != nil {
			s.logger.Error("cannot list directory",
				zap.String("path", target), zap.Error(err))
			report.RemoveFailed++
			report.fail(errors.Wrap(err, "delete"))
			return report, nil
		}
		for _, name := range names {
			child, err := s.Delete(ctx, filepath.Join(target, name))
			report.merge(child)
			if err != nil {
				return report, err
			}
		}
	case mode.IsRegular(), mode&os.ModeSymlink != 0:
	default:
		s.logger.Warn("attempted to delete unsupported file",
			zap.String("path", target), zap.Stringer("mode", mode.Type()))
		return report, nil
	}
	if err := s.removeEntry(ctx, target, info); err != nil {
		s.logger.Error("cannot remove file",
			zap.String("path", target), zap.Error(err))
		report.RemoveFailed++
		report.fail(errors.Wrap(err, "delete"))
		return report, nil
	}
	report.Removed++
	return report, nil
}

// removeEntry removes a single file, link or empty directory
// through the obfuscating rename chain.
//
// Permission is escalated at most once for the whole chain,
// and the failing step is retried from the current name.
func (s *Shredder) removeEntry(
	ctx context.Context, target string, info os.FileInfo,
) error {
	current := filepath.Clean(target)
	dir, name := filepath.Dir(current), filepath.Base(current)
	if name == "." || name == ".." ||
		name == string(filepath.Separator) {
		return pathError("remove", target, ErrNoEntryName)
	}
	logger := s.logger.With(zap.String("path", target))
	r := s.newRetrier(s.force)

	if err := r.do(ctx, func() error {
		return s.checkEntry(current, info)
	}, current); err != nil {
		return err
	}
	logger.Info("removing")

	for length := len(name); length > 0; length-- {
		next, err := s.freeName(dir, length)
		if err != nil {
			return err
		}
		from := current
		if err := r.do(ctx, func() error {
			return s.fs.Rename(from, next)
		}, from, dir); err != nil {
			return err
		}
		logger.Info("renamed", zap.String("from", from),
			zap.String("to", next))
		current = next
	}

	if err := r.do(ctx, func() error {
		return s.fs.Remove(current)
	}, current, dir); err != nil {
		return err
	}
	logger.Info("removed")
	return nil
}

// checkEntry verifies the entry may be removed. A regular
// file must be writable, otherwise it could not have been
// shredded, and a directory must be empty.
func (s *Shredder) checkEntry(name string, info os.FileInfo) error {
	switch {
	case info.IsDir():
		empty, err := afero.IsEmpty(s.fs, name)
		if err != nil {
			return err
		}
		if !empty {
			return pathError("remove", name, ErrDirectoryNotEmpty)
		}
	case info.Mode().IsRegular():
		f, err := s.fs.OpenFile(name, os.O_RDWR, 0)
		if err != nil {
			return err
		}
		return f.Close()
	}
	return nil
}

// freeName finds the first name of the specified length
// that no entry in dir is using. The check is performed
// right before the rename which claims it.
func (s *Shredder) freeName(dir string, length int) (string, error) {
	names := NewNameEnumerator(length)
	for {
		candidate, ok := names.Next()
		if !ok {
			break
		}
		path := filepath.Join(dir, candidate)
		_, err := lstat(s.fs, path)
		if errors.Is(err, os.ErrNotExist) {
			return path, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", errors.Wrapf(ErrNameSpaceExhausted,
		"length %d under %q", length, dir)
}
