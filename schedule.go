package shred

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// lstat does not follow a trailing symbolic link when the
// filesystem is able to tell links apart.
func lstat(fsys afero.Fs, name string) (os.FileInfo, error) {
	if lstater, ok := fsys.(afero.Lstater); ok {
		info, _, err := lstater.LstatIfPossible(name)
		return info, err
	}
	return fsys.Stat(name)
}

// listDir returns the sorted names of the entries under the
// directory, escalating and retrying once when denied.
func (s *Shredder) listDir(ctx context.Context, name string) ([]string, error) {
	var names []string
	err := s.newRetrier(s.force).do(ctx, func() error {
		infos, err := afero.ReadDir(s.fs, name)
		if err != nil {
			return err
		}
		names = names[:0]
		for _, info := range infos {
			names = append(names, info.Name())
		}
		return nil
	}, name)
	return names, err
}

// Schedule walks the target and dispatches one overwrite
// worker per regular file onto the pool, blocking while the
// pool is full. The handles of every dispatched worker are
// returned, and the caller must wait for all of them.
//
// A symbolic link to a regular file is followed and the
// file it points to is overwritten. Other links, special
// files and missing paths are reported and skipped, and
// linked directories are never descended into. A directory
// met without recursive
// mode is a *UsageError, returned along with the handles
// dispatched so far. When no pass is requested, files are
// visited but nothing is dispatched.
func (s *Shredder) Schedule(
	ctx context.Context, pool *Pool, target string,
) ([]*Handle, error) {
	info, err := lstat(s.fs, target)
	if err != nil {
		s.logger.Warn("attempted to shred invalid file",
			zap.String("path", target), zap.Error(err))
		return nil, nil
	}
	if info.Mode()&os.ModeSymlink != 0 {
		resolved, err := s.fs.Stat(target)
		if err != nil {
			s.logger.Warn("attempted to shred invalid file",
				zap.String("path", target), zap.Error(err))
			return nil, nil
		}
		if !resolved.Mode().IsRegular() {
			s.logger.Warn("not following symbolic link",
				zap.String("path", target),
				zap.Stringer("mode", resolved.Mode().Type()))
			return nil, nil
		}
		info = resolved
	}
	switch {
	case info.Mode().IsRegular():
		if s.passes == 0 {
			return nil, nil
		}
		j := s.newJob(target)
		h, err := pool.Go(ctx, target, func() error {
			return s.shredFile(ctx, j)
		})
		if err != nil {
			return nil, err
		}
		return []*Handle{h}, nil
	case info.IsDir():
		if !s.recursive {
			return nil, &UsageError{Op: "shred", Path: target}
		}
		names, err := s.listDir(ctx, target)
		if err != nil {
			s.logger.Error("cannot list directory",
				zap.String("path", target), zap.Error(err))
			return nil, nil
		}
		var handles []*Handle
		for _, name := range names {
			children, err := s.Schedule(
				ctx, pool, filepath.Join(target, name))
			handles = append(handles, children...)
			if err != nil {
				return handles, err
			}
		}
		return handles, nil
	default:
		s.logger.Warn("attempted to shred unsupported file",
			zap.String("path", target),
			zap.Stringer("mode", info.Mode().Type()))
		return nil, nil
	}
}
