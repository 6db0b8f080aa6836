package shred

import (
	"context"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// fallbackBufferSize is used when the platform does not
// report a preferred block size.
const fallbackBufferSize = 8192

// job is the overwrite of one regular file.
type job struct {
	path       string
	bufferSize int
	passes     int
	zeroPass   bool
	force      bool
}

func (s *Shredder) newJob(path string) *job {
	return &job{
		path:       path,
		bufferSize: s.bufferSize,
		passes:     s.passes,
		zeroPass:   s.zeroPass,
		force:      s.force,
	}
}

// shredFile runs the job, retrying once after escalation
// when permission is denied. Failures are logged here since
// the worker is the smallest unit of work.
func (s *Shredder) shredFile(ctx context.Context, j *job) error {
	err := s.newRetrier(j.force).do(ctx, func() error {
		return s.overwrite(ctx, j)
	}, j.path)
	if err != nil {
		s.logger.Error("cannot shred file",
			zap.String("path", j.path), zap.Error(err))
	}
	return err
}

// overwrite performs every pass of the job on the file. The
// length is measured once, before the first pass.
func (s *Shredder) overwrite(ctx context.Context, j *job) (rerr error) {
	logger := s.logger.With(zap.String("path", j.path))
	info, err := s.fs.Stat(j.path)
	if err != nil {
		return err
	}
	size := info.Size()
	f, err := s.fs.OpenFile(j.path, os.O_RDWR, 0)
	if err != nil {
		return err
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = err
		}
	}()

	bufferSize := j.bufferSize
	if bufferSize == DefaultBufferSize {
		bufferSize = preferredBlockSize(info)
		if bufferSize <= 0 {
			bufferSize = fallbackBufferSize
		}
	}
	if size < int64(bufferSize) {
		bufferSize = int(size)
	}
	buf := make([]byte, bufferSize)
	rnd, err := s.newRandom()
	if err != nil {
		return errors.Wrap(err, "create random source")
	}

	for i := 0; i < j.passes; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		pattern := PatternAt(i)
		if err := writePass(f, size, pattern, buf, rnd); err != nil {
			return errors.Wrapf(err, "pass %d", i+1)
		}
		logger.Info("pass done", zap.Int("pass", i+1),
			zap.Int("passes", j.passes), zap.Stringer("pattern", pattern))
	}
	if j.zeroPass {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writePass(f, size, zeroPattern, buf, rnd); err != nil {
			return errors.Wrapf(err, "pass %d", j.passes+1)
		}
		logger.Info("pass done", zap.Int("pass", j.passes+1),
			zap.Int("passes", j.passes+1), zap.Stringer("pattern", zeroPattern))
	}
	return nil
}

// writePass overwrites the first size bytes of the file
// with the pattern, in chunks of the buffer length, and
// syncs the file before returning.
func writePass(
	f afero.File, size int64, p Pattern, buf []byte, rnd io.Reader,
) error {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	var written int64
	for written < size {
		chunk := buf
		if remain := size - written; remain < int64(len(chunk)) {
			chunk = chunk[:remain]
		}
		if err := p.fill(chunk, written, rnd); err != nil {
			return errors.Wrap(err, "generate pattern")
		}
		n, err := f.Write(chunk)
		written += int64(n)
		if err != nil {
			return err
		}
	}
	return f.Sync()
}
