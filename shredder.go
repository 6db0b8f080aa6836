package shred

import (
	"context"
	"io"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Shredder overwrites and removes files.
type Shredder struct {
	fs        afero.Fs
	logger    *zap.Logger
	escalator Escalator
	newRandom func() (io.Reader, error)

	passes     int
	bufferSize int
	parallel   int
	zeroPass   bool
	recursive  bool
	force      bool
}

// New creates the shredder with the specified options.
func New(options ...Option) (*Shredder, error) {
	opt := newOption()
	WithOptions(options...)(opt)
	if err := opt.validate(); err != nil {
		return nil, errors.Wrap(err, "validate options")
	}
	return &Shredder{
		fs:         opt.fs,
		logger:     opt.logger,
		escalator:  opt.escalator,
		newRandom:  opt.newRandom,
		passes:     opt.passes,
		bufferSize: opt.bufferSize,
		parallel:   opt.parallel,
		zeroPass:   opt.zeroPass,
		recursive:  opt.recursive,
		force:      opt.force,
	}, nil
}

// Report summarizes the outcome of a run.
type Report struct {
	// Shredded and ShredFailed count the overwritten files.
	Shredded    int
	ShredFailed int

	// Removed and RemoveFailed count the removed entries,
	// directories included.
	Removed      int
	RemoveFailed int

	// Errors collects the failure of every unit of work.
	Errors *multierror.Error
}

func (r *Report) fail(err error) {
	r.Errors = multierror.Append(r.Errors, err)
}

func (r *Report) merge(other Report) {
	r.Shredded += other.Shredded
	r.ShredFailed += other.ShredFailed
	r.Removed += other.Removed
	r.RemoveFailed += other.RemoveFailed
	if other.Errors != nil {
		r.Errors = multierror.Append(r.Errors, other.Errors)
	}
}

// Err returns the collected failures, or nil if none.
func (r *Report) Err() error {
	return r.Errors.ErrorOrNil()
}

// collect waits for the workers and counts their results.
func (r *Report) collect(handles []*Handle) {
	for _, h := range handles {
		if err := h.Wait(); err != nil {
			r.ShredFailed++
			r.fail(errors.Wrap(err, "shred"))
		} else {
			r.Shredded++
		}
	}
}

// Run shreds every target, waits for every worker, and then
// removes the targets if unlink is set.
//
// No target is removed before all the workers of all the
// targets have returned, so a file is never unlinked while
// it is still being overwritten. The error is either a
// *UsageError, which stops the processing of the remaining
// targets, or the error of ctx. Failures of single files are
// reported through the returned report instead.
func (s *Shredder) Run(
	ctx context.Context, targets []string, unlink bool,
) (Report, error) {
	var report Report
	pool := NewPool(s.parallel)
	var handles []*Handle
	var runErr error
	for _, target := range targets {
		dispatched, err := s.Schedule(ctx, pool, target)
		handles = append(handles, dispatched...)
		if err != nil {
			runErr = err
			break
		}
	}
	report.collect(handles)
	if runErr != nil || !unlink {
		return report, runErr
	}
	for _, target := range targets {
		removed, err := s.Delete(ctx, target)
		report.merge(removed)
		if err != nil {
			return report, err
		}
	}
	return report, nil
}
