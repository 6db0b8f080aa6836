package shred

import (
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	// DefaultPasses runs the Gutmann method exactly once.
	DefaultPasses = PatternCount

	// DefaultBufferSize selects the platform default buffer
	// size, which is the preferred block size of the file.
	DefaultBufferSize = -1

	// DefaultParallel shreds one file at a time.
	DefaultParallel = 1

	// MaxBufferSize bounds the write buffer allocated for
	// each worker.
	MaxBufferSize = 64 << 20
)

type option struct {
	fs         afero.Fs
	logger     *zap.Logger
	escalator  Escalator
	newRandom  func() (io.Reader, error)
	passes     int
	bufferSize int
	parallel   int
	zeroPass   bool
	recursive  bool
	force      bool
}

// newOption initializes and sets the default parameter for
// the options.
func newOption() *option {
	return &option{
		newRandom:  defaultRandomSource,
		passes:     DefaultPasses,
		bufferSize: DefaultBufferSize,
		parallel:   DefaultParallel,
	}
}

// validate checks the numeric parameters and fills in the
// collaborators which have not been specified.
func (opt *option) validate() error {
	if opt.passes < 0 {
		return errors.Errorf("invalid pass count %d", opt.passes)
	}
	if opt.parallel < 1 {
		return errors.Errorf("invalid parallelism %d", opt.parallel)
	}
	if opt.bufferSize != DefaultBufferSize &&
		(opt.bufferSize < 2 || opt.bufferSize > MaxBufferSize) {
		return errors.Errorf("invalid buffer size %d", opt.bufferSize)
	}
	if opt.fs == nil {
		opt.fs = afero.NewOsFs()
	}
	if opt.logger == nil {
		opt.logger = zap.NewNop()
	}
	if opt.escalator == nil {
		opt.escalator = NewEscalator(opt.fs, opt.logger)
	}
	return nil
}

// Option specified extra parameters for creating shredder.
type Option func(*option)

// WithFs sets the filesystem to operate on. The OS
// filesystem is used by default.
func WithFs(fs afero.Fs) Option {
	return func(opt *option) {
		opt.fs = fs
	}
}

// WithLogger sets the logger receiving progress messages
// and failures. Nothing is logged by default.
func WithLogger(logger *zap.Logger) Option {
	return func(opt *option) {
		opt.logger = logger
	}
}

// WithEscalator replaces the platform permission escalator.
func WithEscalator(escalator Escalator) Option {
	return func(opt *option) {
		opt.escalator = escalator
	}
}

// WithRandomSource sets how the content of random passes is
// generated. The function is called once per file, and the
// reader is only used by the worker shredding that file.
func WithRandomSource(newRandom func() (io.Reader, error)) Option {
	return func(opt *option) {
		opt.newRandom = newRandom
	}
}

// WithPasses sets the number of overwrite passes. Passes
// beyond the pattern table cycle through it again.
func WithPasses(n int) Option {
	return func(opt *option) {
		opt.passes = n
	}
}

// WithBufferSize sets the size of each write. The value -1
// selects the platform default.
func WithBufferSize(n int) Option {
	return func(opt *option) {
		opt.bufferSize = n
	}
}

// WithParallel sets how many files may be overwritten at
// the same time.
func WithParallel(n int) Option {
	return func(opt *option) {
		opt.parallel = n
	}
}

// WithZeroPass appends a final pass of zeros to hide the
// fact that the file has been shredded.
func WithZeroPass(zero bool) Option {
	return func(opt *option) {
		opt.zeroPass = zero
	}
}

// WithRecursive allows descending into directories.
func WithRecursive(recursive bool) Option {
	return func(opt *option) {
		opt.recursive = recursive
	}
}

// WithForce enables permission escalation. Failures caused
// by missing permission are retried once after escalating.
func WithForce(force bool) Option {
	return func(opt *option) {
		opt.force = force
	}
}

// WithOptions specifies a set of options as a single option.
func WithOptions(options ...Option) Option {
	return func(opt *option) {
		for _, option := range options {
			option(opt)
		}
	}
}
