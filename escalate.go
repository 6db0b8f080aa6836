package shred

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Escalator grants the current user read and write access
// to a path. It is best effort: a failed escalation only
// means the retry that follows fails the same way.
type Escalator interface {
	Escalate(ctx context.Context, name string) error
}

// chmodEscalator adds the owner permission bits through the
// filesystem, with platform specific extras around it.
type chmodEscalator struct {
	fs     afero.Fs
	logger *zap.Logger
}

// NewEscalator creates the platform escalator on fs.
func NewEscalator(fs afero.Fs, logger *zap.Logger) Escalator {
	return &chmodEscalator{
		fs:     fs,
		logger: logger.Named("escalate"),
	}
}

func (e *chmodEscalator) Escalate(ctx context.Context, name string) error {
	logger := e.logger.With(zap.String("path", name))
	logger.Info("changing file permissions")
	if err := e.escalate(ctx, name); err != nil {
		logger.Error("could not change file permissions", zap.Error(err))
		return err
	}
	logger.Info("file permissions changed")
	return nil
}

// chmod adds owner read and write permission, plus execute
// for directories so that their entries stay reachable.
func (e *chmodEscalator) chmod(name string) (os.FileInfo, error) {
	info, err := e.fs.Stat(name)
	if err != nil {
		return nil, err
	}
	mode := info.Mode().Perm() | 0600
	if info.IsDir() {
		mode |= 0100
	}
	if err := e.fs.Chmod(name, mode); err != nil {
		return nil, errors.Wrap(err, "chmod")
	}
	return info, nil
}

// retrier runs an operation and, when it fails for missing
// permission, escalates and runs it once more. Escalation
// happens at most once over the lifetime of a retrier.
type retrier struct {
	escalator Escalator
	enabled   bool
}

func (s *Shredder) newRetrier(enabled bool) *retrier {
	return &retrier{
		escalator: s.escalator,
		enabled:   enabled,
	}
}

// do runs op, escalating on targets when op is denied.
func (r *retrier) do(
	ctx context.Context, op func() error, targets ...string,
) error {
	err := op()
	if err == nil || !r.enabled || !isPermission(err) {
		return err
	}
	r.enabled = false
	for _, target := range targets {
		_ = r.escalator.Escalate(ctx, target)
	}
	return op()
}
