package shred

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// deniedFs denies opening the listed paths until they have
// been chmoded, emulating files owned by the current user
// but lacking the permission bits.
type deniedFs struct {
	afero.Fs
	mtx    sync.Mutex
	denied map[string]bool
}

func newDeniedFs(inner afero.Fs, names ...string) *deniedFs {
	denied := make(map[string]bool)
	for _, name := range names {
		denied[filepath.Clean(name)] = true
	}
	return &deniedFs{Fs: inner, denied: denied}
}

func (d *deniedFs) isDenied(name string) bool {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	return d.denied[filepath.Clean(name)]
}

func (d *deniedFs) Open(name string) (afero.File, error) {
	return d.OpenFile(name, os.O_RDONLY, 0)
}

func (d *deniedFs) OpenFile(
	name string, flag int, perm os.FileMode,
) (afero.File, error) {
	if d.isDenied(name) {
		return nil, pathError("open", name, os.ErrPermission)
	}
	return d.Fs.OpenFile(name, flag, perm)
}

func (d *deniedFs) Chmod(name string, mode os.FileMode) error {
	d.mtx.Lock()
	delete(d.denied, filepath.Clean(name))
	d.mtx.Unlock()
	return d.Fs.Chmod(name, mode)
}

// countingFs records the highest number of files opened
// for writing at the same time.
type countingFs struct {
	afero.Fs
	delay   time.Duration
	mtx     sync.Mutex
	current int
	peak    int
}

func (c *countingFs) OpenFile(
	name string, flag int, perm os.FileMode,
) (afero.File, error) {
	f, err := c.Fs.OpenFile(name, flag, perm)
	if err != nil || flag&(os.O_RDWR|os.O_WRONLY) == 0 {
		return f, err
	}
	c.mtx.Lock()
	c.current++
	if c.current > c.peak {
		c.peak = c.current
	}
	c.mtx.Unlock()
	return &countingFile{File: f, fs: c}, nil
}

func (c *countingFs) Peak() int {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.peak
}

type countingFile struct {
	afero.File
	fs *countingFs
}

func (f *countingFile) Write(b []byte) (int, error) {
	time.Sleep(f.fs.delay)
	return f.File.Write(b)
}

func (f *countingFile) Close() error {
	f.fs.mtx.Lock()
	f.fs.current--
	f.fs.mtx.Unlock()
	return f.File.Close()
}

// fakeEscalator counts escalations, and optionally fails
// them without touching the filesystem.
type fakeEscalator struct {
	mtx   sync.Mutex
	names []string
	err   error
	inner Escalator
}

func (e *fakeEscalator) Escalate(ctx context.Context, name string) error {
	e.mtx.Lock()
	e.names = append(e.names, name)
	e.mtx.Unlock()
	if e.err != nil {
		return e.err
	}
	if e.inner != nil {
		return e.inner.Escalate(ctx, name)
	}
	return nil
}

func (e *fakeEscalator) Calls() []string {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	return append([]string(nil), e.names...)
}

// newObservedShredder creates a shredder logging into the
// returned observer.
func newObservedShredder(
	t *testing.T, fs afero.Fs, options ...Option,
) (*Shredder, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.InfoLevel)
	s, err := New(WithFs(fs), WithLogger(zap.New(core)),
		WithOptions(options...))
	require.NoError(t, err)
	return s, logs
}

// symlink creates a symbolic link on the OS filesystem, and
// skips the test where links cannot be created.
func symlink(t *testing.T, oldname, newname string) {
	if err := os.Symlink(oldname, newname); err != nil {
		t.Skipf("cannot create symlink: %v", err)
	}
}

// writeFiles creates each of the files with its content.
func writeFiles(t *testing.T, fs afero.Fs, files map[string]string) {
	for name, content := range files {
		require.NoError(t, fs.MkdirAll(filepath.Dir(name), 0755))
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0644))
	}
}
