package shred

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest/observer"
)

// shredOne runs the whole pipeline on a single file.
func shredOne(
	t *testing.T, fs afero.Fs, name string, options ...Option,
) (Report, *observer.ObservedLogs) {
	s, logs := newObservedShredder(t, fs, options...)
	report, err := s.Run(context.Background(), []string{name}, false)
	require.NoError(t, err)
	return report, logs
}

func passPatterns(logs *observer.ObservedLogs) []string {
	var result []string
	for _, entry := range logs.FilterMessage("pass done").All() {
		result = append(result, entry.ContextMap()["pattern"].(string))
	}
	return result
}

func TestOverwriteTiling(t *testing.T) {
	for _, size := range []int{0, 1, 2, 3, 7, 1000, 8193} {
		for _, bufferSize := range []int{2, 3, 5, 4096, DefaultBufferSize} {
			fs := afero.NewMemMapFs()
			original := bytes.Repeat([]byte{0x5a}, size)
			require.NoError(t, afero.WriteFile(fs, "/f", original, 0644))

			// The seventh pass writes 924924.
			report, _ := shredOne(t, fs, "/f",
				WithPasses(7), WithBufferSize(bufferSize))
			assert.Equal(t, 1, report.Shredded)

			expected := make([]byte, size)
			for i := range expected {
				expected[i] = []byte{0x92, 0x49, 0x24}[i%3]
			}
			data, err := afero.ReadFile(fs, "/f")
			require.NoError(t, err)
			assert.Equal(t, expected, data,
				"size %d buffer %d", size, bufferSize)
		}
	}
}

func TestOverwriteNoPass(t *testing.T) {
	assert := assert.New(t)
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/f", []byte("secret"), 0644))
	report, logs := shredOne(t, fs, "/f", WithPasses(0), WithZeroPass(true))
	assert.Equal(0, report.Shredded)
	assert.Equal(0, logs.FilterMessage("pass done").Len())
	data, err := afero.ReadFile(fs, "/f")
	assert.NoError(err)
	assert.Equal([]byte("secret"), data)
}

func TestOverwriteZeroPass(t *testing.T) {
	assert := assert.New(t)
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/f", []byte("top secret data"), 0644))
	report, logs := shredOne(t, fs, "/f", WithPasses(5), WithZeroPass(true))
	assert.Equal(1, report.Shredded)
	data, err := afero.ReadFile(fs, "/f")
	assert.NoError(err)
	assert.Equal(make([]byte, 15), data)

	entries := logs.FilterMessage("pass done").All()
	assert.Len(entries, 6)
	last := entries[len(entries)-1].ContextMap()
	assert.EqualValues(6, last["pass"])
	assert.EqualValues(6, last["passes"])
	assert.Equal("000000", last["pattern"])
}

func TestOverwriteRandomPass(t *testing.T) {
	assert := assert.New(t)
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/ab.txt", []byte("abcdef"), 0644))
	random := []byte{0xde, 0xad, 0xbe, 0xef, 0x01, 0x02}
	report, logs := shredOne(t, fs, "/ab.txt", WithPasses(1),
		WithRandomSource(func() (io.Reader, error) {
			return bytes.NewReader(random), nil
		}))
	assert.Equal(1, report.Shredded)
	assert.Equal([]string{"random"}, passPatterns(logs))
	data, err := afero.ReadFile(fs, "/ab.txt")
	assert.NoError(err)
	assert.Equal(random, data)
}

func TestOverwriteCyclesTable(t *testing.T) {
	assert := assert.New(t)
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/f", []byte("abcdefgh"), 0644))
	_, logs := shredOne(t, fs, "/f", WithPasses(37))
	var expected []string
	for i := 0; i < PatternCount; i++ {
		expected = append(expected, PatternAt(i).String())
	}
	expected = append(expected, PatternAt(0).String(), PatternAt(1).String())
	assert.Equal(expected, passPatterns(logs))
}

func TestOverwriteRandomSourceFailure(t *testing.T) {
	assert := assert.New(t)
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/f", []byte("abc"), 0644))
	report, logs := shredOne(t, fs, "/f", WithPasses(1),
		WithRandomSource(func() (io.Reader, error) {
			return bytes.NewReader(nil), nil
		}))
	assert.Equal(1, report.ShredFailed)
	assert.Error(report.Err())
	assert.Equal(1, logs.FilterMessage("cannot shred file").Len())
}

func TestOverwriteCanceled(t *testing.T) {
	assert := assert.New(t)
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/f", []byte("abc"), 0644))
	s, _ := newObservedShredder(t, fs)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.overwrite(ctx, s.newJob("/f"))
	assert.ErrorIs(err, context.Canceled)
	data, _ := afero.ReadFile(fs, "/f")
	assert.Equal([]byte("abc"), data)
}
