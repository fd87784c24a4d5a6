package profiling

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func busyWork() int {
	sum := 0
	for i := 0; i < 1000000; i++ {
		sum += i % 7
	}
	return sum
}

func TestStart_WritesAllProfiles(t *testing.T) {
	// Given: all three profiles requested
	dir := t.TempDir()
	opts := Options{
		CPU:   filepath.Join(dir, "cpu.prof"),
		Heap:  filepath.Join(dir, "heap.prof"),
		Trace: filepath.Join(dir, "trace.out"),
	}
	require.True(t, opts.Enabled())

	// When: running work between Start and Stop
	s, err := Start(opts)
	require.NoError(t, err)
	_ = busyWork()
	require.NoError(t, s.Stop())

	// Then: every file exists and is non-empty
	for _, p := range []string{opts.CPU, opts.Heap, opts.Trace} {
		info, err := os.Stat(p)
		require.NoError(t, err, p)
		assert.Greater(t, info.Size(), int64(0), p)
	}
}

func TestStart_NothingRequested(t *testing.T) {
	opts := Options{}
	assert.False(t, opts.Enabled())

	s, err := Start(opts)
	require.NoError(t, err)
	assert.NoError(t, s.Stop())
}

func TestStart_BadTracePathStopsCPU(t *testing.T) {
	// Given: a writable CPU path and an unwritable trace path
	dir := t.TempDir()
	opts := Options{
		CPU:   filepath.Join(dir, "cpu.prof"),
		Trace: filepath.Join(dir, "missing", "trace.out"),
	}

	// When: starting
	_, err := Start(opts)

	// Then: it fails and CPU profiling can be started again
	require.Error(t, err)
	s, err := Start(Options{CPU: filepath.Join(dir, "cpu2.prof")})
	require.NoError(t, err)
	require.NoError(t, s.Stop())
}

func TestStop_BadHeapPath(t *testing.T) {
	s, err := Start(Options{Heap: filepath.Join(t.TempDir(), "missing", "heap.prof")})
	require.NoError(t, err)

	assert.Error(t, s.Stop())
}
