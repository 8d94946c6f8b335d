package watch

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunReexecutesOnChange(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "doc.org")
	require.NoError(t, os.WriteFile(doc, []byte("v1\n"), 0o644))

	w, err := New(20 * time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	var runs atomic.Int32
	go func() {
		_ = w.Run(doc, func() ([]string, error) {
			runs.Add(1)
			return []string{doc}, nil
		})
	}()

	require.Eventually(t, func() bool { return runs.Load() >= 1 }, 2*time.Second, 10*time.Millisecond,
		"initial pass never ran")

	require.NoError(t, os.WriteFile(doc, []byte("v2\n"), 0o644))
	require.Eventually(t, func() bool { return runs.Load() >= 2 }, 2*time.Second, 10*time.Millisecond,
		"change never triggered a pass")
}

func TestRunDebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "doc.org")
	require.NoError(t, os.WriteFile(doc, []byte("v1\n"), 0o644))

	w, err := New(150 * time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	var runs atomic.Int32
	go func() {
		_ = w.Run(doc, func() ([]string, error) {
			runs.Add(1)
			return []string{doc}, nil
		})
	}()
	require.Eventually(t, func() bool { return runs.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(doc, []byte("burst\n"), 0o644))
		time.Sleep(10 * time.Millisecond)
	}
	require.Eventually(t, func() bool { return runs.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
	// The burst collapsed into one debounced pass; allow a moment for any
	// stragglers before checking.
	time.Sleep(300 * time.Millisecond)
	assert.LessOrEqual(t, runs.Load(), int32(3))
}

func TestRunFirstFailure(t *testing.T) {
	w, err := New(10 * time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	err = w.Run("absent.org", func() ([]string, error) {
		return nil, os.ErrNotExist
	})
	require.Error(t, err)
}

func TestRelevantFiltersByFileAndOp(t *testing.T) {
	w, err := New(time.Millisecond)
	require.NoError(t, err)
	defer w.Close()
	w.files = map[string]bool{filepath.Clean("a/doc.org"): true}

	assert.True(t, w.relevant(fsnotify.Event{Name: "a/doc.org", Op: fsnotify.Write}))
	assert.True(t, w.relevant(fsnotify.Event{Name: "a/doc.org", Op: fsnotify.Create}))
	assert.False(t, w.relevant(fsnotify.Event{Name: "a/other.org", Op: fsnotify.Write}))
	assert.False(t, w.relevant(fsnotify.Event{Name: "a/doc.org", Op: fsnotify.Chmod}))
}
