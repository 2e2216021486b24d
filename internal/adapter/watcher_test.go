package adapter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "testtree.dev/pkg/testtree/internal/model"
)

func nextChange(t *testing.T, w *Watcher, mock *clock.Mock) m.Path {
	t.Helper()

	var changed m.Path

	require.Eventually(t, func() bool {
		mock.Add(w.debounce)

		select {
		case changed = <-w.Events():
			return true
		default:
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)

	return changed
}

func TestWatcher_DebouncesGoFiles(t *testing.T) {
	dir := t.TempDir()
	mustMkdir(t, filepath.Join(dir, "pkg"))
	mustMkdir(t, filepath.Join(dir, "vendor"))

	mock := clock.NewMock()

	w, err := NewWatcher(m.Path(dir), mock, 0)
	require.NoError(t, err)

	t.Cleanup(func() { _ = w.Close() })

	assert.Equal(t, DefaultWatchDebounce, w.debounce)

	writeTestFile(t, filepath.Join(dir, "notes.txt"), "ignored")
	writeTestFile(t, filepath.Join(dir, "pkg", "a.go"), "package pkg\n")

	changed := nextChange(t, w, mock)
	assert.Equal(t, filepath.Join(dir, "pkg", "a.go"), string(changed))

	select {
	case extra := <-w.Events():
		t.Fatalf("unexpected change %s", extra)
	default:
	}
}

func TestWatcher_AddsNewDirectories(t *testing.T) {
	dir := t.TempDir()
	mock := clock.NewMock()

	w, err := NewWatcher(m.Path(dir), mock, time.Millisecond)
	require.NoError(t, err)

	t.Cleanup(func() { _ = w.Close() })

	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))

	// The new directory is only watched once its create event was handled.
	require.Eventually(t, func() bool {
		writeTestFile(t, filepath.Join(sub, "b_test.go"), "package sub\n")
		mock.Add(time.Millisecond)

		select {
		case changed := <-w.Events():
			return changed.Base() == "b_test.go"
		default:
			return false
		}
	}, 5*time.Second, 20*time.Millisecond)
}

func TestNewWatcher_MissingRoot(t *testing.T) {
	_, err := NewWatcher(m.Path(filepath.Join(t.TempDir(), "missing")), nil, 0)
	require.Error(t, err)
}
