package adapter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "testtree.dev/pkg/testtree/internal/model"
)

func newTestFactory() *LocalBackendFactory {
	return NewLocalBackendFactory(NewLocalSourceFSAdapter(), NewLocalGoFileAdapter(), NewLocalTestRunnerAdapter(0))
}

func TestLocalBackendFactory_GoTest(t *testing.T) {
	backend, err := newTestFactory().GoTest(m.Path(examplePath(t, filepath.Join("calc", "broken"))), WithWorkspace("ws"))
	require.NoError(t, err)

	assert.Equal(t, "calc", backend.ID())
	assert.Equal(t, "ws", backend.Workspace())
	assert.Equal(t, "calc", backend.Root().Base())
}

func TestLocalBackendFactory_Replay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "replay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(replayYAML), 0o644))

	backends, err := newTestFactory().Replay(m.Path(path))
	require.NoError(t, err)
	require.Len(t, backends, 2)
	assert.Equal(t, "calc", backends[0].ID())
	assert.Equal(t, "broken", backends[1].ID())

	_, err = newTestFactory().Replay(m.Path(filepath.Join(t.TempDir(), "missing.yaml")))
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("id: x\n"), 0o644))

	_, err = newTestFactory().Replay(m.Path(bad))
	require.ErrorIs(t, err, ErrInvalidScript)
}

func TestLocalBackendFactory_Watcher(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/x\n"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	watcher, err := newTestFactory().Watcher(m.Path(filepath.Join(dir, "sub")))
	require.NoError(t, err)
	require.NoError(t, watcher.Close())
	require.NoError(t, watcher.Close(), "close is idempotent")
}
