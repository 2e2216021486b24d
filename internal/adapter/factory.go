package adapter

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/benbjohnson/clock"

	m "testtree.dev/pkg/testtree/internal/model"
)

// BackendFactory builds the backends named on the command line.
type BackendFactory interface {
	GoTest(root m.Path, opts ...GoTestOption) (*GoTestBackend, error)
	Replay(path m.Path) ([]*ReplayBackend, error)
	Watcher(root m.Path) (*Watcher, error)
}

// LocalBackendFactory builds backends on the local disk.
type LocalBackendFactory struct {
	fs       SourceFSAdapter
	goFiles  GoFileAdapter
	runner   TestRunnerAdapter
	clock    clock.Clock
	debounce time.Duration
}

// NewLocalBackendFactory creates a factory sharing the given adapters.
func NewLocalBackendFactory(fs SourceFSAdapter, goFiles GoFileAdapter, runner TestRunnerAdapter) *LocalBackendFactory {
	return &LocalBackendFactory{
		fs:       fs,
		goFiles:  goFiles,
		runner:   runner,
		clock:    clock.New(),
		debounce: DefaultWatchDebounce,
	}
}

// GoTest creates a backend for the module containing root. The backend id
// is the module directory name.
func (f *LocalBackendFactory) GoTest(root m.Path, opts ...GoTestOption) (*GoTestBackend, error) {
	moduleRoot, err := f.fs.FindProjectRoot(root)
	if err != nil {
		return nil, fmt.Errorf("find module of %s: %w", root, err)
	}

	id := filepath.Base(string(moduleRoot))

	return NewGoTestBackend(id, moduleRoot, f.fs, f.goFiles, f.runner, opts...), nil
}

// Replay creates one backend per script document in path.
func (f *LocalBackendFactory) Replay(path m.Path) ([]*ReplayBackend, error) {
	data, err := f.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read replay script %s: %w", path, err)
	}

	scripts, err := ParseReplayScripts(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	backends := make([]*ReplayBackend, 0, len(scripts))
	for _, script := range scripts {
		backends = append(backends, NewReplayBackend(script))
	}

	return backends, nil
}

// Watcher watches the module containing root.
func (f *LocalBackendFactory) Watcher(root m.Path) (*Watcher, error) {
	moduleRoot, err := f.fs.FindProjectRoot(root)
	if err != nil {
		return nil, fmt.Errorf("find module of %s: %w", root, err)
	}

	return NewWatcher(moduleRoot, f.clock, f.debounce)
}
