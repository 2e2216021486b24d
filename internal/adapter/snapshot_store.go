package adapter

import (
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"

	m "testtree.dev/pkg/testtree/internal/model"
)

// SnapshotStore persists explorer snapshots.
type SnapshotStore interface {
	SaveSnapshot(path m.Path, snapshot m.Snapshot) error
	LoadSnapshot(path m.Path) (m.Snapshot, error)
}

// YAMLSnapshotStore stores snapshots as YAML documents.
type YAMLSnapshotStore struct {
	fs SourceFSAdapter
}

// NewSnapshotStore creates a YAML store on fs; nil uses the local disk.
func NewSnapshotStore(fs SourceFSAdapter) *YAMLSnapshotStore {
	if fs == nil {
		fs = NewLocalSourceFSAdapter()
	}

	return &YAMLSnapshotStore{fs: fs}
}

// SaveSnapshot implements SnapshotStore.
func (s *YAMLSnapshotStore) SaveSnapshot(path m.Path, snapshot m.Snapshot) error {
	data, err := yaml.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if err := s.fs.WriteFile(path, data, 0o644); err != nil {
		slog.Error("failed to save snapshot", "path", path, "error", err)
		return fmt.Errorf("save snapshot %s: %w", path, err)
	}

	slog.Info("saved snapshot", "path", path, "collections", len(snapshot.Collections))

	return nil
}

// LoadSnapshot implements SnapshotStore.
func (s *YAMLSnapshotStore) LoadSnapshot(path m.Path) (m.Snapshot, error) {
	data, err := s.fs.ReadFile(path)
	if err != nil {
		return m.Snapshot{}, fmt.Errorf("read snapshot %s: %w", path, err)
	}

	var snapshot m.Snapshot
	if err := yaml.Unmarshal(data, &snapshot); err != nil {
		return m.Snapshot{}, fmt.Errorf("decode snapshot %s: %w", path, err)
	}

	return snapshot, nil
}
