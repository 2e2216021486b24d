// Package spill appends gob-encoded records to a file so long recordings do
// not have to be kept in memory.
package spill

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// ErrClosed is returned when appending to a closed spill.
var ErrClosed = errors.New("spill is closed")

// Spill is an append-only file of records of type T.
type Spill[T any] struct {
	mu      sync.Mutex
	path    string
	file    *os.File
	encoder *gob.Encoder
	length  uint64
}

// New creates an empty spill file in dir; an empty dir uses the system temp dir.
func New[T any](dir string) (*Spill[T], error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "testtree-spill")
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		slog.Error("failed to create spill directory", "path", dir, "error", err)
		return nil, fmt.Errorf("failed to create spill directory: %w", err)
	}

	file, err := os.CreateTemp(dir, "spill-*.gob")
	if err != nil {
		slog.Error("failed to create spill file", "path", dir, "error", err)
		return nil, fmt.Errorf("failed to create spill file: %w", err)
	}

	slog.Debug("created spill", "path", file.Name())

	return &Spill[T]{
		path:    file.Name(),
		file:    file,
		encoder: gob.NewEncoder(file),
	}, nil
}

// Open reads back an existing spill file. The result is read-only.
func Open[T any](path string) (*Spill[T], error) {
	s := &Spill[T]{path: path}

	count, err := s.scan(func(uint64, T) error { return nil })
	if err != nil {
		return nil, err
	}

	s.length = count

	return s, nil
}

// Path returns the file backing the spill.
func (s *Spill[T]) Path() string {
	return s.path
}

// Len returns the number of records.
func (s *Spill[T]) Len() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.length
}

// Append writes one record.
func (s *Spill[T]) Append(item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.encoder == nil {
		return ErrClosed
	}

	if err := s.encoder.Encode(item); err != nil {
		slog.Error("failed to encode record", "path", s.path, "index", s.length, "error", err)
		return fmt.Errorf("failed to encode record: %w", err)
	}

	s.length++

	return nil
}

// Range calls fn for every record in order and stops at the first error.
func (s *Spill[T]) Range(fn func(index uint64, item T) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.scan(fn)

	return err
}

// Items decodes every record.
func (s *Spill[T]) Items() ([]T, error) {
	items := make([]T, 0, s.Len())

	err := s.Range(func(_ uint64, item T) error {
		items = append(items, item)
		return nil
	})

	return items, err
}

func (s *Spill[T]) scan(fn func(index uint64, item T) error) (uint64, error) {
	file, err := os.Open(s.path)
	if err != nil {
		slog.Error("failed to open spill", "path", s.path, "error", err)
		return 0, fmt.Errorf("failed to open spill: %w", err)
	}

	defer func() {
		if err := file.Close(); err != nil {
			slog.Error("failed to close spill", "path", s.path, "error", err)
		}
	}()

	decoder := gob.NewDecoder(file)

	var index uint64

	for {
		var item T

		err := decoder.Decode(&item)
		if errors.Is(err, io.EOF) {
			return index, nil
		}

		if err != nil {
			slog.Error("failed to decode record", "path", s.path, "index", index, "error", err)
			return index, fmt.Errorf("failed to decode record %d: %w", index, err)
		}

		if err := fn(index, item); err != nil {
			return index, err
		}

		index++
	}
}

// Close closes the file; records stay readable.
func (s *Spill[T]) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return nil
	}

	err := s.file.Close()
	s.file = nil
	s.encoder = nil

	if err != nil {
		slog.Error("failed to close spill", "path", s.path, "error", err)
		return fmt.Errorf("failed to close spill: %w", err)
	}

	slog.Debug("closed spill", "path", s.path, "length", s.length)

	return nil
}

// Remove closes the spill and deletes its file.
func (s *Spill[T]) Remove() error {
	if err := s.Close(); err != nil {
		return err
	}

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove spill: %w", err)
	}

	return nil
}
