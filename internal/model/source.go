package model

import (
	"path/filepath"
	"strings"
)

// Path represents a file system path.
type Path string

// Dir returns the directory part of the path.
func (p Path) Dir() Path {
	return Path(filepath.Dir(string(p)))
}

// Base returns the last element of the path.
func (p Path) Base() string {
	return filepath.Base(string(p))
}

// IsTestFile reports whether the path names a Go test file.
func (p Path) IsTestFile() bool {
	return strings.HasSuffix(string(p), "_test.go")
}

// Clean returns the lexically cleaned path; the empty path stays empty.
func (p Path) Clean() Path {
	if p == "" {
		return p
	}

	return Path(filepath.Clean(string(p)))
}
