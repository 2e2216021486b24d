package adapter

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	m "testtree.dev/pkg/testtree/internal/model"
)

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	writeTestBytes(t, path, []byte(content))
}

func writeTestBytes(t *testing.T, path string, content []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll(%s) error = %v", filepath.Dir(path), err)
	}

	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("WriteFile(%s) error = %v", path, err)
	}
}

func mustMkdir(t *testing.T, path string) {
	t.Helper()

	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("MkdirAll(%s) error = %v", path, err)
	}
}

func containsPath(paths []string, target string) bool {
	for _, path := range paths {
		if path == target {
			return true
		}
	}

	return false
}

func TestLocalSourceFSAdapter_Walk(t *testing.T) {
	t.Run("visits nested files", func(t *testing.T) {
		adapter := NewLocalSourceFSAdapter()

		root := t.TempDir()
		writeTestFile(t, filepath.Join(root, "main.go"), "package main\n")

		child := filepath.Join(root, "nested", "child.go")
		writeTestFile(t, child, "package nested\n")

		var visited []string
		err := adapter.Walk(m.Path(root), func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			visited = append(visited, path)
			return nil
		})
		if err != nil {
			t.Fatalf("Walk() error = %v", err)
		}

		if !containsPath(visited, child) {
			t.Fatalf("Walk() did not visit nested file")
		}

		if !containsPath(visited, filepath.Join(root, "main.go")) {
			t.Fatalf("Walk() did not visit top-level file")
		}
	})

	t.Run("skips hidden, vendor and testdata directories", func(t *testing.T) {
		adapter := NewLocalSourceFSAdapter()

		root := t.TempDir()
		skipped := []string{
			filepath.Join(root, ".git", "a_test.go"),
			filepath.Join(root, "vendor", "dep", "b_test.go"),
			filepath.Join(root, "testdata", "c_test.go"),
			filepath.Join(root, "_scratch", "d_test.go"),
		}

		for _, path := range skipped {
			writeTestFile(t, path, "package x\n")
		}

		kept := filepath.Join(root, "pkg", "e_test.go")
		writeTestFile(t, kept, "package pkg\n")

		var visited []string
		err := adapter.Walk(m.Path(root), func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			visited = append(visited, path)
			return nil
		})
		if err != nil {
			t.Fatalf("Walk() error = %v", err)
		}

		for _, path := range skipped {
			if containsPath(visited, path) {
				t.Fatalf("Walk() unexpectedly visited %s", path)
			}
		}

		if !containsPath(visited, kept) {
			t.Fatalf("Walk() did not visit %s", kept)
		}
	})

	t.Run("root itself is never skipped", func(t *testing.T) {
		adapter := NewLocalSourceFSAdapter()

		root := filepath.Join(t.TempDir(), "testdata")
		file := filepath.Join(root, "x_test.go")
		writeTestFile(t, file, "package x\n")

		var visited []string
		err := adapter.Walk(m.Path(root), func(path string, _ os.FileInfo, err error) error {
			visited = append(visited, path)
			return err
		})
		if err != nil {
			t.Fatalf("Walk() error = %v", err)
		}

		if !containsPath(visited, file) {
			t.Fatalf("Walk() did not visit %s", file)
		}
	})
}

func TestLocalSourceFSAdapter_ReadFile(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	root := t.TempDir()
	path := filepath.Join(root, "main.go")
	content := "package main\n" + "func main() {}\n"
	writeTestFile(t, path, content)

	got, err := adapter.ReadFile(m.Path(path))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	if string(got) != content {
		t.Fatalf("ReadFile() = %q, want %q", string(got), content)
	}
}

func TestLocalSourceFSAdapter_HashFile(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	root := t.TempDir()
	path := filepath.Join(root, "main.go")
	content := []byte("package main\nfunc main() {}\n")
	writeTestBytes(t, path, content)

	expected := fmt.Sprintf("%x", sha256.Sum256(content))

	hash, err := adapter.HashFile(m.Path(path))
	if err != nil {
		t.Fatalf("HashFile() error = %v", err)
	}

	if hash != expected {
		t.Fatalf("HashFile() = %s, want %s", hash, expected)
	}

	if _, err := adapter.HashFile(m.Path(filepath.Join(root, "missing.go"))); err == nil {
		t.Fatalf("HashFile() expected error for missing file")
	}
}

func TestLocalSourceFSAdapter_FileInfo(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	root := t.TempDir()
	path := filepath.Join(root, "main.go")
	writeTestFile(t, path, "package main\n")

	info, err := adapter.FileInfo(m.Path(path))
	if err != nil {
		t.Fatalf("FileInfo() error = %v", err)
	}

	if info.IsDir() || info.Name() != "main.go" {
		t.Fatalf("FileInfo() = %s (dir=%v)", info.Name(), info.IsDir())
	}
}

func TestLocalSourceFSAdapter_FindProjectRoot(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "go.mod"), "module example.com/x\n")

	nested := filepath.Join(root, "a", "b")
	mustMkdir(t, nested)

	tests := []struct {
		name  string
		start string
	}{
		{"from root", root},
		{"from nested dir", nested},
		{"from file", filepath.Join(root, "go.mod")},
	}

	want, err := filepath.Abs(root)
	if err != nil {
		t.Fatalf("Abs() error = %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := adapter.FindProjectRoot(m.Path(tt.start))
			if err != nil {
				t.Fatalf("FindProjectRoot() error = %v", err)
			}

			if string(got) != want {
				t.Fatalf("FindProjectRoot() = %s, want %s", got, want)
			}
		})
	}
}

func TestLocalSourceFSAdapter_WriteFile(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	path := filepath.Join(t.TempDir(), "deep", "er", "out.yaml")
	if err := adapter.WriteFile(m.Path(path), []byte("a: 1\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if got := string(readFileBytes(t, path)); got != "a: 1\n" {
		t.Fatalf("WriteFile() wrote %q", got)
	}
}

func TestLocalSourceFSAdapter_RelPath(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	rel, err := adapter.RelPath("/work/mod", "/work/mod/pkg/a_test.go")
	if err != nil {
		t.Fatalf("RelPath() error = %v", err)
	}

	if rel != m.Path(filepath.Join("pkg", "a_test.go")) {
		t.Fatalf("RelPath() = %s", rel)
	}
}
