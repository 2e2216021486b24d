package adapter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go/token"
)

// examplePath returns the directory of an example module under examples/.
func examplePath(t *testing.T, name string) string {
	t.Helper()

	return filepath.Join("..", "..", "examples", name)
}

func readFileBytes(t *testing.T, path string) []byte {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s) error = %v", path, err)
	}

	return content
}

func TestLocalGoFileAdapter_Parse(t *testing.T) {
	adapter := NewLocalGoFileAdapter()
	fset := token.NewFileSet()

	exampleFile := filepath.Join(examplePath(t, "calc"), "calc.go")
	content := readFileBytes(t, exampleFile)

	file, err := adapter.Parse(context.Background(), fset, exampleFile, content)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if file.Name.Name != "calc" {
		t.Fatalf("Parse() package = %s, want calc", file.Name.Name)
	}
}

func TestLocalGoFileAdapter_Parse_InvalidSource(t *testing.T) {
	adapter := NewLocalGoFileAdapter()
	fset := token.NewFileSet()

	if _, err := adapter.Parse(context.Background(), fset, "broken.go", []byte("package foo\n func")); err == nil {
		t.Fatalf("Parse() expected error for invalid source")
	}
}

func TestLocalGoFileAdapter_Parse_ContextCancellation(t *testing.T) {
	adapter := NewLocalGoFileAdapter()
	fset := token.NewFileSet()

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	if _, err := adapter.Parse(ctx, fset, "example.go", []byte("package main\n func main() {}")); err == nil {
		t.Fatalf("Parse() expected error due to context cancellation")
	}
}

func TestLocalGoFileAdapter_TestFunctions(t *testing.T) {
	adapter := NewLocalGoFileAdapter()
	fset := token.NewFileSet()

	exampleFile := filepath.Join(examplePath(t, "calc"), "calc_test.go")

	file, err := adapter.Parse(context.Background(), fset, exampleFile, readFileBytes(t, exampleFile))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	tests := adapter.TestFunctions(fset, file)

	want := []struct {
		name string
		line int
	}{
		{"TestAdd", 5},
		{"TestDiv", 11},
		{"TestLater", 25},
	}

	if len(tests) != len(want) {
		t.Fatalf("TestFunctions() = %v, want %d tests", tests, len(want))
	}

	for i, w := range want {
		if tests[i].Name != w.name || tests[i].Line != w.line {
			t.Errorf("TestFunctions()[%d] = %s:%d, want %s:%d", i, tests[i].Name, tests[i].Line, w.name, w.line)
		}

		if tests[i].File.Base() != "calc_test.go" {
			t.Errorf("TestFunctions()[%d].File = %s", i, tests[i].File)
		}
	}
}

func TestLocalGoFileAdapter_TestFunctions_Shapes(t *testing.T) {
	src := `package p

import "testing"

func TestMain(m *testing.M) {}
func Testlower(t *testing.T) {}
func Test(t *testing.T) {}
func TestÄrger(t *testing.T) {}
func TestTwo(a, b *testing.T) {}
func TestResult(t *testing.T) error { return nil }
func TestBench(b *testing.B) {}
func TestGeneric[T any](t *testing.T) {}
func (s suite) TestMethod(t *testing.T) {}
func Test_under(t *testing.T) {}
`

	adapter := NewLocalGoFileAdapter()
	fset := token.NewFileSet()

	file, err := adapter.Parse(context.Background(), fset, "shapes_test.go", []byte(src))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	var names []string
	for _, fn := range adapter.TestFunctions(fset, file) {
		names = append(names, fn.Name)
	}

	want := []string{"Test", "TestÄrger", "Test_under"}
	if len(names) != len(want) {
		t.Fatalf("TestFunctions() = %v, want %v", names, want)
	}

	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("TestFunctions() = %v, want %v", names, want)
		}
	}
}
