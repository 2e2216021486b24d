package adapter

import (
	"context"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
	"unicode"
	"unicode/utf8"

	m "testtree.dev/pkg/testtree/internal/model"
)

// TestFunc is a top-level test function found in a _test.go file.
type TestFunc struct {
	Name string
	File m.Path
	Line int
}

// GoFileAdapter encapsulates Go parsing so backends can discover test
// functions without touching go/ast directly.
type GoFileAdapter interface {
	// Parse builds an AST using the provided file set and optional source bytes.
	Parse(ctx context.Context, fileSet *token.FileSet, filename string, src []byte) (*ast.File, error)

	// TestFunctions returns the TestXxx functions declared in file, in source order.
	TestFunctions(fileSet *token.FileSet, file *ast.File) []TestFunc
}

// LocalGoFileAdapter provides a concrete GoFileAdapter backed by go/parser.
type LocalGoFileAdapter struct{}

// NewLocalGoFileAdapter constructs a LocalGoFileAdapter.
func NewLocalGoFileAdapter() *LocalGoFileAdapter {
	return &LocalGoFileAdapter{}
}

// Parse builds an AST for the provided filename/source pair.
func (a *LocalGoFileAdapter) Parse(ctx context.Context, fileSet *token.FileSet, filename string, src []byte) (*ast.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return parser.ParseFile(fileSet, filename, src, parser.SkipObjectResolution)
}

// TestFunctions finds functions shaped like func TestXxx(t *testing.T).
func (a *LocalGoFileAdapter) TestFunctions(fileSet *token.FileSet, file *ast.File) []TestFunc {
	var tests []TestFunc

	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Recv != nil || !isTestName(fn.Name.Name) || !takesTestingT(fn.Type) {
			continue
		}

		pos := fileSet.Position(fn.Pos())
		tests = append(tests, TestFunc{
			Name: fn.Name.Name,
			File: m.Path(pos.Filename),
			Line: pos.Line,
		})
	}

	return tests
}

// isTestName follows the go test rule: "Test" followed by nothing or a non-lowercase rune.
func isTestName(name string) bool {
	if !strings.HasPrefix(name, "Test") || name == "TestMain" {
		return false
	}

	rest := name[len("Test"):]
	if rest == "" {
		return true
	}

	r, _ := utf8.DecodeRuneInString(rest)

	return !unicode.IsLower(r)
}

func takesTestingT(ft *ast.FuncType) bool {
	if ft.TypeParams != nil || ft.Results != nil && len(ft.Results.List) > 0 {
		return false
	}

	if ft.Params == nil || len(ft.Params.List) != 1 || len(ft.Params.List[0].Names) > 1 {
		return false
	}

	star, ok := ft.Params.List[0].Type.(*ast.StarExpr)
	if !ok {
		return false
	}

	sel, ok := star.X.(*ast.SelectorExpr)
	if !ok {
		return false
	}

	pkg, ok := sel.X.(*ast.Ident)

	return ok && pkg.Name == "testing" && sel.Sel.Name == "T"
}
