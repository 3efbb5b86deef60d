// Package discovery counts declared test functions in a Go package
// directory. It satisfies the stress.TestCounter capability: the harness
// only needs an integer, so discovery stays entirely outside the
// scheduling core.
package discovery

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Counter counts test functions declared in the _test.go files of a single
// directory. Tests whose body immediately skips (t.Skip, t.Skipf,
// t.SkipNow as the first statement) are excluded unless IncludeSkipped is
// set, mirroring how permanently-ignored tests should not consume a share
// of the build budget.
type Counter struct {
	Dir            string
	IncludeSkipped bool
}

// New returns a Counter for the given package directory.
func New(dir string) *Counter {
	return &Counter{Dir: dir}
}

// CountTests parses every _test.go file in the directory and returns the
// number of test functions found.
func (c *Counter) CountTests() (int, error) {
	entries, err := os.ReadDir(c.Dir)
	if err != nil {
		return 0, fmt.Errorf("reading test directory: %w", err)
	}

	fset := token.NewFileSet()
	count := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), "_test.go") {
			continue
		}
		path := filepath.Join(c.Dir, entry.Name())
		file, err := parser.ParseFile(fset, path, nil, parser.SkipObjectResolution)
		if err != nil {
			return 0, fmt.Errorf("parsing %s: %w", entry.Name(), err)
		}
		count += c.countInFile(file)
	}
	return count, nil
}

func (c *Counter) countInFile(file *ast.File) int {
	count := 0
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Recv != nil {
			continue
		}
		if !isTestName(fn.Name.Name) {
			continue
		}
		if !hasSingleTestingParam(fn) {
			continue
		}
		if !c.IncludeSkipped && skipsImmediately(fn) {
			continue
		}
		count++
	}
	return count
}

// isTestName follows the go test convention: a "Test" prefix followed by
// nothing or a character that is not a lower-case letter. TestMain is the
// harness entry point, not a test.
func isTestName(name string) bool {
	if name == "TestMain" {
		return false
	}
	if !strings.HasPrefix(name, "Test") {
		return false
	}
	rest := strings.TrimPrefix(name, "Test")
	if rest == "" {
		return true
	}
	r, _ := utf8.DecodeRuneInString(rest)
	return !unicode.IsLower(r)
}

func hasSingleTestingParam(fn *ast.FuncDecl) bool {
	params := fn.Type.Params
	if params == nil || len(params.List) != 1 {
		return false
	}
	star, ok := params.List[0].Type.(*ast.StarExpr)
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

// skipsImmediately reports whether the first statement of the function is
// an unconditional t.Skip/t.Skipf/t.SkipNow call.
func skipsImmediately(fn *ast.FuncDecl) bool {
	if fn.Body == nil || len(fn.Body.List) == 0 {
		return false
	}
	expr, ok := fn.Body.List[0].(*ast.ExprStmt)
	if !ok {
		return false
	}
	call, ok := expr.X.(*ast.CallExpr)
	if !ok {
		return false
	}
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return false
	}
	switch sel.Sel.Name {
	case "Skip", "Skipf", "SkipNow":
		return true
	}
	return false
}
