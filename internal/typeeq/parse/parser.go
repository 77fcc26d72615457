package parse

import (
	"fmt"
	"go/ast"
	"go/build/constraint"
	"strings"

	"golang.org/x/tools/go/ast/inspector"
	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/go/types/typeutil"
)

// BuildTag is the build tag that files containing Typeeq directives must
// require.
const BuildTag = "typeeq"

func IsTypeeqImport(path string) bool {
	// Source code from "wire/internal/wire/parse.go".
	const vendorPart = "vendor/"
	if i := strings.LastIndex(path, vendorPart); i != -1 && (i == 0 || path[i-1] == '/') {
		path = path[i+len(vendorPart):]
	}
	return path == "github.com/sublee/typeeq"
}

// Parser parses an AST of the underlying package to collect Typeeq
// assertions.
type Parser struct {
	pkg *packages.Package
	ins *inspector.Inspector
}

func (p *Parser) Pkg() *packages.Package { return p.pkg }

// New creates a new [Parser].
func New(pkg *packages.Package) (*Parser, error) {
	return NewWithInspector(pkg, nil)
}

// NewWithInspector creates a new [Parser] sharing an inspector of the package
// syntax. If ins is nil, a new inspector is created.
func NewWithInspector(pkg *packages.Package, ins *inspector.Inspector) (*Parser, error) {
	if pkg.Name == "" {
		return nil, fmt.Errorf("need pkg name")
	}
	if pkg.PkgPath == "" {
		return nil, fmt.Errorf("need pkg path")
	}
	if pkg.Types == nil {
		return nil, fmt.Errorf("need pkg types")
	}
	if pkg.Fset == nil {
		return nil, fmt.Errorf("need pkg fset")
	}
	if pkg.Syntax == nil {
		return nil, fmt.Errorf("need pkg syntax")
	}
	if pkg.TypesInfo == nil {
		return nil, fmt.Errorf("need pkg types info")
	}
	if ins == nil {
		ins = inspector.New(pkg.Syntax)
	}
	return &Parser{pkg: pkg, ins: ins}, nil
}

// GetDirective returns the name of the Typeeq function if the call expression
// calls a Typeeq directive. Otherwise, it returns false.
func (p *Parser) GetDirective(call *ast.CallExpr) (string, bool) {
	callee := typeutil.Callee(p.Pkg().TypesInfo, call)
	if callee == nil {
		return "", false
	}

	pkg := callee.Pkg()
	if pkg == nil {
		// Built-in functions like panic()
		return "", false
	}

	if !IsTypeeqImport(pkg.Path()) {
		// Not Typeeq function
		return "", false
	}

	return callee.Name(), true
}

// IsDirective checks if the call expression is a Typeeq directive with the
// given name. If name is empty, it checks if the call is any Typeeq directive.
func (p *Parser) IsDirective(call *ast.CallExpr, name string) bool {
	calleeName, ok := p.GetDirective(call)
	if !ok {
		return false
	}

	if name == "" {
		// Any typeeq directive
		return true
	}

	return calleeName == name
}

// TypeeqGoFiles returns the Go files that have a "//go:build typeeq"
// constraint.
func (p *Parser) TypeeqGoFiles() []*ast.File {
	var files []*ast.File
	for _, file := range p.Pkg().Syntax {
		if hasGoBuildTypeeq(file) {
			files = append(files, file)
		}
	}
	return files
}

// hasGoBuildTypeeq checks if the file has a "//go:build typeeq" constraint. The
// constraint may have other terms but the file must be excluded from builds
// without the typeeq tag.
func hasGoBuildTypeeq(file *ast.File) bool {
	for _, group := range file.Comments {
		if group.Pos() > file.Package {
			// Build constraints must appear before the package clause.
			break
		}
		for _, comment := range group.List {
			if !constraint.IsGoBuild(comment.Text) {
				continue
			}
			expr, err := constraint.Parse(comment.Text)
			if err != nil {
				continue
			}
			with := expr.Eval(func(string) bool { return true })
			without := expr.Eval(func(tag string) bool { return tag != BuildTag })
			return with && !without
		}
	}
	return false
}

// inTypeeqFile reports whether the node is in a file with the "//go:build
// typeeq" constraint.
func (p *Parser) inTypeeqFile(node ast.Node) bool {
	for _, file := range p.TypeeqGoFiles() {
		if file.FileStart <= node.Pos() && node.Pos() <= file.FileEnd {
			return true
		}
	}
	return false
}
