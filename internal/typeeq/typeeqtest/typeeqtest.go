// Package typeeqtest type-checks Go source snippets importing typeeq without
// the Go command.
package typeeqtest

import (
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"path"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/packages"
)

// typeeqSrc mirrors the directive API of "github.com/sublee/typeeq".
const typeeqSrc = `package typeeq

type Ref[T any] struct{ _ [0]T }

func (Ref[T]) typeRef() {}

type Reference interface{ typeRef() }

type assertion struct{}

func Of[T any]() Ref[T] { return Ref[T]{} }

func Assert(refs ...Reference) assertion { return assertion{} }
`

type importerFunc func(path string) (*types.Package, error)

func (f importerFunc) Import(path string) (*types.Package, error) { return f(path) }

// Dep is a package the source under test can import.
type Dep struct {
	Path string
	Src  string
}

// Load type-checks the source as package "p" in file "p.go". Besides the
// standard library, the source can import "github.com/sublee/typeeq" and the
// given deps. A dep can import the deps before it.
func Load(t *testing.T, src string, deps ...Dep) *packages.Package {
	t.Helper()

	fset := token.NewFileSet()
	loaded := make(map[string]*types.Package)
	imp := importerFunc(func(importPath string) (*types.Package, error) {
		if pkg, ok := loaded[importPath]; ok {
			return pkg, nil
		}
		return importer.Default().Import(importPath)
	})

	check := func(importPath, filename, src string) (*ast.File, *types.Package, *types.Info) {
		file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
		require.NoError(t, err)

		info := &types.Info{
			Types:      make(map[ast.Expr]types.TypeAndValue),
			Instances:  make(map[*ast.Ident]types.Instance),
			Defs:       make(map[*ast.Ident]types.Object),
			Uses:       make(map[*ast.Ident]types.Object),
			Implicits:  make(map[ast.Node]types.Object),
			Selections: make(map[*ast.SelectorExpr]*types.Selection),
			Scopes:     make(map[ast.Node]*types.Scope),
		}
		conf := types.Config{Importer: imp}
		pkg, err := conf.Check(importPath, fset, []*ast.File{file}, info)
		require.NoError(t, err)
		loaded[importPath] = pkg
		return file, pkg, info
	}

	check("github.com/sublee/typeeq", "typeeq.go", typeeqSrc)
	for _, dep := range deps {
		check(dep.Path, dep.Path+"/"+path.Base(dep.Path)+".go", dep.Src)
	}

	file, pkg, info := check("p", "p.go", src)
	return &packages.Package{
		Name:      pkg.Name(),
		PkgPath:   pkg.Path(),
		Fset:      fset,
		Syntax:    []*ast.File{file},
		Types:     pkg,
		TypesInfo: info,
	}
}
