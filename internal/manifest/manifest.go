// Package manifest checks assertion sets listed in a YAML file instead of Go
// source. A manifest names imports and lists the type references of each
// assertion set:
//
//	imports:
//	  geo: example.com/geo
//	  geo2: example.com/geo/v2
//	assertions:
//	  - name: point
//	    types:
//	      - geo.Point
//	      - geo2.Point
//
// The manifest is converted into a Go source file whose positions are mapped
// back to the manifest by line directives. The Go toolchain loads and
// type-checks the file inside the module of the manifest.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"io"

	"golang.org/x/mod/module"
	"gopkg.in/yaml.v3"

	"github.com/sublee/typeeq/internal/codefmt"
)

// Manifest is a parsed manifest file.
type Manifest struct {
	// Filename is the path of the manifest file as given to [Parse].
	Filename string

	// Imports are ordered as written.
	Imports []Import

	Assertions []Assertion
}

// Import binds a name to an import path for type expressions.
type Import struct {
	Name string
	Path string
	Pos  token.Position
}

// Assertion is an assertion set in a manifest. The first type is canonical.
type Assertion struct {
	Name  string
	Types []Type

	// Pos is the position of the canonical reference. If there is none, it
	// is the position of the types or the name.
	Pos token.Position
}

// Type is a type reference in a manifest.
type Type struct {
	// Expr is the type expression normalized by the Go printer.
	Expr string
	Pos  token.Position

	expr ast.Expr
}

// file is the YAML document. Imports are decoded as a node to keep their
// order and positions.
type file struct {
	Imports    yaml.Node   `yaml:"imports"`
	Assertions []assertion `yaml:"assertions"`
}

type assertion struct {
	Name  yaml.Node `yaml:"name"`
	Types yaml.Node `yaml:"types"`
}

// UsageError is returned when a manifest is malformed or one of its type
// references cannot be resolved.
type UsageError struct{ Err error }

func (e *UsageError) Error() string { return e.Err.Error() }
func (e *UsageError) Unwrap() error { return e.Err }

// usageErrorf returns a [UsageError] at the given position of the manifest.
func usageErrorf(pos token.Position, format string, args ...any) error {
	return &UsageError{codefmt.PositionError{
		Position: pos,
		Msg:      fmt.Sprintf(format, args...),
	}}
}

// Parse parses a manifest. All usage errors are joined.
func Parse(filename string, r io.Reader) (*Manifest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f file
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, usageErrorf(token.Position{Filename: filename, Line: 1, Column: 1}, "empty manifest")
		}
		return nil, &UsageError{fmt.Errorf("%s: %w", filename, err)}
	}

	m := &Manifest{Filename: filename}
	var errs error

	imports, err := parseImports(filename, &f.Imports)
	errs = errors.Join(errs, err)
	m.Imports = imports

	for i, a := range f.Assertions {
		assertion, err := parseAssertion(filename, i, a)
		errs = errors.Join(errs, err)
		if err == nil {
			m.Assertions = append(m.Assertions, assertion)
		}
	}

	if len(f.Assertions) == 0 {
		errs = errors.Join(errs, usageErrorf(token.Position{Filename: filename, Line: 1, Column: 1}, "need at least 1 assertion"))
	}
	if errs != nil {
		return nil, errs
	}
	return m, nil
}

func yamlPos(filename string, n *yaml.Node) token.Position {
	return token.Position{Filename: filename, Line: n.Line, Column: n.Column}
}

func parseImports(filename string, n *yaml.Node) ([]Import, error) {
	if n.Kind == 0 || n.Tag == "!!null" {
		// No imports.
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, usageErrorf(yamlPos(filename, n), "imports must be a mapping from names to import paths")
	}

	var imports []Import
	var errs error
	seen := make(map[string]bool)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		imp := Import{Name: key.Value, Path: value.Value, Pos: yamlPos(filename, key)}

		switch {
		case value.Kind != yaml.ScalarNode:
			errs = errors.Join(errs, usageErrorf(yamlPos(filename, value), "import path of %s must be a string", imp.Name))
			continue
		case !token.IsIdentifier(imp.Name) || imp.Name == "_":
			errs = errors.Join(errs, usageErrorf(imp.Pos, "invalid import name %q", imp.Name))
			continue
		case seen[imp.Name]:
			errs = errors.Join(errs, usageErrorf(imp.Pos, "duplicate import name %q", imp.Name))
			continue
		}
		seen[imp.Name] = true
		if err := module.CheckImportPath(imp.Path); err != nil {
			errs = errors.Join(errs, usageErrorf(yamlPos(filename, value), "invalid import path %q", imp.Path))
			continue
		}

		imports = append(imports, imp)
	}
	return imports, errs
}

func parseAssertion(filename string, i int, a assertion) (Assertion, error) {
	out := Assertion{Name: a.Name.Value}
	if out.Name == "" {
		out.Name = fmt.Sprintf("assertion %d", i+1)
	}

	switch {
	case a.Types.Kind != 0:
		out.Pos = yamlPos(filename, &a.Types)
	case a.Name.Kind != 0:
		out.Pos = yamlPos(filename, &a.Name)
	}

	if a.Name.Kind != 0 && a.Name.Kind != yaml.ScalarNode {
		return out, usageErrorf(yamlPos(filename, &a.Name), "assertion name must be a string")
	}
	if a.Types.Kind != 0 && a.Types.Kind != yaml.SequenceNode {
		return out, usageErrorf(out.Pos, "%s: types must be a list of type expressions", out.Name)
	}
	if len(a.Types.Content) == 0 {
		return out, usageErrorf(out.Pos, "%s: need at least 1 type reference", out.Name)
	}

	out.Pos = yamlPos(filename, a.Types.Content[0])

	var errs error
	for _, n := range a.Types.Content {
		pos := yamlPos(filename, n)
		if n.Kind != yaml.ScalarNode {
			errs = errors.Join(errs, usageErrorf(pos, "type reference must be a string"))
			continue
		}

		expr, err := parser.ParseExpr(n.Value)
		if err != nil {
			errs = errors.Join(errs, usageErrorf(pos, "invalid type expression %q", n.Value))
			continue
		}
		out.Types = append(out.Types, Type{
			Expr: types.ExprString(expr),
			Pos:  pos,
			expr: expr,
		})
	}
	return out, errs
}
