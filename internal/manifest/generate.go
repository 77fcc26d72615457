package manifest

import (
	"bytes"
	"fmt"
	"go/token"
	"path/filepath"
	"strings"

	"github.com/sublee/typeeq/internal/codefmt"
	typeeqinternal "github.com/sublee/typeeq/internal/typeeq"
)

// PkgName is the package name of generated sources.
const PkgName = "typeeqmanifest"

// Source is a Go source file generated from a manifest. Each assertion is a
// function whose parameter has the wrapper type of the canonical reference. Its
// body assigns the parameter to the wrapper type of every other reference:
//
//	func assertPoint(v ref[geo.Point]) {
//		var _ ref[geo2.Point] = v
//	}
type Source struct {
	Code []byte

	// Param is the name of the parameter in every assertion function.
	Param string

	// arms locates the type references by their manifest positions. The
	// canonical reference has index 0.
	arms map[position]arm
}

type arm struct {
	Assertion *Assertion
	Index     int
}

// position is a manifest position without the offset.
type position struct {
	filename     string
	line, column int
}

func keyOf(pos token.Position) position {
	return position{pos.Filename, pos.Line, pos.Column}
}

// Generate writes the Go source of the manifest. Positions in line directives
// are absolute if the manifest filename is absolute.
func Generate(m *Manifest) *Source {
	var body bytes.Buffer
	ns := make(codefmt.NS)
	w := codefmt.NewWriter(&body, ns)

	// Import names are chosen by the manifest. Reserve them first and never
	// rename them, or type expressions would refer to other packages.
	importPos := make(map[string]token.Position)
	for _, imp := range m.Imports {
		if name := w.Import(imp.Path, imp.Name); name != imp.Name {
			panic(fmt.Sprintf("import name %s is declared twice", imp.Name))
		}
		importPos[imp.Name] = imp.Pos
	}
	for _, a := range m.Assertions {
		for _, t := range a.Types {
			ns.ReserveIdents(t.expr)
		}
	}

	ref := w.Name("ref")
	src := &Source{
		Param: w.Name("v"),
		arms:  make(map[position]arm),
	}

	w.Printf("type %s[T any] struct{ _ [0]T }\n", ref)
	for i := range m.Assertions {
		a := &m.Assertions[i]
		canonical := a.Types[0]
		src.arms[keyOf(canonical.Pos)] = arm{a, 0}

		w.Printf("\n// %s\n", strings.Join(strings.Fields(a.Name), " "))
		w.Printf("func %s(%s %s[%s%s]) {\n", w.Name("assert "+a.Name), src.Param, ref, codefmt.LineDirective(canonical.Pos), canonical.Expr)
		for j, t := range a.Types[1:] {
			w.Printf("\tvar _ %s[%s%s] = %s%s\n", ref, codefmt.LineDirective(t.Pos), t.Expr, codefmt.LineDirective(t.Pos), src.Param)
			src.arms[keyOf(t.Pos)] = arm{a, j + 1}
		}
		w.Printf("}\n")
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "// Code generated by github.com/sublee/typeeq%s from %s. DO NOT EDIT.\n\n", versionSuffix(), filepath.Base(m.Filename))
	fmt.Fprintf(&buf, "package %s\n", PkgName)
	if len(importPos) != 0 {
		fmt.Fprintf(&buf, "\nimport (\n")
		for name, path := range w.Imports() {
			fmt.Fprintf(&buf, "\t%s%s %q\n", codefmt.LineDirective(importPos[name]), name, path)
		}
		fmt.Fprintf(&buf, ")\n")
	}
	fmt.Fprintf(&buf, "\n")
	buf.Write(body.Bytes())

	src.Code = buf.Bytes()
	return src
}

func versionSuffix() string {
	if typeeqinternal.Version == "" {
		return ""
	}
	return "@" + typeeqinternal.Version
}
