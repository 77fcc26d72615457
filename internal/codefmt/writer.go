package codefmt

import (
	"fmt"
	"go/token"
	"io"
	"iter"
	"maps"
	"slices"
)

// Writer is a writer for generated code. It keeps track of imports and names
// used by the generated code.
type Writer struct {
	w       io.Writer
	imports map[string]string // name -> import path
	ns      NS
}

// NewWriter creates a new [Writer]. If ns is nil, an empty namespace is used.
func NewWriter(w io.Writer, ns NS) *Writer {
	if ns == nil {
		ns = make(NS)
	}
	return &Writer{
		w:       w,
		imports: make(map[string]string),
		ns:      ns,
	}
}

// Write implements io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	return w.w.Write(p)
}

// Printf writes a formatted string to the underlying writer.
func (w *Writer) Printf(format string, args ...any) (int, error) {
	return fmt.Fprintf(w.w, format, args...)
}

// Name returns a unique name in the namespace of the writer.
func (w *Writer) Name(name string) string {
	return w.ns.Name(name)
}

// Reserve marks a name as used in the namespace of the writer.
func (w *Writer) Reserve(name string) bool {
	return w.ns.Reserve(name)
}

// Import adds an import for the package with the given path and name. It
// returns the name the generated code must use. The name differs from the
// given one only if the given name is already taken.
//
//	geo := w.Import("example.com/geo", "geo")
//	w.Printf("var _ %s.Point", geo)
func (w *Writer) Import(path, name string) string {
	for name := range DisambiguateName(name) {
		if prev, ok := w.imports[name]; ok {
			if prev == path {
				// Already imported with the same name.
				return name
			}
			continue
		}
		if w.ns.Reserve(name) {
			w.imports[name] = path
			return name
		}
	}
	panic("unreachable")
}

// Imports iterates the recorded imports ordered by name.
func (w *Writer) Imports() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, name := range slices.Sorted(maps.Keys(w.imports)) {
			if !yield(name, w.imports[name]) {
				return
			}
		}
	}
}

// LineDirective returns an inline line directive. Positions of the tokens
// following the directive are reported at pos by the Go toolchain. The
// directive must be followed by a token immediately, without a space.
//
// e.g., LineDirective({Filename: "/a/typeeq.yaml", Line: 3, Column: 7}) => "/*line /a/typeeq.yaml:3:7*/"
func LineDirective(pos token.Position) string {
	return fmt.Sprintf("/*line %s:%d:%d*/", pos.Filename, pos.Line, pos.Column)
}
