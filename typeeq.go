// Package typeeq provides directives asserting that type references denote one
// identical type.
//
// The same logical type can be reachable through different import paths: two
// major versions of a module (example.com/geo and example.com/geo/v2), a fork,
// or a package that declares its own copy of a type instead of aliasing it.
// Mixing them compiles as long as no expression crosses the boundary, but code
// that keys values by type at runtime (type switches on any, reflect.Type maps,
// errors.As targets) silently misbehaves. Typeeq turns that into a build-time
// diagnostic.
//
// To start with Typeeq, add a build constraint to files containing Typeeq
// directives. The files are never part of an ordinary build, so the directives
// cost nothing at runtime:
//
//	//go:build typeeq
//
// Then list the references that must be identical. The first one is the
// canonical reference. Every other reference is checked against it:
//
//	var _ = typeeq.Assert(
//		typeeq.Of[geo.Point](),
//		typeeq.Of[render.Point](), // re-exported by render
//		typeeq.Of[store.Point](),  // re-exported by store
//	)
//
// Run the typeeq command, or the analyzer in [github.com/sublee/typeeq/pkg/typeeqanalysis]
// through go vet or golangci-lint:
//
//	go run github.com/sublee/typeeq/cmd/typeeq check ./...
//
// If store.Point were a separately declared struct with the same fields, the
// check fails at the offending reference:
//
//	main.go:12:14: mismatched type store.Point; canonical type is geo.Point
//		cannot use typeeq.Ref[geo.Point]{} (value of struct type typeeq.Ref[geo.Point]) as typeeq.Ref[store.Point] value in array or slice literal
//		declared separately at geo/geo.go:3:6 and store/store.go:5:6
//
// # Identity
//
// Two references are identical when Go's type identity rules say so. Aliases
// resolve to the aliased type, so a chain of "type Point = geo.Point"
// declarations is identical to geo.Point. Separately declared types are never
// identical, even with the same name and fields. Instantiations of one generic
// type are identical only when their type arguments are identical, so
// Container[int] and Container[string] differ.
//
// A single reference always passes. It reserves an assertion point before a
// second version exists. Repeated references always pass.
package typeeq

// Ref carries a type as its type parameter and nothing else. The Typeeq checker
// proves that Ref of the canonical reference can stand for Ref of every other
// reference, which holds exactly when the type arguments are identical.
type Ref[T any] struct{ _ [0]T }

func (Ref[T]) typeRef() {}

// Reference is implemented by [Ref] only. Use [Of] to make one.
type Reference interface{ typeRef() }

// assertion is the result of [Assert]. It is unexported so that an assertion
// can only be discarded.
type assertion struct{}

// Of refers to the type T. Use it only as an argument of [Assert]:
//
//	typeeq.Of[geo.Point]()
//	typeeq.Of[geo.Container[int]]()
//	typeeq.Of[*geo.Point]()
func Of[T any]() Ref[T] {
	return Ref[T]{}
}

// Assert declares that all the given references denote one identical type. The
// first reference is canonical. At least one reference is required. The result
// must be assigned to the blank identifier:
//
//	var _ = typeeq.Assert(typeeq.Of[A](), typeeq.Of[B]())
//
// Assert does nothing when executed. The check is performed by the typeeq
// command or analyzer.
func Assert(refs ...Reference) assertion {
	return assertion{}
}
