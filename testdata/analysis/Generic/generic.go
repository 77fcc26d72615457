//go:build typeeq

package generic

import "github.com/sublee/typeeq"

type (
	IntKind    int
	StringKind string
)

type Container[T any] struct{ items []T }

type IntContainer = Container[IntKind]

var _ = typeeq.Assert(
	typeeq.Of[Container[IntKind]](),
	typeeq.Of[IntContainer](),
)

var _ = typeeq.Assert(
	typeeq.Of[Container[IntKind]](),
	typeeq.Of[Container[StringKind]](), // want `(?s)mismatched type Container\[StringKind\]; canonical type is Container\[IntKind\].*both instantiate Container with different type arguments`
)

var _ = typeeq.Assert(
	typeeq.Of[Container[IntKind]](),
	typeeq.Of[Container[int]](), // want `mismatched type Container\[int\]; canonical type is Container\[IntKind\]`
)
