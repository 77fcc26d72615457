//go:build typeeq

package pointer

import "github.com/sublee/typeeq"

type Point struct{ X, Y int }

var _ = typeeq.Assert(
	typeeq.Of[*Point](),
	typeeq.Of[Point](), // want `(?s)mismatched type Point; canonical type is \*Point.*pointer indirections differ: 1 and 0`
)
