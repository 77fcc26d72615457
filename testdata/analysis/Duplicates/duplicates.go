//go:build typeeq

package duplicates

import "github.com/sublee/typeeq"

type Point struct{ X, Y int }

var _ = typeeq.Assert(
	typeeq.Of[Point](),
	typeeq.Of[Point](),
	typeeq.Of[Point](),
)

var _ = typeeq.Assert(
	typeeq.Of[int](),
	typeeq.Of[int](),
)
