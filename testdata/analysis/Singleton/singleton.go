//go:build typeeq

package singleton

import "github.com/sublee/typeeq"

type Point struct{ X, Y int }

// Reserved until a second version of Point exists.
var _ = typeeq.Assert(typeeq.Of[Point]())
