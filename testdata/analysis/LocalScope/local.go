//go:build typeeq

package local

import "github.com/sublee/typeeq"

type Point struct{ X, Y int }

func f() {
	type Alias = Point
	_ = typeeq.Assert(typeeq.Of[Point](), typeeq.Of[Alias]())

	type Point struct{ X, Y int }
	typeeq.Assert(typeeq.Of[Point](), typeeq.Of[Alias]()) // want `mismatched type Alias; canonical type is Point`
}

func g[T any]() {
	_ = typeeq.Assert(typeeq.Of[T](), typeeq.Of[T]())
	_ = typeeq.Assert(typeeq.Of[T](), typeeq.Of[int]()) // want `mismatched type int; canonical type is T`
}
