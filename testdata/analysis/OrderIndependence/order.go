//go:build typeeq

package order

import "github.com/sublee/typeeq"

type (
	A struct{}
	B = A
	C = B
	D struct{}
)

var _ = typeeq.Assert(typeeq.Of[A](), typeeq.Of[B](), typeeq.Of[C]())
var _ = typeeq.Assert(typeeq.Of[C](), typeeq.Of[A](), typeeq.Of[B]())
var _ = typeeq.Assert(typeeq.Of[B](), typeeq.Of[C](), typeeq.Of[A]())

var _ = typeeq.Assert(typeeq.Of[A](), typeeq.Of[D](), typeeq.Of[B]()) // want `mismatched type D; canonical type is A`
var _ = typeeq.Assert(typeeq.Of[A](), typeeq.Of[B](), typeeq.Of[D]()) // want `mismatched type D; canonical type is A`
var _ = typeeq.Assert(typeeq.Of[D](), typeeq.Of[A](), typeeq.Of[B]()) // want `mismatched type A; canonical type is D` `mismatched type B; canonical type is D`
