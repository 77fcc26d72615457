//go:build typeeq

package importnames

import te "github.com/sublee/typeeq"

type (
	A struct{}
	B = A
	C struct{}
)

var _ = te.Assert(te.Of[A](), te.Of[B]())
var _ = te.Assert(te.Of[A](), te.Of[C]()) // want `mismatched type C; canonical type is A`
