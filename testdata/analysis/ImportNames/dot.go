//go:build typeeq

package importnames

import . "github.com/sublee/typeeq"

var _ = Assert(Of[A](), Of[B]())
var _ = Assert(Of[B](), Of[C]()) // want `mismatched type C; canonical type is B`
