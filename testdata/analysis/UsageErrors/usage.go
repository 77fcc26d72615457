//go:build typeeq

package usage

import "github.com/sublee/typeeq"

type Point struct{ X, Y int }

var refs = []typeeq.Reference{
	typeeq.Of[Point](), // want `cannot use typeeq.Of outside typeeq.Assert`
}

var _ = typeeq.Assert()        // want `need at least 1 type reference`
var _ = typeeq.Assert(refs...) // want `cannot spread type references`

var _ = typeeq.Assert(
	typeeq.Of[Point](),
	typeeq.Ref[Point]{}, // want `type reference must be typeeq.Of\[T\]\(\), not typeeq.Ref\[Point\]\{\}`
)

var assertion = typeeq.Assert(typeeq.Of[Point]()) // want `cannot use result of typeeq.Assert; assign it to _`

func f() {
	x := typeeq.Assert(typeeq.Of[Point]()) // want `cannot use result of typeeq.Assert; assign it to _`
	_ = x

	ref := typeeq.Of[Point]() // want `cannot use typeeq.Of outside typeeq.Assert`
	_ = ref
}
