//go:build typeeq

package withtests

import "github.com/sublee/typeeq"

type A struct{}
type B struct{}

var _ = typeeq.Assert(
	typeeq.Of[A](),
	typeeq.Of[B](),
)
