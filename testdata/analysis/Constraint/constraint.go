//go:build typeeq

package constraint

import "github.com/sublee/typeeq"

var _ = typeeq.Assert(typeeq.Of[int]())
