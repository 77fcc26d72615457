//go:build typeeq

package separatedecl

import (
	"github.com/sublee/typeeq"

	"github.com/sublee/typeeq/testdata/analysis/SeparateDecl/geo"
	"github.com/sublee/typeeq/testdata/analysis/SeparateDecl/patha"
	"github.com/sublee/typeeq/testdata/analysis/SeparateDecl/pathb"
)

var _ = typeeq.Assert(
	typeeq.Of[geo.Point](),
	typeeq.Of[patha.Point](),
	typeeq.Of[pathb.Point](), // want `mismatched type pathb.Point; canonical type is geo.Point`
)

var _ = typeeq.Assert(
	typeeq.Of[geo.Point](),
	typeeq.Of[pathb.Point](), // want `(?s)mismatched type pathb.Point.*declared separately at`
)
