//go:build typeeq

package majorversion

import (
	"github.com/sublee/typeeq"

	"github.com/sublee/typeeq/testdata/analysis/MajorVersion/geo"
	geov2 "github.com/sublee/typeeq/testdata/analysis/MajorVersion/geo/v2"
)

var _ = typeeq.Assert(
	typeeq.Of[geo.Point](),
	typeeq.Of[geov2.Point](), // want `(?s)mismatched type geov2.Point; canonical type is geo.Point.*MajorVersion/geo and .*MajorVersion/geo/v2 are different major versions of the same module`
)
