//go:build typeeq

package identical

import (
	"github.com/sublee/typeeq"

	"github.com/sublee/typeeq/testdata/analysis/Identical/geo"
	"github.com/sublee/typeeq/testdata/analysis/Identical/patha"
	"github.com/sublee/typeeq/testdata/analysis/Identical/pathb"
)

var _ = typeeq.Assert(
	typeeq.Of[geo.Point](),
	typeeq.Of[patha.Point](),
	typeeq.Of[pathb.Point](),
)

var _ = typeeq.Assert(
	typeeq.Of[*patha.Point](),
	typeeq.Of[*pathb.Point](),
)

var _ = typeeq.Assert(
	typeeq.Of[map[string][]geo.Point](),
	typeeq.Of[map[string][]pathb.Point](),
)
