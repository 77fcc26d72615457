package pathb

import "github.com/sublee/typeeq/testdata/analysis/Identical/patha"

type Point = patha.Point
