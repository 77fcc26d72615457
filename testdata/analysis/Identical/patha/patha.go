package patha

import "github.com/sublee/typeeq/testdata/analysis/Identical/geo"

type Point = geo.Point
