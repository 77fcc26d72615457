package patha

import "github.com/sublee/typeeq/testdata/analysis/SeparateDecl/geo"

type Point = geo.Point
