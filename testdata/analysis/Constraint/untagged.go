package constraint

import "github.com/sublee/typeeq" // want `file must have "//go:build typeeq" constraint when importing typeeq`

// Assertions in untagged files are not checked.
var _ = typeeq.Assert(typeeq.Of[int](), typeeq.Of[string]())
