package parse

import (
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsTypeeqImport(t *testing.T) {
	assert.True(t, IsTypeeqImport("github.com/sublee/typeeq"))
	assert.True(t, IsTypeeqImport("vendor/github.com/sublee/typeeq"))
	assert.True(t, IsTypeeqImport("example.com/app/vendor/github.com/sublee/typeeq"))
	assert.False(t, IsTypeeqImport("github.com/sublee/typeeq/pkg/typeeqanalysis"))
	assert.False(t, IsTypeeqImport("example.com/novendor/github.com/sublee/typeeq"))
}

func TestHasGoBuildTypeeq(t *testing.T) {
	tests := []struct {
		header string
		want   bool
	}{
		{"//go:build typeeq\n", true},
		{"//go:build typeeq && linux\n", true},
		{"// Copyright\n\n//go:build typeeq\n", true},
		{"//go:build !typeeq\n", false},
		{"//go:build typeeq || linux\n", false},
		{"//go:build linux\n", false},
		{"", false},
	}
	for _, tt := range tests {
		file, err := parser.ParseFile(token.NewFileSet(), "p.go", tt.header+"\npackage p\n\n//go:build typeeq\n", parser.ParseComments)
		require.NoError(t, err)
		assert.Equal(t, tt.want, hasGoBuildTypeeq(file), "%q", tt.header)
	}
}
