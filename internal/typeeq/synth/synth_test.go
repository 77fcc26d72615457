package synth_test

import (
	"errors"
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	typeeqinternal "github.com/sublee/typeeq/internal/typeeq"
	"github.com/sublee/typeeq/internal/typeeq/parse"
	"github.com/sublee/typeeq/internal/typeeq/synth"
	"github.com/sublee/typeeq/internal/typeeq/typeeqtest"
)

func synthesize(t *testing.T, src string, deps ...typeeqtest.Dep) []synth.Artifact {
	t.Helper()

	pkg := typeeqtest.Load(t, src, deps...)
	p, err := parse.New(pkg)
	require.NoError(t, err)

	sets, err := p.ParseAssertions()
	require.NoError(t, err)

	var arts []synth.Artifact
	for _, set := range sets {
		art := synth.Synthesize(set)
		verifyArms(t, art)
		arts = append(arts, art)
	}
	return arts
}

// verifyArms type-checks every arm directly, including the arms that
// [synth.Artifact.Verify] skips by identity. An arm must be accepted if and
// only if its reference is identical to the canonical reference.
func verifyArms(t *testing.T, art synth.Artifact) {
	t.Helper()

	canonical := art.Set.Canonical()
	for _, arm := range art.Arms {
		err := arm.Verify()
		if canonical.Info.Identical(arm.Ref.Info) {
			assert.NoError(t, err, "arm %d", arm.Ref.Index)
			continue
		}

		var mismatch *synth.MismatchError
		assert.ErrorAs(t, err, &mismatch, "arm %d", arm.Ref.Index)
	}
}

func mismatches(t *testing.T, err error) []*synth.MismatchError {
	t.Helper()

	var out []*synth.MismatchError
	for _, err := range typeeqinternal.Errors(err) {
		var mismatch *synth.MismatchError
		require.ErrorAs(t, err, &mismatch)
		out = append(out, mismatch)
	}
	return out
}

func TestVerifyAlias(t *testing.T) {
	arts := synthesize(t, `//go:build typeeq

package p

import "github.com/sublee/typeeq"

type A struct{}
type B = A
type C = B

var _ = typeeq.Assert(typeeq.Of[A](), typeeq.Of[B](), typeeq.Of[C]())
`)
	require.Len(t, arts, 1)
	require.Len(t, arts[0].Arms, 2)

	assert.NoError(t, arts[0].Verify())
	for _, arm := range arts[0].Arms {
		assert.NoError(t, arm.Verify())
	}
}

func TestVerifySeparateDecl(t *testing.T) {
	arts := synthesize(t, `//go:build typeeq

package p

import "github.com/sublee/typeeq"

type A struct{}
type B struct{}

var _ = typeeq.Assert(typeeq.Of[A](), typeeq.Of[B]())
`)
	require.Len(t, arts, 1)

	err := arts[0].Verify()
	require.Error(t, err)

	ms := mismatches(t, err)
	require.Len(t, ms, 1)
	assert.Equal(t, 1, ms[0].Ref.Index)
	assert.Equal(t, 0, ms[0].Canonical.Index)
	assert.Equal(t, ms[0].Ref.Pos(), ms[0].Host.Pos)

	msg := err.Error()
	assert.Contains(t, msg, "p.go:10:49: mismatched type B; canonical type is A\n\t")
	assert.Contains(t, msg, "cannot use typeeq.Ref[A]{} (value of")
	assert.NotContains(t, msg, "declared separately")
}

func TestVerifyReportsEveryMismatch(t *testing.T) {
	arts := synthesize(t, `//go:build typeeq

package p

import "github.com/sublee/typeeq"

type A struct{}
type B struct{}
type C struct{}
type D = A

var _ = typeeq.Assert(
	typeeq.Of[A](),
	typeeq.Of[B](),
	typeeq.Of[D](),
	typeeq.Of[C](),
	typeeq.Of[B](),
)
`)
	require.Len(t, arts, 1)

	ms := mismatches(t, arts[0].Verify())
	require.Len(t, ms, 3)
	assert.Equal(t, 1, ms[0].Ref.Index)
	assert.Equal(t, 3, ms[1].Ref.Index)
	assert.Equal(t, 4, ms[2].Ref.Index)
}

func TestVerifyOrderIndependence(t *testing.T) {
	arts := synthesize(t, `//go:build typeeq

package p

import "github.com/sublee/typeeq"

type A struct{}
type B = A
type C = A

var _ = typeeq.Assert(typeeq.Of[A](), typeeq.Of[B](), typeeq.Of[C]())
var _ = typeeq.Assert(typeeq.Of[A](), typeeq.Of[C](), typeeq.Of[B]())
var _ = typeeq.Assert(typeeq.Of[C](), typeeq.Of[B](), typeeq.Of[A]())
`)
	require.Len(t, arts, 3)
	for _, art := range arts {
		assert.NoError(t, art.Verify())
	}
}

func TestVerifyGeneric(t *testing.T) {
	arts := synthesize(t, `//go:build typeeq

package p

import "github.com/sublee/typeeq"

type Container[T any] struct{ items []T }
type IntContainer = Container[int]

var _ = typeeq.Assert(
	typeeq.Of[Container[int]](),
	typeeq.Of[IntContainer](),
	typeeq.Of[Container[string]](),
)
`)
	require.Len(t, arts, 1)

	ms := mismatches(t, arts[0].Verify())
	require.Len(t, ms, 1)
	assert.Equal(t, 2, ms[0].Ref.Index)
	assert.Contains(t, ms[0].Error(), "mismatched type Container[string]; canonical type is Container[int]")
	assert.Contains(t, ms[0].Error(), "both instantiate Container with different type arguments")
}

func TestVerifyPointer(t *testing.T) {
	arts := synthesize(t, `//go:build typeeq

package p

import "github.com/sublee/typeeq"

type A struct{}

var _ = typeeq.Assert(typeeq.Of[*A](), typeeq.Of[**A]())
`)
	require.Len(t, arts, 1)

	err := arts[0].Verify()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pointer indirections differ: 1 and 2")
}

func TestVerifySingleton(t *testing.T) {
	arts := synthesize(t, `//go:build typeeq

package p

import "github.com/sublee/typeeq"

type A struct{}

var _ = typeeq.Assert(typeeq.Of[A]())
`)
	require.Len(t, arts, 1)
	assert.Empty(t, arts[0].Arms)
	assert.NoError(t, arts[0].Verify())
}

func TestVerifyDuplicates(t *testing.T) {
	arts := synthesize(t, `//go:build typeeq

package p

import "github.com/sublee/typeeq"

type A struct{}

var _ = typeeq.Assert(typeeq.Of[A](), typeeq.Of[A](), typeeq.Of[A]())
`)
	require.Len(t, arts, 1)
	assert.Len(t, arts[0].Arms, 2)
	assert.NoError(t, arts[0].Verify())
}

func TestVerifyDeps(t *testing.T) {
	geo := typeeqtest.Dep{Path: "example.com/geo", Src: `package geo

type Point struct{ X, Y int }
`}
	geoV2 := typeeqtest.Dep{Path: "example.com/geo/v2", Src: `package geo

type Point struct{ X, Y int }
`}
	pathA := typeeqtest.Dep{Path: "example.com/patha", Src: `package patha

import "example.com/geo"

type Point = geo.Point
`}

	arts := synthesize(t, `//go:build typeeq

package p

import (
	"github.com/sublee/typeeq"

	"example.com/geo"
	geov2 "example.com/geo/v2"
	"example.com/patha"
)

var _ = typeeq.Assert(typeeq.Of[geo.Point](), typeeq.Of[patha.Point]())
var _ = typeeq.Assert(typeeq.Of[geo.Point](), typeeq.Of[geov2.Point]())
`, geo, geoV2, pathA)
	require.Len(t, arts, 2)

	assert.NoError(t, arts[0].Verify())

	err := arts[1].Verify()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mismatched type geov2.Point; canonical type is geo.Point")
	assert.Contains(t, err.Error(), "example.com/geo and example.com/geo/v2 are different major versions of the same module")
	assert.Contains(t, err.Error(), "declared separately at example.com/geo/geo.go:3:6 and example.com/geo/v2/v2.go:3:6")
}

func TestVerifyLocalTypes(t *testing.T) {
	arts := synthesize(t, `//go:build typeeq

package p

import "github.com/sublee/typeeq"

type L struct{}

func f() {
	type L struct{}
	type M = L
	_ = typeeq.Assert(typeeq.Of[L](), typeeq.Of[M]())
}

func g() {
	type M struct{}
	_ = typeeq.Assert(typeeq.Of[L](), typeeq.Of[M]())
}
`)
	require.Len(t, arts, 2)

	// The local L shadows the package level L.
	assert.NoError(t, arts[0].Arms[0].Verify())

	err := arts[1].Verify()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "p.go:17:46: mismatched type M; canonical type is L")
}

func TestImportNames(t *testing.T) {
	t.Run("Alias", func(t *testing.T) {
		arts := synthesize(t, `//go:build typeeq

package p

import te "github.com/sublee/typeeq"

type A struct{}
type B = A
type C struct{}

var _ = te.Assert(te.Of[A](), te.Of[B](), te.Of[C]())
`)
		require.Len(t, arts, 1)
		require.Len(t, arts[0].Arms, 2)
		assert.Equal(t, "[]te.Ref[B]{…}", types.ExprString(arts[0].Arms[0].Expr))
		assert.NoError(t, arts[0].Arms[0].Verify())
		assert.Error(t, arts[0].Arms[1].Verify())
	})

	t.Run("Dot", func(t *testing.T) {
		arts := synthesize(t, `//go:build typeeq

package p

import . "github.com/sublee/typeeq"

type A struct{}
type B = A
type C struct{}

var _ = Assert(Of[A](), Of[B](), Of[C]())
`)
		require.Len(t, arts, 1)
		require.Len(t, arts[0].Arms, 2)
		assert.Equal(t, "[]Ref[B]{…}", types.ExprString(arts[0].Arms[0].Expr))
		assert.NoError(t, arts[0].Arms[0].Verify())
		assert.Error(t, arts[0].Arms[1].Verify())
	})
}

func TestArmExpr(t *testing.T) {
	arts := synthesize(t, `//go:build typeeq

package p

import "github.com/sublee/typeeq"

type A struct{}
type B = A
type C struct{}

var _ = typeeq.Assert(typeeq.Of[A](), typeeq.Of[B](), typeeq.Of[C]())
`)
	require.Len(t, arts, 1)
	require.Len(t, arts[0].Arms, 2)

	var armTypes, values []string
	for _, arm := range arts[0].Arms {
		armTypes = append(armTypes, types.ExprString(arm.Expr.Type))
		require.Len(t, arm.Expr.Elts, 1)
		values = append(values, types.ExprString(arm.Expr.Elts[0]))

		// The value stands at the reference.
		assert.Equal(t, arm.Ref.Pos(), arm.Expr.Elts[0].Pos())
	}
	assert.Equal(t, []string{"[]typeeq.Ref[B]", "[]typeeq.Ref[C]"}, armTypes)
	assert.Equal(t, []string{"typeeq.Ref[A]{}", "typeeq.Ref[A]{}"}, values)

	// Arms are checked independently.
	assert.NoError(t, arts[0].Arms[0].Verify())
	assert.Error(t, arts[0].Arms[1].Verify())

	var mismatch *synth.MismatchError
	assert.True(t, errors.As(arts[0].Verify(), &mismatch))
	assert.Contains(t, mismatch.Error(), "cannot use typeeq.Ref[A]{} (value of")
}
