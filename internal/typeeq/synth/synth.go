// Package synth synthesizes verification artifacts for assertion sets and lets
// the Go type checker decide whether they are well-typed.
//
// For an assertion set of references C, O1 and O2, the artifact has one arm for
// each non-canonical reference. An arm treats a value of the canonical wrapper
// type as the wrapper of the other reference:
//
//	[]typeeq.Ref[O1]{typeeq.Ref[C]{}}
//	[]typeeq.Ref[O2]{typeeq.Ref[C]{}}
//
// Ref is a named generic type, so Ref[C] is assignable to Ref[O] only when C and
// O are identical. Each arm is checked on its own to report every divergent
// reference.
//
// Arms are composite literals rather than a function literal. The checker
// attaches the scope of a function literal to the scope tree of the package,
// which is shared with other analyzers.
package synth

import (
	"errors"
	"go/ast"
	"go/types"
	"strings"

	"github.com/sublee/typeeq/internal/codefmt"
	"github.com/sublee/typeeq/internal/typeeq/parse"
	"github.com/sublee/typeeq/internal/typeinfo"
)

// Artifact is the verification artifact of an assertion set. It borrows the
// type expressions of the caller and must not outlive the package syntax.
type Artifact struct {
	Set parse.AssertionSet

	// Arms has one arm for each non-canonical reference in source order.
	Arms []Arm
}

// Arm asserts that one reference is identical to the canonical reference.
type Arm struct {
	Ref parse.Reference

	// Expr is "[]typeeq.Ref[O]{typeeq.Ref[C]{}}". The canonical value is
	// positioned at the reference so that the checker reports a mismatch there.
	Expr *ast.CompositeLit

	set parse.AssertionSet
}

// Synthesize builds the verification artifact of the assertion set.
func Synthesize(set parse.AssertionSet) Artifact {
	a := Artifact{Set: set}
	for _, ref := range set.Others() {
		a.Arms = append(a.Arms, Arm{
			Ref:  ref,
			Expr: armExpr(set.Canonical(), ref),
			set:  set,
		})
	}
	return a
}

// Verify type-checks the arms and returns an error for each rejected one. The
// errors are joined in source order. It returns nil if the assertion holds.
func (a Artifact) Verify() error {
	verified := typeinfo.NewClasses[struct{}]()
	verified.Put(a.Set.Canonical().Info, struct{}{})

	var errs []error
	for _, arm := range a.Arms {
		if _, ok := verified.Get(arm.Ref.Info); ok {
			// Same as the canonical reference or an accepted arm.
			continue
		}
		if err := arm.Verify(); err != nil {
			errs = append(errs, err)
			continue
		}
		verified.Put(arm.Ref.Info, struct{}{})
	}
	return errors.Join(errs...)
}

// Verify type-checks the arm in the innermost scope of the assertion.
func (arm Arm) Verify() error {
	pkg := arm.set.Pkg()

	err := types.CheckExpr(pkg.Fset, pkg.Types, arm.set.Pos(), arm.Expr, nil)
	if err == nil {
		return nil
	}

	var host types.Error
	if !errors.As(err, &host) || host.Pos != arm.Ref.Pos() {
		// The checker rejected the artifact for another reason than the
		// assignment of the arm.
		return codefmt.Errorf(arm.set, arm.Ref, "cannot verify type %c: %s", arm.Ref, err.Error())
	}
	return newMismatchError(arm.set.Canonical(), arm.Ref, host)
}

// MismatchError is reported when a reference is not identical to the
// canonical reference.
type MismatchError struct {
	Canonical parse.Reference
	Ref       parse.Reference

	// Host is the error of the Go type checker which rejected the arm.
	Host types.Error

	err error
}

func (e *MismatchError) Error() string { return e.err.Error() }
func (e *MismatchError) Unwrap() error { return e.err }

func newMismatchError(canonical, ref parse.Reference, host types.Error) *MismatchError {
	var b strings.Builder
	b.WriteString("mismatched type %c; canonical type is %c\n\t%s")
	args := []any{ref, canonical, host.Msg}
	for _, h := range hints(canonical, ref) {
		b.WriteString("\n\t")
		b.WriteString(h.format)
		args = append(args, h.args...)
	}

	return &MismatchError{
		Canonical: canonical,
		Ref:       ref,
		Host:      host,
		err:       codefmt.Errorf(ref, ref, b.String(), args...),
	}
}

// armExpr builds "[]typeeq.Ref[O]{typeeq.Ref[C]{}}".
func armExpr(canonical, ref parse.Reference) *ast.CompositeLit {
	value := &ast.CompositeLit{
		Type:   refType(canonical, ref),
		Lbrace: ref.End(),
		Rbrace: ref.End(),
	}
	return &ast.CompositeLit{
		Type:   &ast.ArrayType{Lbrack: ref.Pos(), Elt: refType(ref, ref)},
		Lbrace: ref.Pos(),
		Elts:   []ast.Expr{value},
		Rbrace: ref.End(),
	}
}

// refType builds "typeeq.Ref[T]" from "typeeq.Of[T]" as written by the caller,
// positioned at the given reference. The qualifier is kept so that import
// aliases and dot imports work.
func refType(of parse.Reference, at parse.Reference) ast.Expr {
	var fun ast.Expr
	switch x := of.Of.(type) {
	case *ast.SelectorExpr:
		qual, ok := x.X.(*ast.Ident)
		if !ok {
			panic("unexpected typeeq.Of qualifier")
		}
		fun = &ast.SelectorExpr{
			X:   &ast.Ident{NamePos: at.Pos(), Name: qual.Name},
			Sel: &ast.Ident{NamePos: at.Pos(), Name: "Ref"},
		}
	case *ast.Ident:
		fun = &ast.Ident{NamePos: at.Pos(), Name: "Ref"}
	default:
		panic("unexpected typeeq.Of expression")
	}
	return &ast.IndexExpr{
		X:      fun,
		Lbrack: at.Pos(),
		Index:  of.Expr(),
		Rbrack: at.End(),
	}
}
