package parse

import (
	"errors"
	"go/ast"
	"go/token"

	"golang.org/x/tools/go/packages"

	"github.com/sublee/typeeq/internal/codefmt"
	"github.com/sublee/typeeq/internal/typeinfo"
)

// Reference is a type reference written as typeeq.Of[T]() by the caller.
type Reference struct {
	// Index is the position of the reference in its assertion set. The
	// canonical reference has index 0.
	Index int

	// Call is the whole typeeq.Of[T]() call.
	Call *ast.CallExpr

	// Of is the expression referring to the typeeq.Of function, usually
	// "typeeq.Of". It is an *ast.SelectorExpr with a package name, or an
	// *ast.Ident if typeeq is dot-imported.
	Of ast.Expr

	// Info is the type resolved by the type checker.
	Info typeinfo.Type

	expr ast.Expr
	pkg  *packages.Package
}

func (r Reference) Pkg() *packages.Package  { return r.pkg }
func (r Reference) Expr() ast.Expr          { return r.expr }
func (r Reference) TypeInfo() typeinfo.Type { return r.Info }
func (r Reference) Pos() token.Pos          { return r.expr.Pos() }
func (r Reference) End() token.Pos          { return r.expr.End() }

// AssertionSet is an ordered, non-empty list of references declared by a
// typeeq.Assert call. The first reference is canonical.
type AssertionSet struct {
	Refs []Reference

	call *ast.CallExpr
	pkg  *packages.Package
}

func (s AssertionSet) Pkg() *packages.Package { return s.pkg }
func (s AssertionSet) Call() *ast.CallExpr    { return s.call }
func (s AssertionSet) Pos() token.Pos         { return s.call.Pos() }
func (s AssertionSet) End() token.Pos         { return s.call.End() }

// Canonical returns the first reference.
func (s AssertionSet) Canonical() Reference { return s.Refs[0] }

// Others returns the references to check against the canonical one in source
// order.
func (s AssertionSet) Others() []Reference { return s.Refs[1:] }

// ParseAssertions finds and parses all typeeq.Assert calls in files with the
// "//go:build typeeq" constraint. The result is in source order.
func (p *Parser) ParseAssertions() ([]AssertionSet, error) {
	var errs error
	var sets []AssertionSet

	p.ins.Preorder([]ast.Node{(*ast.CallExpr)(nil)}, func(node ast.Node) {
		call := node.(*ast.CallExpr)
		if !p.IsDirective(call, "Assert") || !p.inTypeeqFile(call) {
			return
		}

		set, err := p.ParseAssertion(call)
		if err != nil {
			errs = errors.Join(errs, err)
			return
		}
		sets = append(sets, set)
	})

	return sets, errs
}

// ParseAssertion parses a typeeq.Assert call expression.
func (p *Parser) ParseAssertion(call *ast.CallExpr) (AssertionSet, error) {
	if call.Ellipsis.IsValid() {
		return AssertionSet{}, p.usageErrorf(call, "cannot spread type references")
	}
	if len(call.Args) == 0 {
		return AssertionSet{}, p.usageErrorf(call, "need at least 1 type reference")
	}

	set := AssertionSet{call: call, pkg: p.Pkg()}

	var errs error
	for i, arg := range call.Args {
		ref, err := p.ParseReference(arg)
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		ref.Index = i
		set.Refs = append(set.Refs, ref)
	}

	if errs != nil {
		return AssertionSet{}, errs
	}
	return set, nil
}

// ParseReference parses a typeeq.Of[T]() call expression.
func (p *Parser) ParseReference(expr ast.Expr) (Reference, error) {
	call, ok := ast.Unparen(expr).(*ast.CallExpr)
	if !ok || !p.IsDirective(call, "Of") {
		return Reference{}, p.usageErrorf(expr, "type reference must be typeeq.Of[T](), not %c", expr)
	}

	index, ok := ast.Unparen(call.Fun).(*ast.IndexExpr)
	if !ok {
		// Of has exactly one type parameter and no parameters. There is no way
		// to call it without an explicit instantiation.
		return Reference{}, p.usageErrorf(call, "type reference must be typeeq.Of[T](), not %c", expr)
	}

	switch of := ast.Unparen(index.X).(type) {
	case *ast.Ident:
	case *ast.SelectorExpr:
		if _, ok := of.X.(*ast.Ident); !ok {
			return Reference{}, p.usageErrorf(call, "type reference must be typeeq.Of[T](), not %c", expr)
		}
	default:
		return Reference{}, p.usageErrorf(call, "type reference must be typeeq.Of[T](), not %c", expr)
	}

	typ := p.Pkg().TypesInfo.TypeOf(index.Index)
	if typ == nil {
		return Reference{}, p.usageErrorf(index.Index, "cannot resolve type %c", index.Index)
	}

	return Reference{
		Call: call,
		Of:   ast.Unparen(index.X),
		Info: typeinfo.TypeOf(typ),
		expr: index.Index,
		pkg:  p.Pkg(),
	}, nil
}

// UsageError reports a malformed Typeeq directive. It is independent of type
// identity.
type UsageError struct{ Err error }

func (e *UsageError) Error() string { return e.Err.Error() }
func (e *UsageError) Unwrap() error { return e.Err }

func (p *Parser) usageErrorf(poser codefmt.Poser, format string, args ...any) error {
	return &UsageError{codefmt.Errorf(p, poser, format, args...)}
}
