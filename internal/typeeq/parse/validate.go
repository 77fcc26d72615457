package parse

import (
	"errors"
	"go/ast"
	"go/token"
	"strings"
)

// Validate checks for usages outside expected paths. It collects all errors
// instead of stopping at the first error.
//
// Many validation rules are implemented in the expected paths by narrow parsing
// functions. But some rules need to be checked globally. That's what this
// function does.
func (p *Parser) Validate() error {
	var errs error
	for _, file := range p.Pkg().Syntax {
		errs = errors.Join(errs, p.validateConstraint(file))
	}
	errs = errors.Join(errs, p.validateDirectiveUsages())
	return errs
}

// validateConstraint checks if files importing "github.com/sublee/typeeq" have
// "//go:build typeeq" constraint.
func (p *Parser) validateConstraint(file *ast.File) error {
	var typeeqImport *ast.ImportSpec
	for _, imp := range file.Imports {
		if IsTypeeqImport(strings.Trim(imp.Path.Value, `"`)) {
			typeeqImport = imp
			break
		}
	}
	if typeeqImport == nil {
		return nil
	}

	if hasGoBuildTypeeq(file) {
		return nil
	}

	// Without the constraint, the assertions would be linked into the program.
	return p.usageErrorf(typeeqImport, `file must have "//go:build %s" constraint when importing typeeq`, BuildTag)
}

// validateDirectiveUsages checks where Typeeq directives appear.
//
// An Assert call must be a statement or assigned to the blank identifier. Its
// result means nothing. An Of call must be an argument of an Assert call.
func (p *Parser) validateDirectiveUsages() error {
	var errs error
	p.ins.WithStack([]ast.Node{(*ast.CallExpr)(nil)}, func(node ast.Node, push bool, stack []ast.Node) bool {
		if !push {
			return true
		}

		call := node.(*ast.CallExpr)
		directive, ok := p.GetDirective(call)
		if !ok {
			return true
		}

		parent, child := parentOf(stack)
		switch directive {
		case "Assert":
			if !isBlankValue(parent, child) {
				errs = errors.Join(errs, p.usageErrorf(call, "cannot use result of typeeq.Assert; assign it to _"))
			}
		case "Of":
			if outer, ok := parent.(*ast.CallExpr); !ok || outer.Fun == child || !p.IsDirective(outer, "Assert") {
				errs = errors.Join(errs, p.usageErrorf(call, "cannot use typeeq.Of outside typeeq.Assert"))
			}
		}
		return true
	})
	return errs
}

// parentOf returns the nearest non-paren ancestor of the last node in the
// stack and its child on the path to the last node.
func parentOf(stack []ast.Node) (parent, child ast.Node) {
	child = stack[len(stack)-1]
	for i := len(stack) - 2; i >= 0; i-- {
		if _, ok := stack[i].(*ast.ParenExpr); ok {
			child = stack[i]
			continue
		}
		return stack[i], child
	}
	return nil, child
}

// isBlankValue reports whether the expression is evaluated only for its side
// effects: as an expression statement or assigned to the blank identifier.
//
//	typeeq.Assert(...)
//	var _ = typeeq.Assert(...)
//	_ = typeeq.Assert(...)
func isBlankValue(parent, expr ast.Node) bool {
	switch parent := parent.(type) {
	case *ast.ExprStmt:
		return true
	case *ast.ValueSpec:
		for i, value := range parent.Values {
			if value == expr {
				return i < len(parent.Names) && parent.Names[i].Name == "_"
			}
		}
	case *ast.AssignStmt:
		if parent.Tok != token.ASSIGN {
			return false
		}
		for i, rh := range parent.Rhs {
			if rh == expr && i < len(parent.Lhs) {
				id, ok := parent.Lhs[i].(*ast.Ident)
				return ok && id.Name == "_"
			}
		}
	}
	return false
}
