package codefmt

import (
	"go/ast"
	"go/token"
	"io"

	"golang.org/x/tools/go/packages"
)

// FormatExpr is a shorthand for [Formatter.Expr].
func FormatExpr(pkger Pkger, expr ast.Expr) string {
	return newByPkger(pkger).Expr(expr)
}

// FormatPos is a shorthand for [Formatter.Pos].
func FormatPos(pkger Pkger, pos token.Pos) string {
	return newByPkger(pkger).Pos(pos)
}

func Sprintf(pkger Pkger, format string, args ...any) string {
	return newByPkger(pkger).Sprintf(format, args...)
}

func Fprintf(pkger Pkger, w io.Writer, format string, args ...any) (int, error) {
	return newByPkger(pkger).Fprintf(w, format, args...)
}

func Errorf(pkger Pkger, poser Poser, format string, args ...any) error {
	return newByPkger(pkger).Errorf(poser, format, args...)
}

type pkger struct{ pkg *packages.Package }

func (p pkger) Pkg() *packages.Package { return p.pkg }
func Pkg(pkg *packages.Package) Pkger  { return pkger{pkg} }

type poser struct{ pos, end token.Pos }

func (p poser) Pos() token.Pos { return p.pos }
func (p poser) End() token.Pos { return p.end }
func Pos(pos token.Pos) Poser  { return poser{pos, token.NoPos} }

// Span returns a [Poser] which also implements [Ender].
func Span(pos, end token.Pos) Poser { return poser{pos, end} }
