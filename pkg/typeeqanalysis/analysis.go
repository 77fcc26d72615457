// Package typeeqanalysis provides the Typeeq analyzer. It reports malformed
// Typeeq directives and type references which are not identical to the
// canonical reference of their assertion.
//
// The analyzer inspects only files with the "typeeq" build tag, so the driver
// must load packages with the tag:
//
//	go vet -vettool=$(which typeeq-vet) -tags=typeeq ./...
package typeeqanalysis

import (
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
	"golang.org/x/tools/go/packages"

	"github.com/sublee/typeeq/internal/codefmt"
	typeeqinternal "github.com/sublee/typeeq/internal/typeeq"
)

// Analyzer checks Typeeq assertions in the package.
var Analyzer = &analysis.Analyzer{
	Name:     "typeeq",
	Doc:      "check that typeeq.Assert references denote one identical type",
	URL:      "https://pkg.go.dev/github.com/sublee/typeeq/pkg/typeeqanalysis",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

func run(pass *analysis.Pass) (any, error) {
	pkg := &packages.Package{
		Name:      pass.Pkg.Name(),
		PkgPath:   pass.Pkg.Path(),
		Types:     pass.Pkg,
		Fset:      pass.Fset,
		Syntax:    pass.Files,
		TypesInfo: pass.TypesInfo,
	}
	ins := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	te, err := typeeqinternal.NewWithInspector(pkg, ins)
	if err != nil {
		return nil, err
	}

	report(pass, te.Build())
	report(pass, te.Check())
	return nil, nil
}

// report unrolls all errors and reports them as diagnostics.
func report(pass *analysis.Pass, err error) {
	if err == nil {
		return
	}

	errs := []error{err}
	for len(errs) != 0 {
		err := errs[0]
		errs = errs[1:]

		if codeErr, ok := err.(*codefmt.CodeError); ok {
			pass.Report(analysis.Diagnostic{
				Pos:     codeErr.Pos(),
				End:     codeErr.End(),
				Message: codeErr.Unwrap().Error(),
			})
			continue
		}

		switch u := err.(type) {
		case interface{ Unwrap() []error }:
			errs = append(errs, u.Unwrap()...)
		case interface{ Unwrap() error }:
			// UsageError and MismatchError wrap a CodeError.
			errs = append(errs, u.Unwrap())
		}
	}
}
