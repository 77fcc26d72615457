// golangcilinttypeeq package provides a plugin for golangci-lint to integrate
// the Typeeq analyzer. To build a custom golangci-lint binary with this
// plugin, use the following command at this package's directory:
//
//	golangci-lint custom
//
// Now you will have a golangci-lint-typeeq binary. Typeeq directives live in
// files with the "typeeq" build tag, so enable the tag in the run
// configuration:
//
//	run:
//	  build-tags: [typeeq]
package golangcilinttypeeq

import (
	"github.com/golangci/plugin-module-register/register"
	"golang.org/x/tools/go/analysis"

	"github.com/sublee/typeeq/pkg/typeeqanalysis"
)

func init() {
	register.Plugin("typeeq", New)
}

func New(settings any) (register.LinterPlugin, error) {
	return TypeeqLinter{}, nil
}

type TypeeqLinter struct{}

func (TypeeqLinter) BuildAnalyzers() ([]*analysis.Analyzer, error) {
	return []*analysis.Analyzer{typeeqanalysis.Analyzer}, nil
}

// GetLoadMode requires type information. The analyzer type-checks the
// assertions in the package scope.
func (TypeeqLinter) GetLoadMode() string {
	return register.LoadModeTypesInfo
}
