// Command typeeq-vet runs the Typeeq analyzer as a standalone checker. It is
// also usable as a vet tool:
//
//	go vet -vettool=$(which typeeq-vet) -tags=typeeq ./...
package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/sublee/typeeq/pkg/typeeqanalysis"
)

func main() {
	singlechecker.Main(typeeqanalysis.Analyzer)
}
