package typeeqinternal

import (
	"errors"
	"go/token"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"golang.org/x/tools/go/ast/inspector"
	"golang.org/x/tools/go/packages"

	"github.com/sublee/typeeq/internal/codefmt"
	"github.com/sublee/typeeq/internal/typeeq/parse"
	"github.com/sublee/typeeq/internal/typeeq/synth"
)

// State is the state of an assertion set.
type State int

const (
	// Unverified means the artifact has not been type-checked yet.
	Unverified State = iota
	// Verified means all references are identical to the canonical one.
	Verified
	// Rejected means at least one reference is not identical.
	Rejected
)

func (s State) String() string {
	switch s {
	case Verified:
		return "verified"
	case Rejected:
		return "rejected"
	}
	return "unverified"
}

// Result is the outcome of an assertion set.
type Result struct {
	Artifact synth.Artifact
	State    State

	// Err is the joined mismatch errors if the state is Rejected.
	Err error
}

// Position resolves the position of the assertion.
func (r Result) Position() token.Position {
	return r.Artifact.Set.Pkg().Fset.Position(r.Artifact.Set.Pos())
}

// String formats the canonical reference and the state.
//
// e.g., "geo.Point (3 references): verified"
func (r Result) String() string {
	set := r.Artifact.Set
	return codefmt.Sprintf(set, "%c (%d references): %s", set.Canonical(), len(set.Refs), r.State)
}

// Typeeq checks assertions in the target package. Call [Build] and then [Check].
// Usage errors are returned by [Build]. Identity mismatches are returned by
// [Check].
type Typeeq struct {
	p *parse.Parser

	// results holds a *Result for each assertion set by the position of the
	// assertion, in source order.
	results *linkedhashmap.Map
}

// New creates a new [Typeeq] for the given package. If the package does not
// satisfy the requirements, an error is returned. The package must have its
// Syntax, Types and TypesInfo. And it must not have any errors.
func New(pkg *packages.Package) (*Typeeq, error) {
	return NewWithInspector(pkg, nil)
}

// NewWithInspector is like [New] but shares an inspector of the package syntax,
// such as the result of the inspect analyzer.
func NewWithInspector(pkg *packages.Package, ins *inspector.Inspector) (*Typeeq, error) {
	parser, err := parse.NewWithInspector(pkg, ins)
	if err != nil {
		return nil, err
	}
	return &Typeeq{p: parser, results: linkedhashmap.New()}, nil
}

// Pkg returns the target package.
func (te *Typeeq) Pkg() *packages.Package { return te.p.Pkg() }

// Build collects assertion sets and synthesizes their artifacts. It returns
// all usage errors. Well-formed assertion sets are kept even if there are usage
// errors in others.
func (te *Typeeq) Build() error {
	sets, errs := te.p.ParseAssertions()
	errs = errors.Join(errs, te.p.Validate())

	for _, set := range sets {
		te.results.Put(set.Pos(), &Result{
			Artifact: synth.Synthesize(set),
			State:    Unverified,
		})
	}
	return errs
}

// Check verifies the artifacts built by [Build]. It returns all mismatch
// errors in source order.
func (te *Typeeq) Check() error {
	var errs error
	it := te.results.Iterator()
	for it.Next() {
		r := it.Value().(*Result)
		if r.State != Unverified {
			continue
		}

		if err := r.Artifact.Verify(); err != nil {
			r.State = Rejected
			r.Err = err
			errs = errors.Join(errs, err)
			continue
		}
		r.State = Verified
	}
	return errs
}

// Results returns the results of all assertion sets in source order.
func (te *Typeeq) Results() []Result {
	results := make([]Result, 0, te.results.Size())
	for _, v := range te.results.Values() {
		results = append(results, *v.(*Result))
	}
	return results
}

// Result returns the result of the assertion at the given position.
func (te *Typeeq) Result(pos token.Pos) (Result, bool) {
	v, ok := te.results.Get(pos)
	if !ok {
		return Result{}, false
	}
	return *v.(*Result), true
}
