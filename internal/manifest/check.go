package manifest

import (
	"context"
	"errors"
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/mod/modfile"
	"golang.org/x/tools/go/packages"

	"github.com/sublee/typeeq/internal/codefmt"
	typeeqinternal "github.com/sublee/typeeq/internal/typeeq"
)

// Config configures [Check].
type Config struct {
	// Env is the environment of the Go toolchain. If nil, the current
	// environment is used.
	Env []string

	// Tags are comma-separated build tags.
	Tags string
}

// Result is the outcome of an assertion in a manifest.
type Result struct {
	Assertion *Assertion
	State     typeeqinternal.State

	// Err is the joined errors of the assertion if the state is Rejected.
	Err error
}

// Position returns the position of the assertion in the manifest.
func (r Result) Position() token.Position { return r.Assertion.Pos }

// String formats the assertion name, the canonical type and the state.
//
// e.g., "point: geo.Point (2 references): verified"
func (r Result) String() string {
	a := r.Assertion
	return fmt.Sprintf("%s: %s (%d references): %s", a.Name, a.Types[0].Expr, len(a.Types), r.State)
}

// MismatchError is reported when a type reference in a manifest is not
// identical to the canonical reference.
type MismatchError struct {
	Assertion *Assertion
	Canonical Type
	Ref       Type

	// Host is the message of the Go type checker which rejected the
	// reference.
	Host string

	err codefmt.PositionError
}

func (e *MismatchError) Error() string { return e.err.Error() }
func (e *MismatchError) Unwrap() error { return e.err }

func newMismatchError(a *Assertion, index int, host string) *MismatchError {
	canonical, ref := a.Types[0], a.Types[index]
	return &MismatchError{
		Assertion: a,
		Canonical: canonical,
		Ref:       ref,
		Host:      host,
		err: codefmt.PositionError{
			Position: ref.Pos,
			Msg:      fmt.Sprintf("mismatched type %s; canonical type is %s\n\t%s", ref.Expr, canonical.Expr, host),
		},
	}
}

// Check parses the manifest file and type-checks its assertions in the module
// containing the file. A temporary package is created next to the manifest
// and removed before returning.
//
// It returns the results of all assertions in manifest order. If any usage
// error or mismatch occurs, it returns a non-nil error along with the results.
// A [typeeqinternal.LoadError] is returned without results.
func Check(ctx context.Context, filename string, cfg Config) ([]Result, error) {
	filename, err := filepath.Abs(filename)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filename)
	if err != nil {
		return nil, &typeeqinternal.LoadError{Err: err}
	}
	defer f.Close()

	m, err := Parse(filename, f)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(filename)
	if _, _, err := FindModule(dir); err != nil {
		return nil, &typeeqinternal.LoadError{Err: err}
	}

	tmp, err := os.MkdirTemp(dir, "_typeeq")
	if err != nil {
		return nil, &typeeqinternal.LoadError{Err: err}
	}
	defer os.RemoveAll(tmp)

	src := Generate(m)
	if err := os.WriteFile(filepath.Join(tmp, "typeeq.go"), src.Code, 0o644); err != nil {
		return nil, &typeeqinternal.LoadError{Err: err}
	}

	errs, err := load(ctx, tmp, cfg)
	if err != nil {
		return nil, err
	}
	return src.results(m, errs)
}

// load type-checks the generated package and returns its errors.
func load(ctx context.Context, dir string, cfg Config) ([]packages.Error, error) {
	pcfg := &packages.Config{
		Mode:    packages.NeedName | packages.NeedFiles | packages.NeedImports | packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo,
		Context: ctx,
		Dir:     dir,
		Env:     cfg.Env,
	}
	if cfg.Tags != "" {
		pcfg.BuildFlags = []string{"-tags=" + cfg.Tags}
	}

	pkgs, err := packages.Load(pcfg, ".")
	if err != nil {
		return nil, &typeeqinternal.LoadError{Err: fmt.Errorf("failed to load manifest package: %w", err)}
	}
	if len(pkgs) != 1 {
		return nil, &typeeqinternal.LoadError{Err: fmt.Errorf("expected 1 manifest package, got %d", len(pkgs))}
	}
	return typeErrors(pkgs[0].Errors), nil
}

// typeErrors drops the other errors if the type checker reported any. go list
// compiles the generated package for export data and repeats the type errors
// as a single error without a position.
func typeErrors(errs []packages.Error) []packages.Error {
	var typeErrs []packages.Error
	for _, err := range errs {
		if err.Kind == packages.TypeError {
			typeErrs = append(typeErrs, err)
		}
	}
	if len(typeErrs) == 0 {
		return errs
	}
	return typeErrs
}

// results classifies the errors of the generated package by the assertions in
// the manifest.
func (src *Source) results(m *Manifest, pkgErrs []packages.Error) ([]Result, error) {
	byAssertion := make(map[*Assertion]error)

	var loadErrs, errs error
	for _, pkgErr := range pkgErrs {
		pos := parsePosition(pkgErr.Pos)
		if pos.Filename != m.Filename {
			// Not in the manifest.
			loadErrs = errors.Join(loadErrs, pkgErr)
			continue
		}

		var err error
		arm, ok := src.armAt(pos)
		switch {
		case ok && arm.exact && arm.Index != 0 && strings.HasPrefix(pkgErr.Msg, "cannot use "+src.Param+" "):
			err = newMismatchError(arm.Assertion, arm.Index, pkgErr.Msg)
		default:
			err = usageErrorf(pos, "%s", pkgErr.Msg)
		}
		if ok {
			byAssertion[arm.Assertion] = errors.Join(byAssertion[arm.Assertion], err)
		}
		errs = errors.Join(errs, err)
	}
	if loadErrs != nil {
		return nil, &typeeqinternal.LoadError{Err: loadErrs}
	}

	results := make([]Result, len(m.Assertions))
	for i := range m.Assertions {
		a := &m.Assertions[i]
		results[i] = Result{Assertion: a, State: typeeqinternal.Verified}
		if err := byAssertion[a]; err != nil {
			results[i].State = typeeqinternal.Rejected
			results[i].Err = err
		}
	}
	return results, typeeqinternal.ReorderErrors(errs)
}

// located is an arm found by a position.
type located struct {
	arm
	exact bool
}

// armAt finds the type reference at the position. A position inside a type
// expression resolves to the nearest reference starting before it on the same
// line.
func (src *Source) armAt(pos token.Position) (located, bool) {
	if a, ok := src.arms[keyOf(pos)]; ok {
		return located{a, true}, true
	}

	var found located
	col := 0
	for k, a := range src.arms {
		if k.filename == pos.Filename && k.line == pos.Line && k.column <= pos.Column && k.column > col {
			found, col = located{a, false}, k.column
		}
	}
	return found, col != 0
}

// parsePosition parses "file:line:col" or "file:line". The result is invalid if
// the string has no line.
func parsePosition(s string) token.Position {
	var nums []int
	for range 2 {
		i := strings.LastIndexByte(s, ':')
		if i < 0 {
			break
		}
		n, err := strconv.Atoi(s[i+1:])
		if err != nil {
			break
		}
		nums = append(nums, n)
		s = s[:i]
	}

	switch len(nums) {
	case 1:
		return token.Position{Filename: s, Line: nums[0]}
	case 2:
		return token.Position{Filename: s, Line: nums[1], Column: nums[0]}
	}
	return token.Position{Filename: s}
}

// FindModule finds the module containing dir. It returns the root directory
// and the module path.
func FindModule(dir string) (root, path string, err error) {
	for d := dir; ; d = filepath.Dir(d) {
		gomod := filepath.Join(d, "go.mod")
		data, err := os.ReadFile(gomod)
		if err == nil {
			f, err := modfile.ParseLax(gomod, data, nil)
			if err != nil {
				return "", "", err
			}
			if f.Module == nil {
				return "", "", fmt.Errorf("%s: no module directive", gomod)
			}
			return d, f.Module.Mod.Path, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", "", err
		}

		if parent := filepath.Dir(d); parent == d {
			return "", "", fmt.Errorf("%s is not in a Go module", dir)
		}
	}
}
