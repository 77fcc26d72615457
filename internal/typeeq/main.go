package typeeqinternal

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"go/token"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/go/packages"

	"github.com/sublee/typeeq/internal/codefmt"
	"github.com/sublee/typeeq/internal/typeeq/parse"
)

var Version string

// Main is the main entry point for Typeeq. It is used by the command-line tool
// directly.
//
// ctx is the context for loading packages. If the loading is too slow, ctx can
// cancel the operation. wd is the path of the working directory. env is the
// environment variables to use when running the tool. tags is the build tags to
// use when loading packages in addition to "typeeq". tests indicates whether to
// include test files. And patterns are the package patterns to process.
//
// It returns the results of all assertion sets ordered by package and source
// position. If any usage error or mismatch occurs, it returns a non-nil error
// along with the results checked so far.
func Main(ctx context.Context, wd string, env []string, tags string, tests bool, patterns []string) ([]Result, error) {
	pkgs, err := load(ctx, wd, env, tags, tests, patterns)
	if err != nil {
		return nil, err
	}

	// Packages are independent. Each goroutine owns one package and its slot.
	results := make([][]Result, len(pkgs))
	errs := make([]error, len(pkgs))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, pkg := range pkgs {
		g.Go(func() error {
			results[i], errs[i] = checkPackage(pkg)
			return nil
		})
	}
	_ = g.Wait()

	var all []Result
	for _, rs := range results {
		all = append(all, rs...)
	}
	// errs already contains comprehensive error messages. So we don't need to
	// attach another error message.
	return all, ReorderErrors(errors.Join(errs...))
}

// checkPackage runs [Typeeq] on a package.
func checkPackage(pkg *packages.Package) ([]Result, error) {
	if len(pkg.Errors) != 0 {
		return nil, fmt.Errorf("pkg %q has errors", pkg.Name)
	}

	te, err := New(pkg)
	if err != nil {
		return nil, err
	}

	errs := te.Build()
	errs = errors.Join(errs, te.Check())
	return te.Results(), errs
}

// load loads packages.
func load(ctx context.Context, wd string, env []string, tags string, tests bool, patterns []string) ([]*packages.Package, error) {
	cfg := &packages.Config{
		Mode:       packages.NeedDeps | packages.NeedFiles | packages.NeedImports | packages.NeedName | packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo | packages.NeedForTest,
		Context:    ctx,
		Dir:        wd,
		Env:        env,
		BuildFlags: []string{"-tags=" + parse.BuildTag},
		Tests:      tests,
	}
	if tags != "" {
		cfg.BuildFlags[0] += "," + tags
	}

	// Load the packages based on the provided patterns.
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found: %v", patterns)
	}

	// Check for errors in the loaded packages.
	var errs error
	for _, pkg := range pkgs {
		for _, err := range pkg.Errors {
			if err.Pos == "" {
				errs = errors.Join(errs, errors.New(err.Msg))
				continue
			}

			path, rowcol, _ := strings.Cut(err.Pos, ":")
			if rel, relErr := filepath.Rel(wd, path); relErr == nil {
				err.Pos = rel + ":" + rowcol
			}
			errs = errors.Join(errs, err)
		}
	}
	if errs != nil {
		return nil, &LoadError{errs}
	}

	return dropTestTwins(pkgs), nil
}

// dropTestTwins drops a package if its test variant is also loaded. The test
// variant contains every file of the package, so checking both would report
// each assertion set twice.
func dropTestTwins(pkgs []*packages.Package) []*packages.Package {
	tested := make(map[string]bool)
	for _, pkg := range pkgs {
		if pkg.ForTest != "" && pkg.ForTest == pkg.PkgPath {
			tested[pkg.PkgPath] = true
		}
	}
	return slices.DeleteFunc(pkgs, func(pkg *packages.Package) bool {
		return pkg.ForTest == "" && tested[pkg.PkgPath]
	})
}

// LoadError is returned by [Main] when packages cannot be loaded or
// type-checked.
type LoadError struct{ Err error }

func (e *LoadError) Error() string { return e.Err.Error() }
func (e *LoadError) Unwrap() error { return e.Err }

// Errors flattens joined errors.
func Errors(errs error) []error {
	if errs == nil {
		return nil
	}

	list := []error{errs}
	for i := 0; i < len(list); i++ {
		if u, ok := list[i].(interface{ Unwrap() []error }); ok {
			// errors.Join collapses errors with a single error having Unwrap()
			// []error method. The underlying errors could be retrieved using
			// the Unwrap() method.
			list = append(list, u.Unwrap()...)

			// The underlying errors are appended to the list. So the original
			// error can be removed.
			list[i] = nil
			continue
		}
	}
	return slices.DeleteFunc(list, func(err error) bool {
		return err == nil
	})
}

// ReorderErrors sorts flattened errors by their positions. Errors without
// position come first, ordered by message. It returns nil if errs is nil.
func ReorderErrors(errs error) error {
	if errs == nil {
		return nil
	}

	list := Errors(errs)
	slices.SortStableFunc(list, func(a, b error) int {
		pa, pb := errorPosition(a), errorPosition(b)
		return cmp.Or(
			cmp.Compare(pa.Filename, pb.Filename),
			cmp.Compare(pa.Line, pb.Line),
			cmp.Compare(pa.Column, pb.Column),
			cmp.Compare(a.Error(), b.Error()),
		)
	})
	return errors.Join(list...)
}

func errorPosition(err error) token.Position {
	var codeErr *codefmt.CodeError
	if errors.As(err, &codeErr) {
		return codeErr.Position()
	}
	var posErr codefmt.PositionError
	if errors.As(err, &posErr) {
		return posErr.Position
	}
	return token.Position{}
}
