package typeeq_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/analysis/analysistest"

	typeeqinternal "github.com/sublee/typeeq/internal/typeeq"
	"github.com/sublee/typeeq/internal/typeeq/parse"
	"github.com/sublee/typeeq/internal/typeeq/synth"
	"github.com/sublee/typeeq/pkg/typeeqanalysis"
)

// TestAnalysis tests usage and mismatch errors using the Go analysis protocol.
// In this test, Typeeq errors will be reported as analysis errors.
// "// want `REGEXP`" comments in the fixture source files are used to check for
// expected analysis errors.
//
// The directory structure of testdata for subtests is as follows:
//
//	testdata/
//	└── analysis/
//	    ├── pkg1/
//	    │   ├── *.go  // with want comments
//	    │   └── dep/  // imported by pkg1, not analyzed
//	    └── pkg2/
//	        └── *.go  // with want comments
func TestAnalysis(t *testing.T) {
	ents, err := os.ReadDir(filepath.FromSlash("testdata/analysis"))
	require.NoError(t, err)

	t.Setenv("GOFLAGS", "-tags=typeeq")

	for _, ent := range ents {
		if !ent.IsDir() {
			continue
		}

		t.Run(ent.Name(), func(t *testing.T) {
			t.Parallel()

			defer func() {
				if t.Failed() {
					t.Logf("\n\tReproduce:\tgo run ./cmd/typeeq check ./testdata/analysis/%s", ent.Name())
				}
			}()

			analysistest.Run(t, "", typeeqanalysis.Analyzer, "./testdata/analysis/"+ent.Name())
		})
	}
}

// TestMainEntry checks fixtures through the entry point of the command-line
// tool.
func TestMainEntry(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	ctx := context.Background()

	t.Run("Identical", func(t *testing.T) {
		results, err := typeeqinternal.Main(ctx, wd, os.Environ(), "", false, []string{"./testdata/analysis/Identical"})
		require.NoError(t, err)
		require.Len(t, results, 3)
		for _, r := range results {
			assert.Equal(t, typeeqinternal.Verified, r.State, r.String())
		}
	})

	t.Run("SeparateDecl", func(t *testing.T) {
		results, err := typeeqinternal.Main(ctx, wd, os.Environ(), "", false, []string{"./testdata/analysis/SeparateDecl"})
		require.Error(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, typeeqinternal.Rejected, results[0].State)
		assert.Equal(t, typeeqinternal.Rejected, results[1].State)

		errs := typeeqinternal.Errors(err)
		require.Len(t, errs, 2)
		for _, err := range errs {
			var mismatch *synth.MismatchError
			assert.True(t, errors.As(err, &mismatch))
		}
		assert.Contains(t, errs[0].Error(), filepath.FromSlash("testdata/analysis/SeparateDecl/separatedecl.go:16:12: mismatched type pathb.Point; canonical type is geo.Point"))
		assert.Contains(t, errs[1].Error(), filepath.FromSlash("testdata/analysis/SeparateDecl/separatedecl.go:21:12: mismatched type pathb.Point; canonical type is geo.Point"))
	})

	t.Run("Multiple", func(t *testing.T) {
		results, err := typeeqinternal.Main(ctx, wd, os.Environ(), "", false, []string{
			"./testdata/analysis/Singleton",
			"./testdata/analysis/Duplicates",
			"./testdata/analysis/UsageErrors",
		})
		require.Error(t, err)
		assert.NotEmpty(t, results)

		for _, err := range typeeqinternal.Errors(err) {
			var usageErr *parse.UsageError
			assert.True(t, errors.As(err, &usageErr), err.Error())
		}
	})

	t.Run("WithTests", func(t *testing.T) {
		results, err := typeeqinternal.Main(ctx, wd, os.Environ(), "", true, []string{"./testdata/main/WithTests"})
		require.Error(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, typeeqinternal.Rejected, results[0].State)

		errs := typeeqinternal.Errors(err)
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0].Error(), filepath.FromSlash("testdata/main/WithTests/withtests.go:12:12: mismatched type B; canonical type is A"))
	})

	t.Run("LoadError", func(t *testing.T) {
		_, err := typeeqinternal.Main(ctx, wd, os.Environ(), "", false, []string{"./testdata/nonexistent"})
		require.Error(t, err)
	})
}
