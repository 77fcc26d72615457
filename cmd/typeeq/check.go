package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sublee/typeeq/internal/codefmt"
	typeeqinternal "github.com/sublee/typeeq/internal/typeeq"
)

// checkOptions holds flags for the check command.
type checkOptions struct {
	Tags  string
	Tests bool
}

func newCheckCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check [packages]",
		Short: "Check typeeq.Assert directives in packages",
		Long: `Check loads the packages with the "typeeq" build tag and checks every
typeeq.Assert directive. The default package pattern is "./...".`,
		Example: `  typeeq check ./...
  typeeq check -b integration -t ./internal/...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"./..."}
			}
			return runCheck(cmd, rootOpts, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.Tags, "tags", "b", "", "comma-separated build tags in addition to typeeq")
	cmd.Flags().BoolVarP(&opts.Tests, "tests", "t", false, "include test files")

	return cmd
}

func runCheck(cmd *cobra.Command, rootOpts *rootOptions, opts *checkOptions, patterns []string) error {
	formatter := &outputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
		Color:     rootOpts.colorEnabled(cmd.ErrOrStderr()),
	}

	wd, err := os.Getwd()
	if err != nil {
		return &ExitError{Code: ExitUsage, Err: err}
	}

	slog.Debug("loading packages", "patterns", patterns, "tags", opts.Tags, "tests", opts.Tests)
	start := time.Now()

	results, err := typeeqinternal.Main(cmd.Context(), wd, os.Environ(), opts.Tags, opts.Tests, patterns)

	assertions := make([]assertionJSON, 0, len(results))
	for _, r := range results {
		set := r.Artifact.Set
		a := assertionJSON{
			Position:   codefmt.FormatPosition(r.Position()),
			Canonical:  codefmt.Sprintf(set, "%c", set.Canonical()),
			References: len(set.Refs),
			State:      r.State.String(),
		}
		slog.Debug("assertion", "position", a.Position, "canonical", a.Canonical, "state", a.State)
		assertions = append(assertions, a)
	}
	slog.Debug("checked", "assertions", len(assertions), "elapsed", time.Since(start))

	return formatter.Report(assertions, err)
}
