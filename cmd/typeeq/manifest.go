package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sublee/typeeq/internal/codefmt"
	"github.com/sublee/typeeq/internal/manifest"
)

func newManifestCommand(rootOpts *rootOptions) *cobra.Command {
	var tags string

	cmd := &cobra.Command{
		Use:   "manifest FILE",
		Short: "Check assertion sets listed in a YAML manifest",
		Long: `Manifest checks assertion sets listed in a YAML file. Type expressions are
resolved in the Go module containing the file:

  imports:
    geo: example.com/geo
    geo2: example.com/geo/v2
  assertions:
    - name: point
      types:
        - geo.Point
        - geo2.Point`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runManifest(cmd, rootOpts, tags, args[0])
		},
	}

	cmd.Flags().StringVarP(&tags, "tags", "b", "", "comma-separated build tags")

	return cmd
}

func runManifest(cmd *cobra.Command, rootOpts *rootOptions, tags, filename string) error {
	formatter := &outputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
		Color:     rootOpts.colorEnabled(cmd.ErrOrStderr()),
	}

	slog.Debug("checking manifest", "file", filename, "tags", tags)

	results, err := manifest.Check(cmd.Context(), filename, manifest.Config{
		Env:  os.Environ(),
		Tags: tags,
	})

	assertions := make([]assertionJSON, 0, len(results))
	for _, r := range results {
		a := assertionJSON{
			Position:   codefmt.FormatPosition(r.Position()),
			Name:       r.Assertion.Name,
			Canonical:  r.Assertion.Types[0].Expr,
			References: len(r.Assertion.Types),
			State:      r.State.String(),
		}
		slog.Debug("assertion", "name", a.Name, "position", a.Position, "state", a.State)
		assertions = append(assertions, a)
	}

	return formatter.Report(assertions, err)
}
