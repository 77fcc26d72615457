package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/spf13/cobra"
)

// rootOptions holds global flags for all commands.
type rootOptions struct {
	Verbose bool
	Format  string // "text" | "json"
	Color   string // "auto" | "always" | "never"
}

var (
	validFormats = []string{"text", "json"}
	validColors  = []string{"auto", "always", "never"}
)

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "typeeq",
		Short: "Check that type references denote one identical type",
		Long: `Typeeq checks typeeq.Assert directives in files with the "typeeq" build tag,
or assertion sets listed in a YAML manifest. Every type reference of an
assertion must be identical to the first one.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(validFormats, opts.Format) {
				return usageErrorf("invalid format %q: must be one of %v", opts.Format, validFormats)
			}
			if !slices.Contains(validColors, opts.Color) {
				return usageErrorf("invalid color %q: must be one of %v", opts.Color, validColors)
			}
			slog.SetDefault(newLogger(cmd.ErrOrStderr(), opts.Verbose))
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json)")
	cmd.PersistentFlags().StringVar(&opts.Color, "color", "auto", "colorize diagnostics (auto|always|never)")

	cmd.AddCommand(newCheckCommand(opts))
	cmd.AddCommand(newManifestCommand(opts))

	return cmd
}

// newLogger creates a text logger for diagnostic output. Debug logs are
// enabled only in verbose mode.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// colorEnabled decides whether diagnostics written to w are colorized.
func (o *rootOptions) colorEnabled(w io.Writer) bool {
	switch o.Color {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := w.(*os.File)
	return ok && isatty(f)
}

func usageErrorf(format string, args ...any) error {
	return &ExitError{Code: ExitUsage, Message: fmt.Sprintf(format, args...)}
}
