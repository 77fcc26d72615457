package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"

	"golang.org/x/sys/unix"

	"github.com/sublee/typeeq/internal/codefmt"
	"github.com/sublee/typeeq/internal/manifest"
	typeeqinternal "github.com/sublee/typeeq/internal/typeeq"
	"github.com/sublee/typeeq/internal/typeeq/synth"
)

// Exit codes.
const (
	ExitOK       = 0 // All assertions verified
	ExitMismatch = 1 // A type reference is not identical to its canonical reference
	ExitUsage    = 2 // Malformed directive or manifest, or packages cannot be loaded
)

// ExitError is an error with an exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error

	// Reported is true if the error has already been written by the command.
	Reported bool
}

func (e *ExitError) Error() string {
	if e.Err != nil && e.Message != "" {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *ExitError) Unwrap() error { return e.Err }

// exitCode extracts the exit code from an error. Errors from cobra, such as an
// unknown flag, are usage errors.
func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitUsage
}

// classify decides the exit code for errors returned by checks. Usage and load
// errors take precedence over mismatches.
func classify(err error) int {
	if err == nil {
		return ExitOK
	}

	code := ExitOK
	for _, err := range typeeqinternal.Errors(err) {
		var (
			mismatch         *synth.MismatchError
			manifestMismatch *manifest.MismatchError
		)
		if errors.As(err, &mismatch) || errors.As(err, &manifestMismatch) {
			code = max(code, ExitMismatch)
			continue
		}
		code = max(code, ExitUsage)
	}
	return code
}

// assertionJSON is an assertion in the JSON output.
type assertionJSON struct {
	Position   string `json:"position"`
	Name       string `json:"name,omitempty"`
	Canonical  string `json:"canonical"`
	References int    `json:"references"`
	State      string `json:"state"`
}

// diagnosticJSON is an error in the JSON output.
type diagnosticJSON struct {
	Position string `json:"position,omitempty"`
	Message  string `json:"message"`
}

// response is the JSON output of a command.
type response struct {
	Status     string           `json:"status"` // "ok" or "error"
	Assertions []assertionJSON  `json:"assertions"`
	Errors     []diagnosticJSON `json:"errors,omitempty"`
}

// outputFormatter writes results in text or JSON.
type outputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer
	Verbose   bool
	Color     bool
}

// Report writes the assertions and the errors of a check. It returns an
// [ExitError] if err is not nil.
func (f *outputFormatter) Report(assertions []assertionJSON, err error) error {
	if f.Format == "json" {
		resp := response{Status: "ok", Assertions: assertions}
		if resp.Assertions == nil {
			resp.Assertions = []assertionJSON{}
		}
		if err != nil {
			resp.Status = "error"
			resp.Errors = diagnostics(err)
		}

		enc := json.NewEncoder(f.Writer)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(resp); encErr != nil {
			return &ExitError{Code: ExitUsage, Err: encErr}
		}
	} else {
		if f.Verbose {
			for _, a := range assertions {
				fmt.Fprintf(f.Writer, "%s: %s (%d references): %s\n", a.Position, a.Canonical, a.References, a.State)
			}
		}
		if err != nil {
			message := err.Error()
			if f.Color {
				message = colorize(message)
			}
			fmt.Fprintln(f.ErrWriter, message)
		} else {
			fmt.Fprintf(f.Writer, "%d assertions verified\n", len(assertions))
		}
	}

	if err == nil {
		return nil
	}
	return &ExitError{Code: classify(err), Err: err, Reported: true}
}

// diagnostics splits errors into positions and messages.
func diagnostics(err error) []diagnosticJSON {
	var diags []diagnosticJSON
	for _, err := range typeeqinternal.Errors(err) {
		var (
			codeErr *codefmt.CodeError
			posErr  codefmt.PositionError
		)
		switch {
		case errors.As(err, &codeErr) && codeErr.Pos().IsValid():
			diags = append(diags, diagnosticJSON{
				Position: codefmt.FormatPosition(codeErr.Position()),
				Message:  codeErr.Unwrap().Error(),
			})
		case errors.As(err, &posErr) && posErr.Position.IsValid():
			diags = append(diags, diagnosticJSON{
				Position: codefmt.FormatPosition(posErr.Position),
				Message:  posErr.Msg,
			})
		default:
			diags = append(diags, diagnosticJSON{Message: err.Error()})
		}
	}
	return diags
}

// isatty reports whether f is a terminal. If it is true, we can use ANSI color
// codes.
func isatty(f *os.File) bool {
	_, err := unix.IoctlGetWinsize(int(f.Fd()), unix.TIOCGWINSZ)
	return err == nil
}

var (
	reMismatch = regexp.MustCompile(`(?m)mismatched type .+$`)
	reTab      = regexp.MustCompile(`(?m)^\t.+`)
	reHint     = regexp.MustCompile(`^\t(pointer indirections differ|both instantiate|declared separately|.+ are different major versions)`)
)

// colorize adds ANSI color codes to the message.
func colorize(message string) string {
	const (
		red    = "\033[31m"
		yellow = "\033[33m"
		dim    = "\033[2m"
		reset  = "\033[0m"
	)
	m := []byte(message)
	m = reMismatch.ReplaceAllFunc(m, func(b []byte) []byte {
		return []byte(red + string(b) + reset)
	})
	m = reTab.ReplaceAllFunc(m, func(b []byte) []byte {
		if reHint.Match(b) {
			return []byte(yellow + string(b) + reset)
		}
		return []byte(dim + string(b) + reset)
	})
	return string(m)
}
