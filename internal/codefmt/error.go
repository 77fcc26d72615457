package codefmt

import (
	"fmt"
	"go/token"
)

// CodeError indicates where the error occurred in user's source code.
type CodeError struct {
	err  error
	pos  token.Pos
	end  token.Pos
	fset *token.FileSet
}

// Unwrap returns the underlying error.
func (e CodeError) Unwrap() error { return e.err }

// Pos returns the position where the error occurred. It may be invalid.
func (e CodeError) Pos() token.Pos { return e.pos }

// End returns the end position of the error. It may be invalid.
func (e CodeError) End() token.Pos { return e.end }

// Position resolves the position where the error occurred. The result is
// invalid if the position is invalid or there is no file set.
func (e CodeError) Position() token.Position {
	if e.fset == nil || !e.pos.IsValid() {
		return token.Position{}
	}
	return e.fset.Position(e.pos)
}

// Error implements the error interface. If pos is valid, the position is
// prepended to the error message.
func (e CodeError) Error() string {
	if e.err == nil {
		return ""
	}

	pos := e.Position()
	if !pos.IsValid() {
		return e.err.Error()
	}

	return fmt.Sprintf("%s: %s", FormatPosition(pos), e.err.Error())
}

// Errorf formats an error message. The error will indicate the position in the
// source code if the position is valid.
func (f Formatter) Errorf(poser Poser, format string, args ...any) error {
	// Prevent wrapping error in args
	for _, arg := range args {
		if _, ok := arg.(error); ok {
			panic("CodeError cannot wrap error")
		}
	}

	var pos, end token.Pos
	if poser != nil {
		pos = poser.Pos()
		if ender, ok := poser.(Ender); ok {
			end = ender.End()
		}
	}

	args = f.wrapPrintfArgs(args)
	err := fmt.Errorf(format, args...)
	return &CodeError{err, pos, end, f.Fset}
}

// PositionError is an error at a resolved position outside the loaded file
// set, such as a line of a manifest file.
type PositionError struct {
	Position token.Position
	Msg      string
}

func (e PositionError) Error() string {
	if !e.Position.IsValid() {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", FormatPosition(e.Position), e.Msg)
}
