package candid

import (
	"errors"
	"fmt"
	"io"
)

// ErrParse is matched by every ParseError.
var ErrParse = errors.New("candid parse error")

// ParseError reports a problem in the description text.
type ParseError struct {
	// Line is the 1-based line of the offending token. Zero when unknown.
	Line int

	// Column is the 1-based column of the offending token.
	Column int

	// Message describes the problem.
	Message string
}

// Error returns the message, including line and column if available.
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s (line %d, col %d)", e.Message, e.Line, e.Column)
	}
	return e.Message
}

// Format implements fmt.Formatter; %+v prefixes the error class.
func (e *ParseError) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "%v: %s", ErrParse, e.Error())
		return
	}
	_, _ = io.WriteString(s, e.Error())
}

// Is reports whether target is ErrParse.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}
