package code

import (
	"errors"
	"fmt"
	"io"
)

// Sentinel errors for error classification.
var (
	// ErrCodeExecution indicates an error during code snippet execution,
	// such as syntax errors or runtime panics in the snippet.
	ErrCodeExecution = errors.New("code execution error")

	// ErrConfiguration indicates an invalid or incomplete configuration.
	ErrConfiguration = errors.New("configuration error")

	// ErrLimitExceeded indicates that an execution limit was reached.
	ErrLimitExceeded = errors.New("limit exceeded")
)

// ErrorKind classifies an ExecuteError.
type ErrorKind string

const (
	// KindInvalidArgs means the argument list or the value under validation
	// could not be decoded or bound.
	KindInvalidArgs ErrorKind = "InvalidArgs"

	// KindInvalidOutput means the result could not be encoded as JSON.
	KindInvalidOutput ErrorKind = "InvalidOutput"

	// KindUndefined means result is nil, either unassigned or assigned nil.
	KindUndefined ErrorKind = "Undefined"

	// KindWrongOutput means the result has a type the operation does not accept.
	KindWrongOutput ErrorKind = "WrongOutput"

	// KindExecuteError means the interpreter rejected or failed to run the snippet.
	KindExecuteError ErrorKind = "ExecuteError"
)

// ExecuteError represents an error that occurred while preparing, running or
// reading back a code snippet. It includes optional source location
// information for debugging.
type ExecuteError struct {
	// Kind classifies the failure.
	Kind ErrorKind

	// Message describes the error.
	Message string

	// Line is the 1-based line number where the error occurred.
	// Zero indicates the line is unknown.
	Line int

	// Column is the 1-based column number where the error occurred.
	// Zero indicates the column is unknown.
	Column int

	// Err is the underlying error, if any.
	Err error
}

func newExecuteError(kind ErrorKind, err error, format string, args ...any) *ExecuteError {
	return &ExecuteError{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// Error returns the error message, including line and column if available.
func (e *ExecuteError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s (line %d, col %d)", msg, e.Line, e.Column)
	}
	return msg
}

// Format implements fmt.Formatter. %+v renders the kind, the message, the
// position and the full cause chain; every other verb renders Error().
func (e *ExecuteError) Format(s fmt.State, verb rune) {
	switch {
	case verb == 'v' && s.Flag('+'):
		fmt.Fprintf(s, "%s(%q)", e.Kind, e.Message)
		if e.Line > 0 {
			fmt.Fprintf(s, " at line %d, col %d", e.Line, e.Column)
		}
		if e.Err != nil {
			fmt.Fprintf(s, ": %+v", e.Err)
		}
	case verb == 'q':
		fmt.Fprintf(s, "%q", e.Error())
	default:
		_, _ = io.WriteString(s, e.Error())
	}
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *ExecuteError) Unwrap() error {
	return e.Err
}

// Is reports whether this error matches the target.
// ExecuteError matches ErrCodeExecution to allow sentinel-style error checking.
func (e *ExecuteError) Is(target error) bool {
	return target == ErrCodeExecution
}

// IsKind reports whether err is an ExecuteError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var execErr *ExecuteError
	return errors.As(err, &execErr) && execErr.Kind == kind
}
