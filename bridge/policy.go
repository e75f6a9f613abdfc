package bridge

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Policy selects how a collaborator error becomes an envelope payload.
type Policy int

const (
	// DiagnosticString renders the error with its most detailed format (%+v).
	DiagnosticString Policy = iota

	// StructuredPassthrough marshals structured errors to JSON text.
	StructuredPassthrough
)

// String returns the policy name.
func (p Policy) String() string {
	switch p {
	case DiagnosticString:
		return "DiagnosticString"
	case StructuredPassthrough:
		return "StructuredPassthrough"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// Contexts of local marshaling failures.
const (
	ctxParseComponents = "parse components"
	ctxParseFetch      = "parse ApisCheckFunction"
	ctxParseNodes      = "parse nodes"
	ctxParseChecked    = "parse checked"
	ctxStringService   = "stringify service"
	ctxStringAnchors   = "stringify anchors"
	ctxStringCodes     = "stringify code_items"
	ctxStringChecked   = "stringify checked"
	ctxStringTemplate  = "stringify template"
	ctxStringLinkError = "stringify link error"
)

// ErrMarshal is matched by every MarshalError.
var ErrMarshal = errors.New("marshal error")

// MarshalError is a local decoding or encoding failure.
type MarshalError struct {
	// Context names the step that failed, e.g. "parse components".
	Context string

	Err error
}

// Error returns "<context> failed: <reason>".
func (e *MarshalError) Error() string {
	if e.Err == nil {
		return e.Context + " failed"
	}
	return e.Context + " failed: " + e.Err.Error()
}

// Unwrap returns the underlying cause.
func (e *MarshalError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrMarshal.
func (e *MarshalError) Is(target error) bool {
	return target == ErrMarshal
}

// Structured is implemented by collaborator errors that can cross the
// boundary as JSON.
type Structured interface {
	error
	json.Marshaler
}

// Normalize turns err into an envelope payload according to p.
//
// MarshalError values are always rendered as diagnostic strings. Under
// StructuredPassthrough, the first Structured error in the chain is
// marshaled; if that fails the marshal failure is reported in its place.
func Normalize(err error, p Policy) string {
	if err == nil {
		return ""
	}

	var local *MarshalError
	if p == StructuredPassthrough && !errors.As(err, &local) {
		var s Structured
		if errors.As(err, &s) {
			data, merr := json.Marshal(s)
			if merr != nil {
				return diagnostic(&MarshalError{Context: ctxStringLinkError, Err: merr})
			}
			return string(data)
		}
	}
	return diagnostic(err)
}

func diagnostic(err error) string {
	return fmt.Sprintf("%+v", err)
}
