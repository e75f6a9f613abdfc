package link

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrLink is matched by every Error.
var ErrLink = errors.New("link error")

// ErrorKind classifies an Error.
type ErrorKind string

const (
	// KindEmptyID means a component or node has no id.
	KindEmptyID ErrorKind = "EmptyId"

	// KindDuplicateComponent means two components share an id.
	KindDuplicateComponent ErrorKind = "DuplicateComponent"

	// KindDuplicateAnchor means a component exports the same name twice.
	KindDuplicateAnchor ErrorKind = "DuplicateAnchor"

	// KindUnknownAnchor means a reference points at an anchor nobody exports.
	KindUnknownAnchor ErrorKind = "UnknownAnchor"

	// KindUnknownApi means an API id is not resolvable by the capability.
	KindUnknownApi ErrorKind = "UnknownApi"

	// KindMissingCode means a code fragment is empty.
	KindMissingCode ErrorKind = "MissingCode"
)

// Error is a structured link-checking failure.
type Error struct {
	Kind ErrorKind `json:"kind"`

	// Component is the id of the component or node that failed.
	Component string `json:"component,omitempty"`

	// Anchor is the anchor or API id involved, if any.
	Anchor string `json:"anchor,omitempty"`

	Message string `json:"message"`
}

func newError(kind ErrorKind, component, anchor, format string, args ...any) *Error {
	return &Error{Kind: kind, Component: component, Anchor: anchor, Message: fmt.Sprintf(format, args...)}
}

// Error returns the message prefixed by the kind.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// MarshalJSON encodes the structured form of the error.
func (e *Error) MarshalJSON() ([]byte, error) {
	type plain Error
	return json.Marshal((*plain)(e))
}

// Is reports whether target is ErrLink.
func (e *Error) Is(target error) bool {
	return target == ErrLink
}

// DecodeError parses the JSON produced by MarshalJSON.
func DecodeError(text string) (*Error, error) {
	var e Error
	if err := json.Unmarshal([]byte(text), &e); err != nil {
		return nil, err
	}
	if e.Kind == "" {
		return nil, fmt.Errorf("%w: missing kind", ErrLink)
	}
	return &e, nil
}
