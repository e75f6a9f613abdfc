package envelope

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Kind is the envelope discriminant.
type Kind string

const (
	// KindOK marks a success payload.
	KindOK Kind = "ok"

	// KindErr marks a failure payload.
	KindErr Kind = "err"
)

// Errors returned while encoding or decoding envelopes.
var (
	// ErrNoVariant is returned when encoding an Envelope that was not built
	// through OK, Err or FromResult.
	ErrNoVariant = errors.New("envelope has no variant")

	// ErrMalformed is returned when decoding text that is not exactly one
	// "ok" or "err" key with a string value.
	ErrMalformed = errors.New("malformed envelope")
)

// Envelope is the result of a single boundary call.
// The zero value has no variant and encodes to the empty string.
type Envelope struct {
	kind  Kind
	value string
}

// OK returns a success envelope.
func OK(value string) Envelope {
	return Envelope{kind: KindOK, value: value}
}

// Err returns a failure envelope.
func Err(value string) Envelope {
	return Envelope{kind: KindErr, value: value}
}

// FromResult converts a (value, error) pair. A non-nil err wins and its
// Error text becomes the failure payload.
func FromResult(value string, err error) Envelope {
	if err != nil {
		return Err(err.Error())
	}
	return OK(value)
}

// Kind returns the variant, or "" for the zero value.
func (e Envelope) Kind() Kind {
	return e.kind
}

// Value returns the payload of whichever variant is populated.
func (e Envelope) Value() string {
	return e.value
}

// IsOK reports whether e is a success envelope.
func (e Envelope) IsOK() bool {
	return e.kind == KindOK
}

// MarshalJSON encodes e as a single-key object.
func (e Envelope) MarshalJSON() ([]byte, error) {
	switch e.kind {
	case KindOK, KindErr:
		return json.Marshal(map[Kind]string{e.kind: e.value})
	default:
		return nil, ErrNoVariant
	}
}

// UnmarshalJSON decodes a single-key object produced by MarshalJSON.
func (e *Envelope) UnmarshalJSON(data []byte) error {
	var raw map[Kind]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(raw) != 1 {
		return fmt.Errorf("%w: want exactly one of %q or %q, got %d keys", ErrMalformed, KindOK, KindErr, len(raw))
	}
	for kind, payload := range raw {
		if kind != KindOK && kind != KindErr {
			return fmt.Errorf("%w: unknown variant %q", ErrMalformed, kind)
		}
		var value string
		if err := json.Unmarshal(payload, &value); err != nil {
			return fmt.Errorf("%w: %s payload is not a string", ErrMalformed, kind)
		}
		*e = Envelope{kind: kind, value: value}
	}
	return nil
}

// String returns the JSON encoding of e, or "" when e cannot be encoded.
func (e Envelope) String() string {
	data, err := json.Marshal(e)
	if err != nil {
		return ""
	}
	return string(data)
}

// Decode parses the text returned by a boundary call.
func Decode(s string) (Envelope, error) {
	var e Envelope
	if err := json.Unmarshal([]byte(s), &e); err != nil {
		return Envelope{}, err
	}
	return e, nil
}
