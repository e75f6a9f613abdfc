package bridge

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/jonwraymond/jellybridge/envelope"
)

// invoke runs the decode-call-encode-wrap sequence shared by every operation.
// call decodes the inputs and calls the collaborator; encode renders its
// success value. The result is always a serialized envelope.
func invoke[T any](b *Bridge, op string, policy Policy, call func() (T, error), encode func(T) (string, error)) (out string) {
	defer func() {
		if r := recover(); r != nil {
			warnf(b.logger, "bridge: %s panicked: %v", op, r)
			out = envelope.Err(fmt.Sprintf("%s panicked: %v", op, r)).String()
		}
	}()

	value, err := call()
	if err != nil {
		warnf(b.logger, "bridge: %s failed: %v", op, err)
		return envelope.Err(Normalize(err, policy)).String()
	}

	text, err := encode(value)
	if err != nil {
		warnf(b.logger, "bridge: %s: %v", op, err)
		return envelope.Err(Normalize(err, DiagnosticString)).String()
	}
	return envelope.OK(text).String()
}

// raw passes a collaborator's string result through unchanged.
func raw(s string) (string, error) {
	return s, nil
}

// encodeJSON returns an encoder that reports failures under context.
func encodeJSON[T any](context string) func(T) (string, error) {
	return func(v T) (string, error) {
		data, err := json.Marshal(v)
		if err != nil {
			return "", &MarshalError{Context: context, Err: err}
		}
		return string(data), nil
	}
}

// decodeJSON decodes input into T.
func decodeJSON[T any](input, context string) (T, error) {
	var v T
	if err := json.Unmarshal([]byte(input), &v); err != nil {
		return v, &MarshalError{Context: context, Err: err}
	}
	return v, nil
}

// decodeSchema validates input against the schema returned by schema and
// then decodes it into T.
func decodeSchema[T any](input, context string, schema func() (*jsonschema.Resolved, error)) (T, error) {
	var zero T

	instance, err := decodeJSON[any](input, context)
	if err != nil {
		return zero, err
	}
	resolved, err := schema()
	if err != nil {
		return zero, &MarshalError{Context: context, Err: err}
	}
	if err := resolved.Validate(instance); err != nil {
		return zero, &MarshalError{Context: context, Err: err}
	}
	return decodeJSON[T](input, context)
}
