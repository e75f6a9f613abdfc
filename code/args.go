package code

import (
	"encoding/json"
	"go/token"
)

// Reserved names cannot be used as argument names.
var reservedNames = map[string]bool{
	resultVar:   true,
	valueVar:    true,
	hostPackage: true,
}

// ParseArgs decodes a JSON array of [name, value] pairs into bindings.
//
// A string value holding valid JSON is bound decoded, so `[["data","{}"]]`
// binds data to an empty map. Any other string is bound verbatim. Names must
// be unique Go identifiers other than result, value and jelly.
func ParseArgs(args string) ([]Binding, error) {
	var pairs []json.RawMessage
	if err := json.Unmarshal([]byte(args), &pairs); err != nil {
		return nil, newExecuteError(KindInvalidArgs, err, "args must be a JSON array of [name, value] pairs")
	}

	bindings := make([]Binding, 0, len(pairs))
	seen := make(map[string]bool, len(pairs))
	for i, raw := range pairs {
		var pair []json.RawMessage
		if err := json.Unmarshal(raw, &pair); err != nil || len(pair) != 2 {
			return nil, newExecuteError(KindInvalidArgs, err, "argument %d is not a [name, value] pair", i)
		}

		var name string
		if err := json.Unmarshal(pair[0], &name); err != nil {
			return nil, newExecuteError(KindInvalidArgs, err, "argument %d name is not a string", i)
		}
		if !token.IsIdentifier(name) || reservedNames[name] {
			return nil, newExecuteError(KindInvalidArgs, nil, "argument %d name %q is not a usable identifier", i, name)
		}
		if seen[name] {
			return nil, newExecuteError(KindInvalidArgs, nil, "argument %q is bound twice", name)
		}
		seen[name] = true

		value, err := decodeArgValue(pair[1])
		if err != nil {
			return nil, newExecuteError(KindInvalidArgs, err, "argument %q has an invalid value", name)
		}
		bindings = append(bindings, Binding{Name: name, Value: value})
	}
	return bindings, nil
}

func decodeArgValue(raw json.RawMessage) (any, error) {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		if !json.Valid([]byte(text)) {
			return text, nil
		}
		var nested any
		if err := json.Unmarshal([]byte(text), &nested); err != nil {
			return nil, err
		}
		return nested, nil
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, err
	}
	return value, nil
}

// parseValue decodes the value under validation. Unlike arguments it must be
// valid JSON.
func parseValue(value string) (any, error) {
	var decoded any
	if err := json.Unmarshal([]byte(value), &decoded); err != nil {
		return nil, newExecuteError(KindInvalidArgs, err, "value must be valid JSON")
	}
	return decoded, nil
}
