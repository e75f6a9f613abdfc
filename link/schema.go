package link

import (
	"encoding/json"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
)

// nodesSchemaJSON is written by hand because TrimmedNode is recursive.
const nodesSchemaJSON = `{
  "type": "array",
  "items": {"$ref": "#/$defs/node"},
  "$defs": {
    "code": {
      "type": "object",
      "required": ["anchor", "code"],
      "properties": {
        "anchor": {"type": "string"},
        "code": {"type": "string"}
      }
    },
    "node": {
      "type": "object",
      "required": ["id"],
      "properties": {
        "id": {"type": "string"},
        "tag": {"type": "string"},
        "refs": {"type": ["array", "null"], "items": {"type": "string"}},
        "codes": {"type": ["array", "null"], "items": {"$ref": "#/$defs/code"}},
        "apis": {"type": ["array", "null"], "items": {"type": "string"}},
        "children": {"type": ["array", "null"], "items": {"$ref": "#/$defs/node"}}
      }
    }
  }
}`

var (
	componentsSchema      = sync.OnceValues(resolveFor[[]Component])
	apisCheckSchema       = sync.OnceValues(resolveFor[ApisCheckFunction])
	checkedCombinedSchema = sync.OnceValues(resolveFor[CheckedCombined])
	nodesSchema           = sync.OnceValues(func() (*jsonschema.Resolved, error) {
		var s jsonschema.Schema
		if err := json.Unmarshal([]byte(nodesSchemaJSON), &s); err != nil {
			return nil, err
		}
		return s.Resolve(nil)
	})
)

func resolveFor[T any]() (*jsonschema.Resolved, error) {
	s, err := jsonschema.For[T](nil)
	if err != nil {
		return nil, err
	}
	relax(s)
	return s.Resolve(nil)
}

// relax loosens an inferred schema to match encoding/json: objects decoded
// from structs accept unknown fields, and maps accept null.
func relax(s *jsonschema.Schema) {
	if s == nil {
		return
	}
	switch {
	case s.Properties != nil:
		s.AdditionalProperties = nil
	case s.Type == "object" && s.AdditionalProperties != nil:
		s.Types = []string{"null", "object"}
		s.Type = ""
	}
	for _, p := range s.Properties {
		relax(p)
	}
	for _, d := range s.Defs {
		relax(d)
	}
	relax(s.Items)
	relax(s.AdditionalProperties)
}

// ComponentsSchema returns the schema of a JSON array of components.
func ComponentsSchema() (*jsonschema.Resolved, error) {
	return componentsSchema()
}

// ApisCheckFunctionSchema returns the schema of the check capability.
func ApisCheckFunctionSchema() (*jsonschema.Resolved, error) {
	return apisCheckSchema()
}

// NodesSchema returns the schema of a JSON array of trimmed nodes.
func NodesSchema() (*jsonschema.Resolved, error) {
	return nodesSchema()
}

// CheckedCombinedSchema returns the schema of a checked-model snapshot.
func CheckedCombinedSchema() (*jsonschema.Resolved, error) {
	return checkedCombinedSchema()
}
