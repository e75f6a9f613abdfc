package candid

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	agentcandid "github.com/aviate-labs/agent-go/candid"
	"github.com/aviate-labs/agent-go/candid/did"
)

// parseDID parses text with the agent-go Candid grammar. It reports false
// when the text is outside that grammar.
func parseDID(text string) (desc did.Description, ok bool) {
	defer func() {
		// The agent-go converter panics on node shapes it does not expect.
		if r := recover(); r != nil {
			desc, ok = did.Description{}, false
		}
	}()
	desc, err := agentcandid.ParseDID([]byte(text))
	return desc, err == nil
}

// crossCheck compares svc with the agent-go description of the same text.
// Only the type definition names and the inline method names are compared:
// the agent-go description drops init arguments, conflates "service : S" with
// a named actor and reads a method type reference as a one-argument function.
func crossCheck(text string, svc Service) error {
	desc, ok := parseDID(text)
	if !ok {
		return nil
	}

	var types []string
	for _, d := range desc.Definitions {
		if t, ok := d.(did.Type); ok {
			types = append(types, t.Id)
		}
	}
	want := make([]string, 0, len(svc.Types))
	for _, t := range svc.Types {
		want = append(want, t.Name)
	}
	if !slices.Equal(types, want) {
		return &ParseError{Message: fmt.Sprintf("type definitions %v do not match the Candid grammar reading %v", want, types)}
	}

	if len(desc.Services) != 1 || len(desc.Services[0].Methods) == 0 {
		return nil
	}
	methods := make([]string, 0, len(desc.Services[0].Methods))
	for _, m := range desc.Services[0].Methods {
		methods = append(methods, unquoteName(m.Name))
	}
	want = want[:0]
	for _, m := range svc.Methods {
		want = append(want, m.Name)
	}
	if !slices.Equal(methods, want) {
		return &ParseError{Message: fmt.Sprintf("methods %v do not match the Candid grammar reading %v", want, methods)}
	}
	return nil
}

// unquoteName strips the quotes agent-go keeps on text names, the same way
// the lexer does.
func unquoteName(name string) string {
	if !strings.HasPrefix(name, `"`) {
		return name
	}
	if unquoted, err := strconv.Unquote(name); err == nil {
		return unquoted
	}
	return strings.Trim(name, `"`)
}
