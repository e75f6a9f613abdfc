package bridge

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jonwraymond/jellybridge/backend/local"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Catalog errors.
var (
	ErrUnknownOperation = errors.New("unknown operation")
	ErrArity            = errors.New("wrong number of inputs")
)

// BackendName is the name of the backend built by NewLocalBackend.
const BackendName = "bridge"

// Operation describes one boundary operation.
type Operation struct {
	Name        string
	Description string

	// Params names the string inputs in call order.
	Params []string

	// Policy is the error policy applied to collaborator failures.
	Policy Policy

	Tags []string

	call func(ctx context.Context, b *Bridge, in []string) string
}

// Title returns the display title of the operation, e.g. "Find All Anchors".
func (op Operation) Title() string {
	return cases.Title(language.English).String(strings.ReplaceAll(op.Name, "_", " "))
}

var paramDescriptions = map[string]string{
	"code":       "source code that assigns the variable result",
	"args":       `JSON array of [name, value] pairs, e.g. [["data","{}"]]`,
	"value":      "JSON-encoded value under validation, bound as value",
	"candid":     "Candid service description",
	"func":       `function-only Candid fragment, e.g. "f : () -> ()"`,
	"components": "JSON array of link components",
	"fetch":      `JSON check capability, {"apis":{"<id>":{"candid":"...","code":"..."}}}`,
	"nodes":      "JSON array of trimmed template nodes",
	"checked":    "JSON checked model returned by check",
}

var operations = []Operation{
	{
		Name: OpExecuteCode, Params: []string{"code", "args"}, Policy: DiagnosticString,
		Description: "Runs a Go snippet with bound arguments and returns the JSON text of result.",
		Tags:        []string{"code", "execution"},
		call: func(ctx context.Context, b *Bridge, in []string) string {
			return b.ExecuteCode(ctx, in[0], in[1])
		},
	},
	{
		Name: OpExecuteValidateCode, Params: []string{"code", "value"}, Policy: DiagnosticString,
		Description: "Runs validation code against a value and returns its verdict.",
		Tags:        []string{"code", "validation"},
		call: func(ctx context.Context, b *Bridge, in []string) string {
			return b.ExecuteValidateCode(ctx, in[0], in[1])
		},
	},
	{
		Name: OpParseServiceCandid, Params: []string{"candid"}, Policy: DiagnosticString,
		Description: "Parses a Candid service description into JSON.",
		Tags:        []string{"candid", "parse"},
		call: func(ctx context.Context, b *Bridge, in []string) string {
			return b.ParseServiceCandid(ctx, in[0])
		},
	},
	{
		Name: OpParseFuncCandid, Params: []string{"func"}, Policy: DiagnosticString,
		Description: "Parses function-only Candid text as an anonymous service.",
		Tags:        []string{"candid", "parse"},
		call: func(ctx context.Context, b *Bridge, in []string) string {
			return b.ParseFuncCandid(ctx, in[0])
		},
	},
	{
		Name: OpFindAllAnchors, Params: []string{"components"}, Policy: StructuredPassthrough,
		Description: "Lists every anchor exported by the components.",
		Tags:        []string{"link", "anchors"},
		call: func(ctx context.Context, b *Bridge, in []string) string {
			return b.FindAllAnchors(ctx, in[0])
		},
	},
	{
		Name: OpFindOriginCodes, Params: []string{"components", "fetch"}, Policy: StructuredPassthrough,
		Description: "Collects the code fragments of the components and the APIs they call.",
		Tags:        []string{"link", "codes"},
		call: func(ctx context.Context, b *Bridge, in []string) string {
			return b.FindOriginCodes(ctx, in[0], in[1])
		},
	},
	{
		Name: OpFindTemplateOriginCodes, Params: []string{"nodes"}, Policy: StructuredPassthrough,
		Description: "Collects the code fragments of a template node tree.",
		Tags:        []string{"link", "codes", "template"},
		call: func(ctx context.Context, b *Bridge, in []string) string {
			return b.FindTemplateOriginCodes(ctx, in[0])
		},
	},
	{
		Name: OpCheck, Params: []string{"components", "fetch"}, Policy: StructuredPassthrough,
		Description: "Validates references and API calls and returns the checked model.",
		Tags:        []string{"link", "check"},
		call: func(ctx context.Context, b *Bridge, in []string) string {
			return b.Check(ctx, in[0], in[1])
		},
	},
	{
		Name: OpCheckTemplate, Params: []string{"nodes", "checked", "fetch"}, Policy: StructuredPassthrough,
		Description: "Validates template nodes against a checked model.",
		Tags:        []string{"link", "check", "template"},
		call: func(ctx context.Context, b *Bridge, in []string) string {
			return b.CheckTemplate(ctx, in[0], in[1], in[2])
		},
	},
}

// Operations returns the catalog in declaration order.
func Operations() []Operation {
	out := make([]Operation, len(operations))
	copy(out, operations)
	return out
}

// Lookup returns the operation named name.
func Lookup(name string) (Operation, bool) {
	for _, op := range operations {
		if op.Name == name {
			return op, true
		}
	}
	return Operation{}, false
}

// Call runs the operation named name with positional inputs. The error is
// non-nil only when the call cannot be dispatched.
func (b *Bridge) Call(ctx context.Context, name string, inputs ...string) (string, error) {
	op, ok := Lookup(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownOperation, name)
	}
	if len(inputs) != len(op.Params) {
		return "", fmt.Errorf("%w: %s takes %d (%s), got %d",
			ErrArity, name, len(op.Params), strings.Join(op.Params, ", "), len(inputs))
	}
	return op.call(ctx, b, inputs), nil
}

// NewLocalBackend publishes the catalog as a local backend named BackendName.
func NewLocalBackend(b *Bridge) *local.Backend {
	lb := local.New(BackendName)
	for _, op := range operations {
		openWorld := false
		descs := make(map[string]string, len(op.Params))
		for _, p := range op.Params {
			descs[p] = paramDescriptions[p]
		}
		lb.RegisterHandler(op.Name, local.ToolDef{
			Name:              op.Name,
			Title:             op.Title(),
			Description:       op.Description,
			Params:            op.Params,
			ParamDescriptions: descs,
			Annotations: &mcp.ToolAnnotations{
				Title:          op.Title(),
				ReadOnlyHint:   true,
				IdempotentHint: true,
				OpenWorldHint:  &openWorld,
			},
			Tags: op.Tags,
			Handler: func(ctx context.Context, inputs []string) string {
				return op.call(ctx, b, inputs)
			},
		})
	}
	return lb
}
