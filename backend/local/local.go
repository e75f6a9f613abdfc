// Package local implements an in-process backend whose operations take
// named string parameters and return a serialized result envelope.
package local

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/jonwraymond/jellybridge/backend"
	"github.com/jonwraymond/toolfoundation/model"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandlerFunc runs an operation. Inputs are the string arguments in the
// order of ToolDef.Params; the result is a serialized envelope.
type HandlerFunc func(ctx context.Context, inputs []string) string

// ToolDef defines a local operation with its handler.
type ToolDef struct {
	Name        string
	Title       string
	Description string

	// Params names the string inputs of the operation, in call order.
	Params []string

	// ParamDescriptions optionally documents each parameter.
	ParamDescriptions map[string]string

	Annotations *mcp.ToolAnnotations
	Tags        []string
	Handler     HandlerFunc
}

// InputSchema returns the JSON Schema of the tool arguments: an object whose
// properties are the required string parameters.
func (d ToolDef) InputSchema() map[string]any {
	props := make(map[string]any, len(d.Params))
	required := make([]string, 0, len(d.Params))
	for _, p := range d.Params {
		prop := map[string]any{"type": "string"}
		if desc := d.ParamDescriptions[p]; desc != "" {
			prop["description"] = desc
		}
		props[p] = prop
		required = append(required, p)
	}
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": false,
	}
}

// Backend implements backend.Backend for in-process handlers.
type Backend struct {
	name     string
	enabled  bool
	handlers map[string]ToolDef
	mu       sync.RWMutex
}

var _ backend.Backend = (*Backend)(nil)

// New creates a new local backend.
func New(name string) *Backend {
	return &Backend{
		name:     name,
		enabled:  true,
		handlers: make(map[string]ToolDef),
	}
}

// Kind returns the backend kind.
func (b *Backend) Kind() string {
	return "local"
}

// Name returns the backend instance name.
func (b *Backend) Name() string {
	return b.name
}

// Enabled returns whether the backend is enabled.
func (b *Backend) Enabled() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.enabled
}

// SetEnabled enables or disables the backend.
func (b *Backend) SetEnabled(enabled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.enabled = enabled
}

// RegisterHandler registers an operation handler.
func (b *Backend) RegisterHandler(name string, def ToolDef) {
	if def.Name == "" {
		def.Name = name
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = def
}

// UnregisterHandler removes an operation handler.
func (b *Backend) UnregisterHandler(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.handlers, name)
}

// Tool returns the definition registered under name.
func (b *Backend) Tool(name string) (ToolDef, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	def, ok := b.handlers[name]
	return def, ok
}

// ListTools returns the registered operations sorted by name.
func (b *Backend) ListTools(_ context.Context) ([]model.Tool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]model.Tool, 0, len(b.handlers))
	for _, def := range b.handlers {
		out = append(out, model.Tool{
			Tool: mcp.Tool{
				Name:        def.Name,
				Title:       def.Title,
				Description: def.Description,
				InputSchema: def.InputSchema(),
				Annotations: def.Annotations,
			},
			Namespace: b.name,
			Tags:      model.NormalizeTags(def.Tags),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Execute checks args against the operation's parameters and runs it.
func (b *Backend) Execute(ctx context.Context, tool string, args map[string]any) (string, error) {
	b.mu.RLock()
	enabled := b.enabled
	def, ok := b.handlers[tool]
	b.mu.RUnlock()

	if !enabled {
		return "", backend.ErrBackendDisabled
	}
	if !ok || def.Handler == nil {
		return "", fmt.Errorf("%w: %s", backend.ErrToolNotFound, tool)
	}

	inputs, err := Inputs(def.Params, args)
	if err != nil {
		return "", fmt.Errorf("%s: %w", tool, err)
	}
	return def.Handler(ctx, inputs), nil
}

// Inputs orders args by params. Every parameter must be present as a string
// and no other argument is accepted.
func Inputs(params []string, args map[string]any) ([]string, error) {
	inputs := make([]string, len(params))
	for i, p := range params {
		v, ok := args[p]
		if !ok {
			return nil, fmt.Errorf("%w: missing %q", backend.ErrInvalidArgs, p)
		}
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %q must be a string, got %T", backend.ErrInvalidArgs, p, v)
		}
		inputs[i] = s
	}
	if len(args) > len(params) {
		known := make(map[string]bool, len(params))
		for _, p := range params {
			known[p] = true
		}
		for name := range args {
			if !known[name] {
				return nil, fmt.Errorf("%w: unexpected %q", backend.ErrInvalidArgs, name)
			}
		}
	}
	return inputs, nil
}
