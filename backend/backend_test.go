package backend

import (
	"context"

	"github.com/jonwraymond/toolfoundation/model"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// mockBackend implements Backend for testing.
type mockBackend struct {
	kind    string
	name    string
	enabled bool
	tools   []model.Tool
	execFn  func(ctx context.Context, tool string, args map[string]any) (string, error)
}

var _ Backend = (*mockBackend)(nil)

func (m *mockBackend) Kind() string  { return m.kind }
func (m *mockBackend) Name() string  { return m.name }
func (m *mockBackend) Enabled() bool { return m.enabled }

func (m *mockBackend) ListTools(_ context.Context) ([]model.Tool, error) {
	out := make([]model.Tool, len(m.tools))
	copy(out, m.tools)
	return out, nil
}

func (m *mockBackend) Execute(ctx context.Context, tool string, args map[string]any) (string, error) {
	if m.execFn != nil {
		return m.execFn(ctx, tool, args)
	}
	return `{"ok":""}`, nil
}

func tool(name string) model.Tool {
	return model.Tool{Tool: mcp.Tool{Name: name}}
}
