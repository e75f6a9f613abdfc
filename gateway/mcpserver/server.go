package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jonwraymond/jellybridge/backend"
	"github.com/jonwraymond/jellybridge/envelope"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Errors returned by New.
var (
	ErrConfiguration = errors.New("invalid mcp server configuration")
	ErrDuplicateTool = errors.New("tool name exposed by more than one backend")
)

// Default implementation identity.
const (
	DefaultName    = "jellybridge"
	DefaultVersion = "dev"
)

// Logger is an optional interface for observability.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: logging must be best-effort; Logf should not panic.
type Logger interface {
	Logf(format string, args ...any)
}

// WarnLogger is a Logger that can log at a higher level. Rejected calls are
// logged through Warnf when it is implemented.
type WarnLogger interface {
	Logger
	Warnf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Logf(string, ...any) {}

func warnf(l Logger, format string, args ...any) {
	if w, ok := l.(WarnLogger); ok {
		w.Warnf(format, args...)
		return
	}
	l.Logf(format, args...)
}

// Config configures a Server.
type Config struct {
	// Name and Version identify the server to clients.
	Name    string
	Version string

	// Aggregator provides the tools. Required.
	Aggregator *backend.Aggregator

	Logger Logger
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Aggregator == nil {
		return fmt.Errorf("%w: missing required fields: Aggregator", ErrConfiguration)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Name == "" {
		c.Name = DefaultName
	}
	if c.Version == "" {
		c.Version = DefaultVersion
	}
	if c.Logger == nil {
		c.Logger = nopLogger{}
	}
}

// Server exposes aggregated tools over MCP.
type Server struct {
	cfg   Config
	srv   *mcp.Server
	tools []string
}

// New builds a server with every tool currently listed by the aggregator.
// Tools are registered under their bare names, which must be unique.
func New(ctx context.Context, cfg Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	tools, err := cfg.Aggregator.ListAllTools(ctx)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg: cfg,
		srv: mcp.NewServer(&mcp.Implementation{Name: cfg.Name, Version: cfg.Version}, nil),
	}

	seen := make(map[string]string, len(tools))
	for _, t := range tools {
		if prev, ok := seen[t.Name]; ok {
			return nil, fmt.Errorf("%w: %s (%s, %s)", ErrDuplicateTool, t.Name, prev, t.Namespace)
		}
		seen[t.Name] = t.Namespace

		tool := t.Tool
		s.srv.AddTool(&tool, s.handler(backend.FormatToolID(t.Namespace, t.Name)))
		s.tools = append(s.tools, tool.Name)
	}
	cfg.Logger.Logf("mcp server %s %s: registered %d tools", cfg.Name, cfg.Version, len(s.tools))
	return s, nil
}

// Tools returns the registered tool names.
func (s *Server) Tools() []string {
	out := make([]string, len(s.tools))
	copy(out, s.tools)
	return out
}

// MCP returns the underlying MCP server.
func (s *Server) MCP() *mcp.Server {
	return s.srv
}

// Run serves a single session over t until the client disconnects or ctx
// is done.
func (s *Server) Run(ctx context.Context, t mcp.Transport) error {
	return s.srv.Run(ctx, t)
}

func (s *Server) handler(toolID string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		callID := uuid.NewString()

		var args map[string]any
		if raw := req.Params.Arguments; len(raw) > 0 && strings.TrimSpace(string(raw)) != "null" {
			if err := json.Unmarshal(raw, &args); err != nil {
				warnf(s.cfg.Logger, "call %s %s: bad arguments: %v", callID, toolID, err)
				return textResult(fmt.Sprintf("%v: %v", backend.ErrInvalidArgs, err), true), nil
			}
		}

		out, err := s.cfg.Aggregator.Execute(ctx, toolID, args)
		if err != nil {
			warnf(s.cfg.Logger, "call %s %s: %v", callID, toolID, err)
			return textResult(err.Error(), true), nil
		}

		env, err := envelope.Decode(out)
		failed := err != nil || !env.IsOK()
		s.cfg.Logger.Logf("call %s %s: ok=%t", callID, toolID, !failed)
		return textResult(out, failed), nil
	}
}

func textResult(text string, isError bool) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: isError,
	}
}
