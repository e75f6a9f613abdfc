package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonwraymond/toolfoundation/model"
)

// ErrInvalidToolID is returned for malformed tool IDs.
var ErrInvalidToolID = errors.New("invalid tool ID format")

// Aggregator combines operations from multiple backends.
type Aggregator struct {
	registry *Registry
}

// NewAggregator creates a new aggregator over registry.
func NewAggregator(registry *Registry) *Aggregator {
	return &Aggregator{registry: registry}
}

// ListAllTools returns tools from all enabled backends, in backend name order.
func (a *Aggregator) ListAllTools(ctx context.Context) ([]model.Tool, error) {
	all := make([]model.Tool, 0)
	for _, b := range a.registry.ListEnabled() {
		tools, err := b.ListTools(ctx)
		if err != nil {
			return nil, err
		}
		for i := range tools {
			if tools[i].Namespace == "" {
				tools[i].Namespace = b.Name()
			}
			all = append(all, tools[i])
		}
	}
	return all, nil
}

// Resolve finds the backend serving toolID and returns it with the bare tool name.
func (a *Aggregator) Resolve(ctx context.Context, toolID string) (Backend, string, error) {
	backendName, tool, err := ParseToolID(toolID)
	if err != nil {
		return nil, "", err
	}

	if backendName != "" {
		b, ok := a.registry.Get(backendName)
		if !ok {
			return nil, "", fmt.Errorf("%w: %s", ErrBackendNotFound, backendName)
		}
		if !b.Enabled() {
			return nil, "", fmt.Errorf("%w: %s", ErrBackendDisabled, backendName)
		}
		return b, tool, nil
	}

	var found Backend
	for _, b := range a.registry.ListEnabled() {
		tools, err := b.ListTools(ctx)
		if err != nil {
			return nil, "", err
		}
		for _, t := range tools {
			if t.Name != tool {
				continue
			}
			if found != nil {
				return nil, "", fmt.Errorf("%w: %s", ErrAmbiguousTool, tool)
			}
			found = b
		}
	}
	if found == nil {
		return nil, "", fmt.Errorf("%w: %s", ErrToolNotFound, tool)
	}
	return found, tool, nil
}

// Execute dispatches a call and returns the operation's serialized envelope.
func (a *Aggregator) Execute(ctx context.Context, toolID string, args map[string]any) (string, error) {
	b, tool, err := a.Resolve(ctx, toolID)
	if err != nil {
		return "", err
	}
	return b.Execute(ctx, tool, args)
}

// ParseToolID splits a tool ID into backend and tool name.
func ParseToolID(id string) (backendName, tool string, err error) {
	backendName, tool, err = model.ParseToolID(id)
	if err != nil {
		return "", "", ErrInvalidToolID
	}
	return backendName, tool, nil
}

// FormatToolID builds a tool ID from backend and tool name.
func FormatToolID(backendName, tool string) string {
	if backendName == "" {
		return tool
	}
	return fmt.Sprintf("%s:%s", backendName, tool)
}
