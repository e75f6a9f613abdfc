package backend

import (
	"context"
	"errors"

	"github.com/jonwraymond/toolfoundation/model"
)

// Common errors for backend operations.
var (
	ErrBackendNotFound = errors.New("backend not found")
	ErrBackendDisabled = errors.New("backend disabled")
	ErrToolNotFound    = errors.New("tool not found in backend")
	ErrAmbiguousTool   = errors.New("tool name matches more than one backend")
	ErrInvalidArgs     = errors.New("invalid tool arguments")
)

// Backend defines a source of boundary operations.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: Execute must pass ctx to the operation it runs.
// - Errors: Execute returns an error only when the call could not be dispatched
// (ErrToolNotFound, ErrBackendDisabled, ErrInvalidArgs). Operation failures are
// part of the returned envelope.
// - Ownership: args are read-only.
type Backend interface {
	// Kind returns the backend type (e.g., "local").
	Kind() string

	// Name returns the unique instance name for this backend.
	Name() string

	// Enabled returns whether this backend is currently enabled.
	Enabled() bool

	// ListTools returns all operations available from this backend.
	ListTools(ctx context.Context) ([]model.Tool, error)

	// Execute runs an operation and returns its serialized envelope.
	Execute(ctx context.Context, tool string, args map[string]any) (string, error)
}
