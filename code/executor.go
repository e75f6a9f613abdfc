package code

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Executor is the string-level entry point for running snippets.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines; deadline exceeded is wrapped with ErrLimitExceeded.
// - Errors: decoding and result failures return ExecuteError; engine failures propagate.
// - Ownership: inputs are read-only; returned strings are caller-owned.
type Executor interface {
	// ExecuteCode runs code with the bindings described by args and returns
	// the JSON text of the value assigned to result.
	ExecuteCode(ctx context.Context, code, args string) (string, error)

	// ExecuteValidateCode runs validation code against the JSON-encoded value
	// and returns the JSON text of the verdict (a bool or a message string).
	ExecuteValidateCode(ctx context.Context, code, value string) (string, error)
}

// DefaultExecutor is the standard implementation of Executor.
type DefaultExecutor struct {
	cfg Config
}

// NewDefaultExecutor creates a new DefaultExecutor with the given configuration.
// Returns ErrConfiguration if any required field is missing.
func NewDefaultExecutor(cfg Config) (*DefaultExecutor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &DefaultExecutor{cfg: cfg}, nil
}

// ExecuteCode runs a snippet with the given arguments.
func (e *DefaultExecutor) ExecuteCode(ctx context.Context, code, args string) (string, error) {
	bindings, err := ParseArgs(args)
	if err != nil {
		return "", err
	}

	result, err := e.run(ctx, ExecuteParams{Code: code, Bindings: bindings})
	if err != nil {
		return "", err
	}
	if result.Value == nil {
		return "", errUndefinedResult()
	}
	return encodeOutput(result.Value)
}

// ExecuteValidateCode runs a validation snippet against value.
func (e *DefaultExecutor) ExecuteValidateCode(ctx context.Context, code, value string) (string, error) {
	decoded, err := parseValue(value)
	if err != nil {
		return "", err
	}

	result, err := e.run(ctx, ExecuteParams{
		Code:     code,
		Bindings: []Binding{{Name: valueVar, Value: decoded}},
	})
	if err != nil {
		return "", err
	}

	switch result.Value.(type) {
	case nil:
		return "", errUndefinedResult()
	case bool, string:
		return encodeOutput(result.Value)
	default:
		return "", newExecuteError(KindWrongOutput, nil,
			"validation %s must be a bool or a string, got %T", resultVar, result.Value)
	}
}

func (e *DefaultExecutor) run(ctx context.Context, params ExecuteParams) (ExecuteResult, error) {
	if params.Timeout == 0 {
		params.Timeout = e.cfg.DefaultTimeout
	}

	var cancel context.CancelFunc
	if params.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, params.Timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := e.cfg.Engine.Execute(ctx, params)
	duration := time.Since(start).Milliseconds()

	e.cfg.Logger.Logf("executed snippet with %d bindings in %dms", len(params.Bindings), duration)

	// Wrap timeout errors
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		return result, fmt.Errorf("%w: timeout after %v", ErrLimitExceeded, params.Timeout)
	}
	return result, err
}

func encodeOutput(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", newExecuteError(KindInvalidOutput, err, "%s of type %T cannot be encoded as JSON", resultVar, v)
	}
	return string(data), nil
}

// errUndefinedResult reports a nil result. The engines cannot tell an
// explicit nil apart from no assignment.
func errUndefinedResult() error {
	return newExecuteError(KindUndefined, nil, "%s is nil or was never assigned", resultVar)
}
