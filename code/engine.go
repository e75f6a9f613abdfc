package code

import "context"

// Engine is the pluggable interpreter that runs code snippets with a set of
// bound variables. Implementations are responsible for parsing and executing
// the code and reading back the result variable.
//
// The Engine should:
//   - Predeclare one variable per binding plus the result variable
//   - Capture the final value of result
//   - Return anything the snippet printed
//   - Wrap execution errors in ExecuteError with line/column info when available
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines and return ctx.Err() when canceled.
// - Errors: execution failures should return ExecuteError where possible; callers use errors.Is.
// - Ownership: params are read-only; returned ExecuteResult is caller-owned.
type Engine interface {
	// Execute runs a code snippet and returns the value it assigned to result.
	Execute(ctx context.Context, params ExecuteParams) (ExecuteResult, error)
}
