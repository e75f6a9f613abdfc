// Package code provides the code-execution collaborator used by the boundary
// operations execute_code and execute_validate_code.
//
// # Architecture
//
// The package defines two interfaces:
//
//   - [Executor]: the string-in/string-out surface the boundary calls. It
//     decodes arguments, applies limits and encodes the final value.
//
//   - [Engine]: the pluggable interpreter that runs a snippet with a set of
//     bound variables. [YaegiEngine] is the default and interprets Go.
//
// # Conventions
//
// Snippets assign their final value to the predeclared variable `result`:
//
//	result = 1 + 2;
//
// Arguments are a JSON array of [name, value] pairs, for example "[]" or
// `[["data","{}"]]`. Each name becomes a variable of type interface{}. A
// string value that is itself valid JSON is bound decoded; any other string
// is bound as-is.
//
// Validation snippets read the predeclared variable `value` (the decoded
// value under validation) and must assign a bool or a string to `result`.
//
// # Errors
//
// Failures are reported as [*ExecuteError] with one of the [ErrorKind]
// values. Formatting an ExecuteError with %+v yields the most detailed
// rendering (kind, message, position and cause), which is what the boundary
// surfaces to the host.
package code
