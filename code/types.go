package code

import "time"

// Binding is a named value made visible to a snippet as a variable.
type Binding struct {
	// Name is the variable name. It must be a Go identifier.
	Name string `json:"name"`

	// Value is the decoded JSON value bound to the variable.
	Value any `json:"value"`
}

// ExecuteParams specifies the parameters for executing a code snippet.
type ExecuteParams struct {
	// Code is the source code to execute.
	Code string `json:"code"`

	// Bindings are the variables predeclared for the snippet, in order.
	Bindings []Binding `json:"bindings,omitempty"`

	// Timeout specifies the maximum duration for execution.
	// If zero, the executor's default timeout is used.
	Timeout time.Duration `json:"timeout"`
}

// ExecuteResult contains the outcome of executing a code snippet.
type ExecuteResult struct {
	// Value is the final value of the result variable. Nil means the
	// snippet never assigned it or assigned nil.
	Value any `json:"value,omitempty"`

	// Stdout contains anything the snippet printed.
	Stdout string `json:"stdout,omitempty"`

	// DurationMs is the total execution time in milliseconds.
	DurationMs int64 `json:"durationMs"`
}
