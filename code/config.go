package code

import (
	"fmt"
	"strings"
	"time"
)

// Config holds the configuration for a code executor.
type Config struct {
	// Engine is the pluggable code execution engine.
	// Required.
	Engine Engine

	// DefaultTimeout is the execution timeout applied to every snippet.
	// If zero, no timeout is applied.
	DefaultTimeout time.Duration

	// Logger is an optional logger for observability.
	Logger Logger
}

// Validate checks that all required fields are set.
// Returns ErrConfiguration if any required field is missing.
func (c *Config) Validate() error {
	var missing []string

	if c.Engine == nil {
		missing = append(missing, "Engine")
	}
	if c.DefaultTimeout < 0 {
		return fmt.Errorf("%w: DefaultTimeout must not be negative", ErrConfiguration)
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s",
			ErrConfiguration, strings.Join(missing, ", "))
	}
	return nil
}

// applyDefaults sets default values for optional fields.
func (c *Config) applyDefaults() {
	if c.Logger == nil {
		c.Logger = nopLogger{}
	}
}

type nopLogger struct{}

func (nopLogger) Logf(string, ...any) {}
