package bridge

import (
	"context"
	"sync"
	"time"

	"github.com/jonwraymond/jellybridge/candid"
	"github.com/jonwraymond/jellybridge/code"
	"github.com/jonwraymond/jellybridge/envelope"
	"github.com/jonwraymond/jellybridge/link"
)

// DefaultExecutionTimeout bounds every snippet run by the default executor.
const DefaultExecutionTimeout = 10 * time.Second

// DefaultConfig tunes the collaborators built by NewDefault.
type DefaultConfig struct {
	// ExecutionTimeout bounds each snippet. Zero means DefaultExecutionTimeout.
	ExecutionTimeout time.Duration

	// AllowedPackages restricts snippet imports. Empty means
	// code.DefaultAllowedPackages.
	AllowedPackages []string

	Logger Logger
}

// NewDefault builds a Bridge with the shipped collaborators: the yaegi
// executor, the Candid parser and the link engine.
func NewDefault() (*Bridge, error) {
	return NewDefaultWithConfig(DefaultConfig{})
}

// NewDefaultWithConfig is NewDefault with tuning.
func NewDefaultWithConfig(cfg DefaultConfig) (*Bridge, error) {
	if cfg.ExecutionTimeout == 0 {
		cfg.ExecutionTimeout = DefaultExecutionTimeout
	}

	execCfg := code.Config{
		Engine:         code.NewYaegiEngine(cfg.AllowedPackages...),
		DefaultTimeout: cfg.ExecutionTimeout,
	}
	if cfg.Logger != nil {
		execCfg.Logger = cfg.Logger
	}
	exec, err := code.NewDefaultExecutor(execCfg)
	if err != nil {
		return nil, err
	}

	return New(Options{
		Executor: exec,
		Parser:   candid.DefaultParser{},
		Checker:  link.Engine{},
		Logger:   cfg.Logger,
	})
}

var defaultBridge = sync.OnceValues(NewDefault)

// withDefault runs fn against the default Bridge.
func withDefault(fn func(b *Bridge) string) string {
	b, err := defaultBridge()
	if err != nil {
		return envelope.Err(Normalize(err, DiagnosticString)).String()
	}
	return fn(b)
}

// Invoke calls the named operation on the default Bridge. Construction and
// dispatch failures are returned as error envelopes.
func Invoke(name string, inputs ...string) string {
	return invokeWith(defaultBridge, name, inputs)
}

func invokeWith(get func() (*Bridge, error), name string, inputs []string) string {
	b, err := get()
	if err != nil {
		return envelope.Err(Normalize(err, DiagnosticString)).String()
	}
	out, err := b.Call(context.Background(), name, inputs...)
	if err != nil {
		return envelope.Err(err.Error()).String()
	}
	return out
}

// ExecuteCode calls Bridge.ExecuteCode on the default Bridge.
func ExecuteCode(code, args string) string {
	return withDefault(func(b *Bridge) string { return b.ExecuteCode(context.Background(), code, args) })
}

// ExecuteValidateCode calls Bridge.ExecuteValidateCode on the default Bridge.
func ExecuteValidateCode(code, value string) string {
	return withDefault(func(b *Bridge) string { return b.ExecuteValidateCode(context.Background(), code, value) })
}

// ParseServiceCandid calls Bridge.ParseServiceCandid on the default Bridge.
func ParseServiceCandid(text string) string {
	return withDefault(func(b *Bridge) string { return b.ParseServiceCandid(context.Background(), text) })
}

// ParseFuncCandid calls Bridge.ParseFuncCandid on the default Bridge.
func ParseFuncCandid(fn string) string {
	return withDefault(func(b *Bridge) string { return b.ParseFuncCandid(context.Background(), fn) })
}

// FindAllAnchors calls Bridge.FindAllAnchors on the default Bridge.
func FindAllAnchors(components string) string {
	return withDefault(func(b *Bridge) string { return b.FindAllAnchors(context.Background(), components) })
}

// FindOriginCodes calls Bridge.FindOriginCodes on the default Bridge.
func FindOriginCodes(components, fetch string) string {
	return withDefault(func(b *Bridge) string { return b.FindOriginCodes(context.Background(), components, fetch) })
}

// FindTemplateOriginCodes calls Bridge.FindTemplateOriginCodes on the default Bridge.
func FindTemplateOriginCodes(nodes string) string {
	return withDefault(func(b *Bridge) string { return b.FindTemplateOriginCodes(context.Background(), nodes) })
}

// Check calls Bridge.Check on the default Bridge.
func Check(components, fetch string) string {
	return withDefault(func(b *Bridge) string { return b.Check(context.Background(), components, fetch) })
}

// CheckTemplate calls Bridge.CheckTemplate on the default Bridge.
func CheckTemplate(nodes, checked, fetch string) string {
	return withDefault(func(b *Bridge) string { return b.CheckTemplate(context.Background(), nodes, checked, fetch) })
}
