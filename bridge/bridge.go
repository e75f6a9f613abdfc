package bridge

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jonwraymond/jellybridge/candid"
	"github.com/jonwraymond/jellybridge/code"
	"github.com/jonwraymond/jellybridge/link"
)

// ErrConfiguration is returned when Options are incomplete.
var ErrConfiguration = errors.New("invalid bridge configuration")

// Operation names.
const (
	OpExecuteCode             = "execute_code"
	OpExecuteValidateCode     = "execute_validate_code"
	OpParseServiceCandid      = "parse_service_candid"
	OpParseFuncCandid         = "parse_func_candid"
	OpFindAllAnchors          = "find_all_anchors"
	OpFindOriginCodes         = "find_origin_codes"
	OpFindTemplateOriginCodes = "find_template_origin_codes"
	OpCheck                   = "check"
	OpCheckTemplate           = "check_template"
)

// Logger is an optional interface for observability.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: logging must be best-effort; Logf should not panic.
type Logger interface {
	Logf(format string, args ...any)
}

// WarnLogger is a Logger that can log at a higher level. Failed and
// panicking operations are logged through Warnf when it is implemented.
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

// Options configures a Bridge.
type Options struct {
	// Executor runs code snippets. Required.
	Executor code.Executor

	// Parser parses Candid service descriptions. Required.
	Parser candid.Parser

	// Checker performs link and reference checking. Required.
	Checker link.Checker

	// Logger is optional.
	Logger Logger
}

// Validate checks that all collaborators are set.
func (o *Options) Validate() error {
	var missing []string
	if o.Executor == nil {
		missing = append(missing, "Executor")
	}
	if o.Parser == nil {
		missing = append(missing, "Parser")
	}
	if o.Checker == nil {
		missing = append(missing, "Checker")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s",
			ErrConfiguration, strings.Join(missing, ", "))
	}
	return nil
}

// Bridge adapts the collaborators to the string boundary.
// A Bridge holds no per-call state and is safe for concurrent use.
type Bridge struct {
	exec    code.Executor
	parser  candid.Parser
	checker link.Checker
	logger  Logger
}

// New creates a Bridge. Returns ErrConfiguration if a collaborator is missing.
func New(opts Options) (*Bridge, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = nopLogger{}
	}
	return &Bridge{
		exec:    opts.Executor,
		parser:  opts.Parser,
		checker: opts.Checker,
		logger:  opts.Logger,
	}, nil
}

// ExecuteCode runs code with the JSON-encoded argument list args.
func (b *Bridge) ExecuteCode(ctx context.Context, code, args string) string {
	return invoke(b, OpExecuteCode, DiagnosticString,
		func() (string, error) { return b.exec.ExecuteCode(ctx, code, args) },
		raw)
}

// ExecuteValidateCode runs validation code against the JSON-encoded value.
func (b *Bridge) ExecuteValidateCode(ctx context.Context, code, value string) string {
	return invoke(b, OpExecuteValidateCode, DiagnosticString,
		func() (string, error) { return b.exec.ExecuteValidateCode(ctx, code, value) },
		raw)
}

// ParseServiceCandid parses a Candid service description.
func (b *Bridge) ParseServiceCandid(_ context.Context, text string) string {
	return invoke(b, OpParseServiceCandid, DiagnosticString,
		func() (candid.Service, error) { return b.parser.ParseService(text) },
		encodeJSON[candid.Service](ctxStringService))
}

// ParseFuncCandid parses function-only Candid text such as "f : () -> ()"
// by embedding it in an anonymous service.
func (b *Bridge) ParseFuncCandid(_ context.Context, fn string) string {
	return invoke(b, OpParseFuncCandid, DiagnosticString,
		func() (candid.Service, error) { return b.parser.ParseService(candid.WrapFuncs(fn)) },
		encodeJSON[candid.Service](ctxStringService))
}

// FindAllAnchors returns the JSON list of anchors exported by components.
func (b *Bridge) FindAllAnchors(_ context.Context, components string) string {
	return invoke(b, OpFindAllAnchors, StructuredPassthrough,
		func() ([]string, error) {
			cs, err := decodeComponents(components)
			if err != nil {
				return nil, err
			}
			return b.checker.FindAllAnchors(cs)
		},
		encodeJSON[[]string](ctxStringAnchors))
}

// FindOriginCodes returns the JSON list of code items of components.
func (b *Bridge) FindOriginCodes(_ context.Context, components, fetch string) string {
	return invoke(b, OpFindOriginCodes, StructuredPassthrough,
		func() ([]link.CodeItem, error) {
			cs, err := decodeComponents(components)
			if err != nil {
				return nil, err
			}
			f, err := decodeFetch(fetch)
			if err != nil {
				return nil, err
			}
			return b.checker.FindOriginCodes(cs, f)
		},
		encodeJSON[[]link.CodeItem](ctxStringCodes))
}

// FindTemplateOriginCodes returns the JSON list of code items of template nodes.
func (b *Bridge) FindTemplateOriginCodes(_ context.Context, nodes string) string {
	return invoke(b, OpFindTemplateOriginCodes, StructuredPassthrough,
		func() ([]link.CodeItem, error) {
			ns, err := decodeNodes(nodes)
			if err != nil {
				return nil, err
			}
			return b.checker.FindTemplateOriginCodes(ns)
		},
		encodeJSON[[]link.CodeItem](ctxStringCodes))
}

// Check validates components against fetch and returns the JSON checked model.
func (b *Bridge) Check(_ context.Context, components, fetch string) string {
	return invoke(b, OpCheck, StructuredPassthrough,
		func() (link.CheckedCombined, error) {
			cs, err := decodeComponents(components)
			if err != nil {
				return link.CheckedCombined{}, err
			}
			f, err := decodeFetch(fetch)
			if err != nil {
				return link.CheckedCombined{}, err
			}
			return b.checker.Check(cs, f)
		},
		encodeJSON[link.CheckedCombined](ctxStringChecked))
}

// CheckTemplate validates template nodes against a checked model and returns
// the JSON checked template.
func (b *Bridge) CheckTemplate(_ context.Context, nodes, checked, fetch string) string {
	return invoke(b, OpCheckTemplate, StructuredPassthrough,
		func() (link.CheckedTemplate, error) {
			ns, err := decodeNodes(nodes)
			if err != nil {
				return link.CheckedTemplate{}, err
			}
			model, err := decodeSchema[link.CheckedCombined](checked, ctxParseChecked, link.CheckedCombinedSchema)
			if err != nil {
				return link.CheckedTemplate{}, err
			}
			f, err := decodeFetch(fetch)
			if err != nil {
				return link.CheckedTemplate{}, err
			}
			return b.checker.CheckTemplates(ns, model, f)
		},
		encodeJSON[link.CheckedTemplate](ctxStringTemplate))
}

func decodeComponents(input string) ([]link.Component, error) {
	return decodeSchema[[]link.Component](input, ctxParseComponents, link.ComponentsSchema)
}

func decodeFetch(input string) (link.ApisCheckFunction, error) {
	return decodeSchema[link.ApisCheckFunction](input, ctxParseFetch, link.ApisCheckFunctionSchema)
}

func decodeNodes(input string) ([]link.TrimmedNode, error) {
	return decodeSchema[[]link.TrimmedNode](input, ctxParseNodes, link.NodesSchema)
}
