package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jonwraymond/jellybridge/candid"
	"github.com/jonwraymond/jellybridge/envelope"
	"github.com/jonwraymond/jellybridge/link"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	componentsJSON = `[
		{"id":"form","exports":["value"],"codes":[{"anchor":"form#value","code":"result = 1;"}],"apis":["ledger"]},
		{"id":"button","refs":[{"anchor":"form#value"}]}
	]`
	fetchJSON = `{"apis":{"ledger":{"candid":"service : { balance : () -> (nat) query }","code":"result = 0;"}}}`
	nodesJSON = `[{"id":"page","refs":["form#value"],"children":[{"id":"cell","codes":[{"anchor":"cell","code":"result = 2;"}]}]}]`
)

func newTestBridge(t *testing.T) *Bridge {
	t.Helper()
	b, err := NewDefault()
	require.NoError(t, err)
	return b
}

func decodeEnvelope(t *testing.T, out string) envelope.Envelope {
	t.Helper()
	env, err := envelope.Decode(out)
	require.NoError(t, err, "output %q is not an envelope", out)
	return env
}

func requireOK(t *testing.T, out string) string {
	t.Helper()
	env := decodeEnvelope(t, out)
	require.True(t, env.IsOK(), "want ok envelope, got %s", out)
	return env.Value()
}

func requireErr(t *testing.T, out string) string {
	t.Helper()
	env := decodeEnvelope(t, out)
	require.Equal(t, envelope.KindErr, env.Kind(), "want err envelope, got %s", out)
	require.NotEmpty(t, env.Value())
	return env.Value()
}

func checkedJSON(t *testing.T, b *Bridge) string {
	t.Helper()
	return requireOK(t, b.Check(context.Background(), componentsJSON, fetchJSON))
}

func TestNew_Validate(t *testing.T) {
	_, err := New(Options{})
	require.ErrorIs(t, err, ErrConfiguration)
	assert.Contains(t, err.Error(), "Executor, Parser, Checker")

	_, err = New(Options{Parser: candid.DefaultParser{}, Checker: link.Engine{}})
	require.ErrorIs(t, err, ErrConfiguration)
	assert.Contains(t, err.Error(), "Executor")
	assert.NotContains(t, err.Error(), "Parser")
}

func TestBridge_ValidInputsYieldEnvelopes(t *testing.T) {
	b := newTestBridge(t)
	ctx := context.Background()
	checked := checkedJSON(t, b)

	outputs := map[string]string{
		OpExecuteCode:             b.ExecuteCode(ctx, "result = 1 + 2;", "[]"),
		OpExecuteValidateCode:     b.ExecuteValidateCode(ctx, "result = value.(float64) == 3;", "3"),
		OpParseServiceCandid:      b.ParseServiceCandid(ctx, "service : { f : () -> () }"),
		OpParseFuncCandid:         b.ParseFuncCandid(ctx, "f : () -> ()"),
		OpFindAllAnchors:          b.FindAllAnchors(ctx, componentsJSON),
		OpFindOriginCodes:         b.FindOriginCodes(ctx, componentsJSON, fetchJSON),
		OpFindTemplateOriginCodes: b.FindTemplateOriginCodes(ctx, nodesJSON),
		OpCheck:                   b.Check(ctx, componentsJSON, fetchJSON),
		OpCheckTemplate:           b.CheckTemplate(ctx, nodesJSON, checked, fetchJSON),
	}
	require.Len(t, outputs, len(Operations()))

	for name, out := range outputs {
		t.Run(name, func(t *testing.T) {
			var raw map[string]any
			require.NoError(t, json.Unmarshal([]byte(out), &raw))
			assert.Len(t, raw, 1)
			requireOK(t, out)
		})
	}
}

func TestBridge_ExecuteCode(t *testing.T) {
	b := newTestBridge(t)
	ctx := context.Background()

	assert.Equal(t, `{"ok":"3"}`, b.ExecuteCode(ctx, "result = 1 + 2;", "[]"))
	assert.Equal(t, "true", requireOK(t, b.ExecuteValidateCode(ctx, "result = value.(float64) == 3;", "3")))

	payload := requireErr(t, b.ExecuteCode(ctx, "result = 1 +", "[]"))
	assert.Contains(t, payload, "ExecuteError")

	payload = requireErr(t, b.ExecuteCode(ctx, "result = 1;", "[["))
	assert.Contains(t, payload, "InvalidArgs")
}

func TestBridge_ParseServiceCandid_RoundTrip(t *testing.T) {
	b := newTestBridge(t)
	payload := requireOK(t, b.ParseServiceCandid(context.Background(), "service : { f : () -> () }"))

	var svc struct {
		Methods []struct {
			Name string `json:"name"`
			Args []any  `json:"args"`
			Rets []any  `json:"rets"`
		} `json:"methods"`
	}
	require.NoError(t, json.Unmarshal([]byte(payload), &svc))
	require.Len(t, svc.Methods, 1)
	assert.Equal(t, "f", svc.Methods[0].Name)
	assert.NotNil(t, svc.Methods[0].Args)
	assert.Empty(t, svc.Methods[0].Args)
	assert.NotNil(t, svc.Methods[0].Rets)
	assert.Empty(t, svc.Methods[0].Rets)
}

func TestBridge_ParseFuncCandid_Equivalence(t *testing.T) {
	b := newTestBridge(t)
	ctx := context.Background()

	tests := []struct {
		fn      string
		service string
	}{
		{"f : () -> ()", "service : { f : () -> () }"},
		{"get : (nat) -> (opt text) query; put : (nat, text) -> ()", "service : { get : (nat) -> (opt text) query; put : (nat, text) -> () }"},
	}
	for _, tt := range tests {
		var fromFunc, fromService any
		require.NoError(t, json.Unmarshal([]byte(requireOK(t, b.ParseFuncCandid(ctx, tt.fn))), &fromFunc))
		require.NoError(t, json.Unmarshal([]byte(requireOK(t, b.ParseServiceCandid(ctx, tt.service))), &fromService))
		if diff := cmp.Diff(fromService, fromFunc); diff != "" {
			t.Errorf("ParseFuncCandid(%q) mismatch (-service +func):\n%s", tt.fn, diff)
		}
	}
}

func TestBridge_ParseCandidErrors(t *testing.T) {
	b := newTestBridge(t)
	ctx := context.Background()

	payload := requireErr(t, b.ParseServiceCandid(ctx, "service : { f : (unknown_type) -> () }"))
	assert.Contains(t, payload, "candid parse error")

	payload = requireErr(t, b.ParseFuncCandid(ctx, "f : ("))
	assert.Contains(t, payload, "candid parse error")
}

func TestBridge_FindAllAnchors(t *testing.T) {
	b := newTestBridge(t)
	ctx := context.Background()

	assert.Equal(t, "[]", requireOK(t, b.FindAllAnchors(ctx, "[]")))
	assert.Equal(t, `["form#value"]`, requireOK(t, b.FindAllAnchors(ctx, componentsJSON)))
}

func TestBridge_FindOriginCodes(t *testing.T) {
	b := newTestBridge(t)
	payload := requireOK(t, b.FindOriginCodes(context.Background(), componentsJSON, fetchJSON))

	var codes []link.CodeItem
	require.NoError(t, json.Unmarshal([]byte(payload), &codes))
	want := []link.CodeItem{
		{Anchor: "form#value", Code: "result = 1;"},
		{Anchor: "ledger", Code: "result = 0;"},
	}
	if diff := cmp.Diff(want, codes); diff != "" {
		t.Errorf("FindOriginCodes() mismatch (-want +got):\n%s", diff)
	}
}

func TestBridge_FindTemplateOriginCodes(t *testing.T) {
	b := newTestBridge(t)
	payload := requireOK(t, b.FindTemplateOriginCodes(context.Background(), nodesJSON))
	assert.JSONEq(t, `[{"anchor":"cell","code":"result = 2;"}]`, payload)
}

func TestBridge_CheckAndCheckTemplate(t *testing.T) {
	b := newTestBridge(t)
	checked := checkedJSON(t, b)

	var model link.CheckedCombined
	require.NoError(t, json.Unmarshal([]byte(checked), &model))
	assert.Equal(t, []string{"form#value"}, model.Anchors)
	require.Len(t, model.Components, 2)
	assert.Equal(t, []string{"form"}, model.Components[1].DependsOn)

	payload := requireOK(t, b.CheckTemplate(context.Background(), nodesJSON, checked, fetchJSON))
	var tpl link.CheckedTemplate
	require.NoError(t, json.Unmarshal([]byte(payload), &tpl))
	assert.Equal(t, 2, tpl.Nodes)
	assert.Equal(t, []string{"form#value"}, tpl.Anchors)
}

func TestBridge_LinkErrorsAreStructured(t *testing.T) {
	b := newTestBridge(t)
	ctx := context.Background()
	checked := checkedJSON(t, b)

	outputs := map[string]string{
		"check unknown anchor":     b.Check(ctx, `[{"id":"a","refs":[{"anchor":"nobody#x"}]}]`, fetchJSON),
		"check unknown api":        b.Check(ctx, `[{"id":"a","apis":["missing"]}]`, fetchJSON),
		"template unknown anchor":  b.CheckTemplate(ctx, `[{"id":"n","refs":["gone#x"]}]`, checked, fetchJSON),
		"anchors duplicate id":     b.FindAllAnchors(ctx, `[{"id":"a"},{"id":"a"}]`),
		"origin codes missing api": b.FindOriginCodes(ctx, `[{"id":"a","apis":["x"]}]`, `{"apis":{}}`),
		"template codes empty id":  b.FindTemplateOriginCodes(ctx, `[{"id":""}]`),
	}
	for name, out := range outputs {
		t.Run(name, func(t *testing.T) {
			payload := requireErr(t, out)

			linkErr, err := link.DecodeError(payload)
			require.NoError(t, err, "payload %q is not a structured error", payload)
			assert.NotEmpty(t, linkErr.Kind)
			assert.NotEmpty(t, linkErr.Message)
		})
	}
}

func TestBridge_MalformedInputs(t *testing.T) {
	b := newTestBridge(t)
	ctx := context.Background()
	checked := checkedJSON(t, b)

	tests := []struct {
		name   string
		out    string
		prefix string
	}{
		{"truncated components", b.FindAllAnchors(ctx, `[{"id":"a"`), "parse components failed: "},
		{"wrong id type", b.FindAllAnchors(ctx, `[{"id":7}]`), "parse components failed: "},
		{"components object", b.Check(ctx, `{"id":"a"}`, fetchJSON), "parse components failed: "},
		{"fetch not object", b.FindOriginCodes(ctx, "[]", `[1,2]`), "parse ApisCheckFunction failed: "},
		{"fetch truncated", b.Check(ctx, "[]", `{"apis":`), "parse ApisCheckFunction failed: "},
		{"nodes empty string", b.FindTemplateOriginCodes(ctx, ""), "parse nodes failed: "},
		{"nested node wrong type", b.FindTemplateOriginCodes(ctx, `[{"id":"a","children":[{"id":1}]}]`), "parse nodes failed: "},
		{"checked wrong type", b.CheckTemplate(ctx, "[]", `{"anchors":5}`, fetchJSON), "parse checked failed: "},
		{"nodes before checked", b.CheckTemplate(ctx, "nope", "nope", "nope"), "parse nodes failed: "},
		{"checked before fetch", b.CheckTemplate(ctx, "[]", "nope", "nope"), "parse checked failed: "},
		{"fetch last", b.CheckTemplate(ctx, "[]", checked, "nope"), "parse ApisCheckFunction failed: "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := requireErr(t, tt.out)
			assert.True(t, strings.HasPrefix(payload, tt.prefix), "payload %q lacks prefix %q", payload, tt.prefix)
			_, err := link.DecodeError(payload)
			assert.Error(t, err, "local errors must not be structured")
		})
	}
}

func TestBridge_UnknownFieldsAccepted(t *testing.T) {
	b := newTestBridge(t)
	ctx := context.Background()
	checked := checkedJSON(t, b)

	const (
		extraComponents = `[{"id":"form","exports":["value"],"owner":"team-a","refs":[{"anchor":"form#value","note":1}]}]`
		extraFetch      = `{"apis":{"ledger":{"candid":"service : { f : () -> () }","version":2}},"cache":true}`
		extraChecked    = `{"components":[],"anchors":["form#value"],"codes":[],"generatedAt":"now"}`
	)

	tests := []struct {
		name string
		out  string
	}{
		{"components", b.FindAllAnchors(ctx, extraComponents)},
		{"fetch", b.FindOriginCodes(ctx, "[]", extraFetch)},
		{"fetch with null apis", b.FindOriginCodes(ctx, "[]", `{"apis":null}`)},
		{"checked", b.CheckTemplate(ctx, `[{"id":"a","refs":["form#value"]}]`, extraChecked, fetchJSON)},
		{"checked from check", b.CheckTemplate(ctx, "[]", checked, extraFetch)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requireOK(t, tt.out)
			assert.NotContains(t, tt.out, "invalid reflect.Value")
		})
	}
}

func TestBridge_Idempotent(t *testing.T) {
	b := newTestBridge(t)
	ctx := context.Background()

	calls := []func() string{
		func() string { return b.ExecuteCode(ctx, "result = 1 + 2;", "[]") },
		func() string { return b.ParseServiceCandid(ctx, "service : { f : (nat) -> (text) }") },
		func() string { return b.Check(ctx, componentsJSON, fetchJSON) },
		func() string { return b.Check(ctx, `[{"id":"a","apis":["missing"]}]`, fetchJSON) },
		func() string { return b.FindAllAnchors(ctx, "[") },
	}
	for i, call := range calls {
		assert.Equal(t, call(), call(), "call %d", i)
	}
}

func TestBridge_Concurrent(t *testing.T) {
	b := newTestBridge(t)
	ctx := context.Background()
	want := b.Check(ctx, componentsJSON, fetchJSON)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, b.Check(ctx, componentsJSON, fetchJSON))
			assert.Equal(t, `{"ok":"3"}`, b.ExecuteCode(ctx, "result = 1 + 2;", "[]"))
		}()
	}
	wg.Wait()
}

// panicChecker panics in every operation.
type panicChecker struct{ link.Engine }

func (panicChecker) Check([]link.Component, link.ApisCheckFunction) (link.CheckedCombined, error) {
	panic("checker exploded")
}

// failingExecutor returns fixed errors.
type failingExecutor struct{ err error }

func (f failingExecutor) ExecuteCode(context.Context, string, string) (string, error) {
	return "", f.err
}

func (f failingExecutor) ExecuteValidateCode(context.Context, string, string) (string, error) {
	return "", f.err
}

type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) Logf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

type leveledLogger struct {
	recordingLogger
	warnings []string
}

func (l *leveledLogger) Warnf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warnings = append(l.warnings, fmt.Sprintf(format, args...))
}

func TestBridge_FailuresLoggedAsWarnings(t *testing.T) {
	logger := &leveledLogger{}
	b, err := New(Options{
		Executor: failingExecutor{err: errors.New("engine down")},
		Parser:   candid.DefaultParser{},
		Checker:  panicChecker{},
		Logger:   logger,
	})
	require.NoError(t, err)

	requireErr(t, b.ExecuteCode(context.Background(), "result = 1;", "[]"))
	requireErr(t, b.Check(context.Background(), "[]", fetchJSON))
	requireOK(t, b.ParseServiceCandid(context.Background(), "service : { f : () -> () }"))

	require.Len(t, logger.warnings, 2)
	assert.Contains(t, logger.warnings[0], "execute_code failed: engine down")
	assert.Contains(t, logger.warnings[1], "check panicked")
	assert.Empty(t, logger.lines)
}

func TestBridge_PanicRecovery(t *testing.T) {
	logger := &recordingLogger{}
	b, err := New(Options{
		Executor: failingExecutor{err: errors.New("unused")},
		Parser:   candid.DefaultParser{},
		Checker:  panicChecker{},
		Logger:   logger,
	})
	require.NoError(t, err)

	out := b.Check(context.Background(), "[]", `{"apis":{}}`)
	assert.Equal(t, `{"err":"check panicked: checker exploded"}`, out)

	logger.mu.Lock()
	defer logger.mu.Unlock()
	require.NotEmpty(t, logger.lines)
	assert.Contains(t, logger.lines[0], "panicked")
}

func TestBridge_CollaboratorErrorPolicies(t *testing.T) {
	structured := &link.Error{Kind: link.KindMissingCode, Message: "empty"}
	b, err := New(Options{
		Executor: failingExecutor{err: structured},
		Parser:   candid.DefaultParser{},
		Checker:  link.Engine{},
	})
	require.NoError(t, err)

	// Execution always uses the diagnostic rendering, even for structured errors.
	payload := requireErr(t, b.ExecuteCode(context.Background(), "", "[]"))
	assert.Equal(t, "MissingCode: empty", payload)
}
