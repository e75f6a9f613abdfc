package candid

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseService_Minimal(t *testing.T) {
	svc, err := ParseService("service : { f : () -> () }")
	require.NoError(t, err)

	require.Len(t, svc.Methods, 1)
	f := svc.Methods[0]
	assert.Equal(t, "f", f.Name)
	assert.Empty(t, f.Args)
	assert.Empty(t, f.Rets)
	assert.Empty(t, f.Modes)

	data, err := json.Marshal(svc)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"init":[],"types":[],"methods":[{"name":"f","args":[],"rets":[],"modes":[]}]}`,
		string(data))
}

func TestParseFuncs_MatchesService(t *testing.T) {
	fromFuncs, err := ParseFuncs("f : () -> ()")
	require.NoError(t, err)
	fromService, err := ParseService("service : { f : () -> () }")
	require.NoError(t, err)

	if diff := cmp.Diff(fromService, fromFuncs); diff != "" {
		t.Errorf("ParseFuncs() mismatch (-service +funcs):\n%s", diff)
	}
}

func TestWrapFuncs(t *testing.T) {
	assert.Equal(t, "service : {\n    a : () -> ();\n    b : (nat) -> ()\n}",
		WrapFuncs("a : () -> ();\n    b : (nat) -> ()"))
}

func TestParseService_Full(t *testing.T) {
	const text = `
// ledger
import "other.did";
type Account = record { owner : principal; subaccount : opt blob };
type Result = variant { ok : nat; err : text; pending };
type Callback = func (nat) -> () oneway;
service ledger : (init : record { text; nat }) -> {
    balance : (Account) -> (nat) query;
    "transfer" : (to : Account, amount : nat) -> (Result);
    notify : Callback;
    peers : () -> (vec service { ping : () -> () }) composite_query;
}
`
	svc, err := ParseService(text)
	require.NoError(t, err)

	assert.Equal(t, "ledger", svc.Name)
	require.Len(t, svc.Types, 3)
	assert.Equal(t, []string{"Account", "Result", "Callback"},
		[]string{svc.Types[0].Name, svc.Types[1].Name, svc.Types[2].Name})

	account := svc.Types[0].Type
	require.Equal(t, KindRecord, account.Kind)
	require.Len(t, account.Fields, 2)
	for i := 1; i < len(account.Fields); i++ {
		assert.Less(t, account.Fields[i-1].ID, account.Fields[i].ID, "fields must be sorted by id")
	}
	sub := findField(t, account.Fields, "subaccount")
	assert.Equal(t, Type{Kind: KindOpt, Elem: &Type{Kind: KindVec, Elem: &Type{Kind: KindNat8}}}, sub.Type)

	result := svc.Types[1].Type
	assert.Equal(t, Type{Kind: KindNull}, findField(t, result.Fields, "pending").Type)

	require.Len(t, svc.Init, 1)
	initFields := svc.Init[0].Type.Fields
	require.Len(t, initFields, 2)
	assert.Equal(t, uint32(0), initFields[0].ID)
	assert.Equal(t, uint32(1), initFields[1].ID)

	balance, ok := svc.Method("balance")
	require.True(t, ok)
	assert.Equal(t, []string{ModeQuery}, balance.Modes)
	assert.Equal(t, Type{Kind: KindRef, Name: "Account"}, balance.Args[0].Type)

	transfer, ok := svc.Method("transfer")
	require.True(t, ok)
	assert.Equal(t, []string{"to", "amount"}, []string{transfer.Args[0].Name, transfer.Args[1].Name})

	notify, ok := svc.Method("notify")
	require.True(t, ok)
	assert.Equal(t, []string{ModeOneway}, notify.Modes)

	peers, ok := svc.Method("peers")
	require.True(t, ok)
	assert.Equal(t, []string{ModeCompositeQuery}, peers.Modes)
	assert.Equal(t, KindService, peers.Rets[0].Type.Elem.Kind)
}

func TestParseService_ActorReference(t *testing.T) {
	svc, err := ParseService("type S = service { get : () -> (text) query }; service : S")
	require.NoError(t, err)
	require.Len(t, svc.Methods, 1)
	assert.Equal(t, "get", svc.Methods[0].Name)
}

func TestParseService_Errors(t *testing.T) {
	tests := []struct {
		name string
		text string
		msg  string
	}{
		{name: "empty", text: "", msg: "expected service declaration"},
		{name: "no service", text: "type A = nat;", msg: "expected service declaration"},
		{name: "unbound", text: "service : { f : (Missing) -> () }", msg: `unbound type identifier "Missing"`},
		{name: "duplicate method", text: "service : { f : () -> (); f : () -> () }", msg: `duplicate method "f"`},
		{name: "duplicate type", text: "type A = nat; type A = int; service : {}", msg: `duplicate type definition "A"`},
		{name: "duplicate field", text: "service : { f : (record { 1 : nat; 1 : int }) -> () }", msg: "duplicate field id 1"},
		{name: "missing arrow", text: "service : { f : () () }", msg: "expected"},
		{name: "trailing tokens", text: "service : {} extra", msg: "unexpected"},
		{name: "actor not a service", text: "type A = nat; service : A", msg: "not a service"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseService(tt.text)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrParse), "error %v should match ErrParse", err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestParseError_Format(t *testing.T) {
	_, err := ParseService("service : {\n  f : ( -> ()\n}")
	require.Error(t, err)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 2, perr.Line)
	assert.Contains(t, fmt.Sprintf("%+v", err), "candid parse error: ")
	assert.Equal(t, err.Error(), fmt.Sprintf("%v", err))
}

func TestLabelHash(t *testing.T) {
	assert.Equal(t, uint32(97), LabelHash("a"))
	assert.Equal(t, uint32(23515), LabelHash("id"))
}

func TestDefaultParser(t *testing.T) {
	var p Parser = DefaultParser{}
	svc, err := p.ParseService("service : { f : () -> () }")
	require.NoError(t, err)
	assert.Len(t, svc.Methods, 1)
}

func findField(t *testing.T, fields []Field, name string) Field {
	t.Helper()
	for _, f := range fields {
		if f.Name == name {
			return f
		}
	}
	t.Fatalf("field %q not found", name)
	return Field{}
}
