package envelope

import (
	"errors"
	"testing"
)

func TestEnvelope_String(t *testing.T) {
	tests := []struct {
		name string
		env  Envelope
		want string
	}{
		{name: "ok", env: OK("3"), want: `{"ok":"3"}`},
		{name: "err", env: Err("boom"), want: `{"err":"boom"}`},
		{name: "ok empty payload", env: OK(""), want: `{"ok":""}`},
		{name: "nested json stays a string", env: OK(`{"a":1}`), want: `{"ok":"{\"a\":1}"}`},
		{name: "zero value degrades to empty string", env: Envelope{}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.env.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFromResult(t *testing.T) {
	if got := FromResult("v", nil); got.Kind() != KindOK || got.Value() != "v" {
		t.Errorf("FromResult(v, nil) = %v, want ok v", got)
	}
	got := FromResult("ignored", errors.New("failed"))
	if got.Kind() != KindErr || got.Value() != "failed" {
		t.Errorf("FromResult(_, err) = %v, want err failed", got)
	}
	if got.IsOK() {
		t.Error("IsOK() = true for err envelope")
	}
}

func TestDecode_RoundTrip(t *testing.T) {
	for _, env := range []Envelope{OK("x"), Err("y"), OK("")} {
		got, err := Decode(env.String())
		if err != nil {
			t.Fatalf("Decode(%q) error = %v", env.String(), err)
		}
		if got != env {
			t.Errorf("Decode(%q) = %#v, want %#v", env.String(), got, env)
		}
	}
}

func TestDecode_Malformed(t *testing.T) {
	inputs := []string{
		`{}`,
		`{"ok":"a","err":"b"}`,
		`{"other":"x"}`,
		`{"ok":1}`,
		`["ok","x"]`,
		`not json`,
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			_, err := Decode(in)
			if err == nil {
				t.Fatalf("Decode(%q) error = nil, want error", in)
			}
			if in != "not json" && !errors.Is(err, ErrMalformed) {
				t.Errorf("Decode(%q) error = %v, want ErrMalformed", in, err)
			}
		})
	}
}
