//go:build js && wasm

// Command jellybridge-wasm registers the boundary operations as global
// JavaScript functions. Every function takes string arguments and returns the
// serialized result envelope.
//
//	GOOS=js GOARCH=wasm go build -o jellybridge.wasm ./cmd/jellybridge-wasm
//
//	const out = JSON.parse(execute_code("result = 1 + 2;", "[]"));
package main

import (
	"fmt"
	"syscall/js"

	"github.com/jonwraymond/jellybridge/bridge"
	"github.com/jonwraymond/jellybridge/envelope"
)

// The default bridge is built on the first call; if that fails every call
// returns the failure as an error envelope.
func main() {
	for _, op := range bridge.Operations() {
		js.Global().Set(op.Name, js.FuncOf(func(_ js.Value, args []js.Value) any {
			inputs := make([]string, len(args))
			for i, arg := range args {
				if arg.Type() != js.TypeString {
					return envelope.Err(fmt.Sprintf("%s: argument %d must be a string, got %s", op.Name, i, arg.Type())).String()
				}
				inputs[i] = arg.String()
			}
			return bridge.Invoke(op.Name, inputs...)
		}))
	}

	select {}
}
