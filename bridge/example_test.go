package bridge_test

import (
	"fmt"

	"github.com/jonwraymond/jellybridge/bridge"
)

func ExampleExecuteCode() {
	fmt.Println(bridge.ExecuteCode("result = 1 + 2;", "[]"))
	// Output: {"ok":"3"}
}

func ExampleFindAllAnchors() {
	fmt.Println(bridge.FindAllAnchors(`[{"id":"form","exports":["value","submit"]}]`))
	fmt.Println(bridge.FindAllAnchors(`[{"id":"form"`))
	// Output:
	// {"ok":"[\"form#submit\",\"form#value\"]"}
	// {"err":"parse components failed: unexpected end of JSON input"}
}

func ExampleCheck() {
	fmt.Println(bridge.Check(`[{"id":"a","refs":[{"anchor":"b#x"}]}]`, `{"apis":{}}`))
	// Output:
	// {"err":"{\"kind\":\"UnknownAnchor\",\"component\":\"a\",\"anchor\":\"b#x\",\"message\":\"component \\\"a\\\" references unknown anchor \\\"b#x\\\"\"}"}
}
