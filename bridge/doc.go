// Package bridge exposes the boundary operations to hosts that exchange only
// UTF-8 strings.
//
// Every operation decodes its string inputs, calls a collaborator, encodes the
// success value and returns exactly one serialized result envelope:
//
//	{"ok":"<payload>"}
//	{"err":"<payload>"}
//
// Operations that produce structured data return it as JSON text inside the
// payload, so far-side callers decode twice.
//
// # Operations
//
//   - execute_code(code, args)
//   - execute_validate_code(code, value)
//   - parse_service_candid(candid)
//   - parse_func_candid(func)
//   - find_all_anchors(components)
//   - find_origin_codes(components, fetch)
//   - find_template_origin_codes(nodes)
//   - check(components, fetch)
//   - check_template(nodes, checked, fetch)
//
// # Errors
//
// Failures are normalized with a [Policy]. Execution and parsing errors use
// [DiagnosticString]. The link-checking operations use
// [StructuredPassthrough], so their collaborator errors arrive on the far side
// as JSON objects. Local decoding and encoding failures are [*MarshalError]
// values and are always rendered as "<context> failed: <reason>".
//
// A panicking collaborator does not abort the host: the call returns an err
// envelope instead.
//
// # Collaborators
//
// A [Bridge] is assembled from a code.Executor, a candid.Parser and a
// link.Checker. [NewDefault] wires the implementations shipped with this
// module; the package-level functions use a lazily built default Bridge.
//
// # Known gap
//
// parse_func_candid substitutes the fragment into "service : { ... }"
// verbatim. A fragment that closes the braces itself can change the shape of
// the synthetic service.
package bridge
