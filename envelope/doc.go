// Package envelope provides the result wrapper returned by every boundary call.
//
// An [Envelope] is a closed two-variant value: either a success payload or a
// failure payload, both plain strings. Its JSON form carries the variant as
// the only key of a single-field object:
//
//	{"ok":"<string>"}
//	{"err":"<string>"}
//
// Payloads are never nested JSON at the envelope level. Operations that
// return structured data put JSON text in the payload string, so far-side
// callers decode the envelope first and then decode the payload.
//
// # Total Serialization
//
// [Envelope.String] never fails. If encoding is impossible (only a zero
// Envelope, which has no variant, can trigger this) it returns the empty
// string, keeping the "always returns a string" contract of the boundary.
package envelope
