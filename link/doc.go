// Package link provides the link/reference checking collaborator used by the
// boundary operations find_all_anchors, find_origin_codes,
// find_template_origin_codes, check and check_template.
//
// # Model
//
// A [Component] exports named anchors and consumes anchors exported by other
// components through [Ref]s. The fully qualified anchor of an export is
// "<component id>#<export>". Components and template nodes may also carry
// source-code fragments ([CodeItem]) and call APIs by id; the caller-supplied
// [ApisCheckFunction] is the capability that resolves those ids.
//
// A successful [Checker.Check] produces a [CheckedCombined] snapshot. That
// snapshot is later the reference model for [Checker.CheckTemplates], which
// validates the [TrimmedNode] tree of a template.
//
// # Errors
//
// Checking failures are reported as [*Error]. Error implements
// json.Marshaler so the boundary can hand the structured value to the host
// instead of a diagnostic string.
//
// # Schemas
//
// The package infers JSON Schemas for its inputs once, on first use. They are
// used by the boundary to reject inputs that are well-formed JSON but do not
// have the expected shape, for example a component without an id.
package link
