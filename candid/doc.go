// Package candid parses Candid interface descriptions into a JSON-friendly
// service model.
//
// It is the default interface-description collaborator of the boundary
// operations parse_service_candid and parse_func_candid. The parser covers
// the service-description subset of the language:
//
//	type Name = record { id : nat; owner : principal };
//	service : (init : text) -> {
//	    get : (nat) -> (opt Name) query;
//	    put : (Name) -> ();
//	}
//
// Type definitions, primitive and composite types (opt, vec, blob, record,
// variant, func, service), method annotations (query, oneway,
// composite_query), init arguments and actor references to a defined service
// type are supported. Imports are accepted and ignored.
//
// [DefaultParser] also reads the text with the agent-go Candid grammar when
// that grammar accepts it, and rejects the description if the two readings
// disagree on the type definitions or the methods.
//
// Record and variant labels are converted to numeric field ids with the
// Candid label hash; unnamed record fields get positional ids. Fields are
// reported sorted by id.
//
// Function-only fragments ("f : () -> ()") are parsed through [WrapFuncs],
// which embeds them into a minimal service. The fragment is substituted
// verbatim: it is not escaped, so a fragment that itself closes the
// surrounding braces changes the shape of the synthetic service. Callers must
// pass trusted, syntactically valid method lists.
package candid
