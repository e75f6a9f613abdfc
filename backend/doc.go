// Package backend provides the operation catalog abstraction and registry.
//
// A Backend publishes boundary operations as MCP-shaped tools and executes
// them with string arguments. Every execution produces a serialized result
// envelope; Go errors are reserved for dispatch failures such as an unknown
// tool or a missing argument.
//
//   - Backend interface for operation sources
//   - Registry for managing named backends
//   - Aggregator for listing and dispatching across backends
//
// # Registry
//
//	registry := backend.NewRegistry()
//	_ = registry.Register(bridge.NewLocalBackend(b))
//
// # Aggregator
//
// Tool ids are "backend:tool". A bare tool name is resolved against every
// enabled backend and must be unambiguous:
//
//	agg := backend.NewAggregator(registry)
//	out, _ := agg.Execute(ctx, "execute_code", map[string]any{"code": "result = 1;", "args": "[]"})
//	fmt.Println(out) // {"ok":"1"}
package backend
