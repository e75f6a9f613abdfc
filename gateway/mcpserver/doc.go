// Package mcpserver serves the tools of a backend.Aggregator over the Model
// Context Protocol.
//
// Each tool call is dispatched through the aggregator. The text content of
// the result is the serialized envelope returned by the operation, and the
// result is flagged as an error when the envelope holds the err variant or
// when the call could not be dispatched at all.
//
//	srv, err := mcpserver.New(ctx, mcpserver.Config{Aggregator: agg})
//	if err != nil { ... }
//	err = srv.Run(ctx, &mcp.StdioTransport{})
package mcpserver
