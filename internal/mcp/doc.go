// Package mcp implements the Model Context Protocol request/response
// layer: JSON-RPC 2.0 envelopes and the dispatcher that routes them.
//
// # Protocol
//
// The server speaks exactly three methods:
//
//   - initialize: capability handshake, always succeeds
//   - tools/list: the static tool catalog
//   - tools/call: invoke one named tool
//
// Requests without an id are notifications and are never answered.
// Request ids are kept as raw JSON so string and integer forms round-trip
// exactly.
//
// # Error policy
//
// Protocol-level problems (unparseable envelope, unknown method, missing
// tool name, unknown tool) become JSON-RPC error responses:
//
//	-32700  parse error (sentinel id -1 when the id is unrecoverable)
//	-32600  invalid request / bad arguments
//	-32601  method not found
//	-32603  internal error
//	-32000  unknown tool
//
// Backend failures during a tool call are deliberately not protocol
// errors: they are folded into a successful envelope as
// {"success":false,"error":...} so tool-calling clients see them as
// ordinary tool output.
//
// # Wiring
//
// The dispatcher is constructed once with an immutable Toolset and is
// safe for concurrent use:
//
//	d, err := mcp.NewDispatcher(mcp.Config{
//	    Toolset:    registry,
//	    Logger:     logger,
//	    ServerName: "daybook",
//	})
//	resp := d.Handle(ctx, requestBytes) // nil for notifications
package mcp
