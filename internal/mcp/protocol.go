// ABOUTME: JSON-RPC 2.0 and MCP protocol value types
// ABOUTME: Request/response envelopes, error codes, tool descriptors, result payloads

package mcp

import (
	"bytes"
	"encoding/json"
)

// latestProtocolVersion is the version advertised in initialize responses
// when the client does not name one.
const latestProtocolVersion = "2024-11-05"

// Standard JSON-RPC error codes
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603

	// CodeUnknownTool sits in the server-error range so clients can tell
	// "no such tool" apart from decode and internal failures.
	CodeUnknownTool = -32000
)

// sentinelID is used in error responses when the request id could not be
// recovered from a malformed envelope.
var sentinelID = json.RawMessage("-1")

// Request represents an incoming JSON-RPC 2.0 request. The ID is kept as
// raw JSON so string and integer ids round-trip exactly: a request with
// integer id 5 is never answered with string id "5".
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// IsNotification reports whether the request carries no id and therefore
// must not be answered. An explicit null id is treated the same as an
// absent one.
func (r *Request) IsNotification() bool {
	return len(r.ID) == 0 || bytes.Equal(bytes.TrimSpace(r.ID), []byte("null"))
}

// Response represents an outgoing JSON-RPC 2.0 response. Exactly one of
// Result and Error is set.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Error represents a JSON-RPC 2.0 error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// CallParams are the params for tools/call.
type CallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// InitializeParams are the params for initialize. They are advisory:
// nothing here is validated against a version list.
type InitializeParams struct {
	ProtocolVersion string          `json:"protocolVersion,omitempty"`
	Capabilities    json.RawMessage `json:"capabilities,omitempty"`
	ClientInfo      json.RawMessage `json:"clientInfo,omitempty"`
}

// Tool describes one invocable tool: its name, description, and a JSON
// Schema for its arguments.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// ListToolsResult is the result for tools/list.
type ListToolsResult struct {
	Tools []Tool `json:"tools"`
}

// CallToolResult is the result for tools/call. The tool's own payload is
// JSON-encoded into a single text content block; clients expect that
// two-layer encoding and it must not be flattened into a nested object.
type CallToolResult struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError,omitempty"`
}

// Content represents content in a tool result.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// InitializeResult is the result for initialize.
type InitializeResult struct {
	ProtocolVersion string       `json:"protocolVersion"`
	Capabilities    Capabilities `json:"capabilities"`
	ServerInfo      ServerInfo   `json:"serverInfo"`
	Instructions    string       `json:"instructions,omitempty"`
}

// Capabilities declares what the server supports.
type Capabilities struct {
	Tools ToolsCapability `json:"tools"`
}

// ToolsCapability declares tool support.
type ToolsCapability struct{}

// ServerInfo identifies the server.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ArgumentError reports a missing or malformed tool argument. The
// dispatcher surfaces it as a protocol-level invalid request rather than
// as tool output.
type ArgumentError struct {
	Field  string
	Reason string
}

func (e *ArgumentError) Error() string {
	return "argument " + e.Field + ": " + e.Reason
}

// recoverID makes a best-effort attempt to pull the id out of a request
// that failed strict decoding, so the error response can still echo it.
// The lenient pass looks at the id field alone; if even that fails the
// sentinel id -1 is used.
func recoverID(raw []byte) json.RawMessage {
	var probe struct {
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return sentinelID
	}
	if len(probe.ID) == 0 || bytes.Equal(bytes.TrimSpace(probe.ID), []byte("null")) {
		return sentinelID
	}
	return probe.ID
}
