// ABOUTME: JSON-RPC request dispatcher: decode, route, invoke, normalize
// ABOUTME: Turns raw request bytes into raw response bytes (or nothing, for notifications)

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// ToolFunc executes one tool call. It returns the tool's domain result,
// or an error: an *ArgumentError for bad arguments, anything else for a
// backend failure.
type ToolFunc func(ctx context.Context, arguments json.RawMessage) (map[string]any, error)

// Toolset is the static tool catalog the dispatcher routes tools/call
// against. Catalog order must be stable across calls; some clients
// render catalogs positionally.
type Toolset interface {
	Catalog() []Tool
	Lookup(name string) (ToolFunc, bool)
}

// encodeFallback is the hand-written envelope used when the response
// itself cannot be serialized. This is the only place a fixed literal
// stands in for structured construction.
const encodeFallback = `{"jsonrpc":"2.0","id":-1,"error":{"code":-32603,"message":"failed to encode response"}}`

// Config holds configuration for the dispatcher.
type Config struct {
	Toolset       Toolset
	Logger        *slog.Logger
	ServerName    string
	ServerVersion string
	Instructions  string
}

// Dispatcher is the protocol heart: it decodes envelopes, routes by
// method, invokes tools, and normalizes outcomes into responses. It is
// stateless apart from the immutable toolset, so concurrent Handle calls
// from independent requests are safe.
type Dispatcher struct {
	toolset       Toolset
	logger        *slog.Logger
	serverName    string
	serverVersion string
	instructions  string
}

// NewDispatcher creates a dispatcher over the given toolset.
func NewDispatcher(cfg Config) (*Dispatcher, error) {
	if cfg.Toolset == nil {
		return nil, errors.New("toolset is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		toolset:       cfg.Toolset,
		logger:        logger.With("component", "dispatcher"),
		serverName:    cfg.ServerName,
		serverVersion: cfg.ServerVersion,
		instructions:  cfg.Instructions,
	}, nil
}

// Handle processes one raw JSON-RPC request and returns the encoded
// response, or nil for notifications. It never panics and never lets a
// backend failure escape as anything but response bytes.
func (d *Dispatcher) Handle(ctx context.Context, raw []byte) []byte {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return d.encode(errorResponse(recoverID(raw), CodeParseError, "parse error: invalid JSON"))
	}

	if req.IsNotification() {
		d.logger.Debug("notification accepted", "method", req.Method)
		return nil
	}

	if req.JSONRPC != "2.0" {
		return d.encode(errorResponse(req.ID, CodeInvalidRequest, "invalid JSON-RPC version"))
	}

	d.logger.Debug("request", "method", req.Method)

	switch req.Method {
	case "initialize":
		return d.encode(d.handleInitialize(req))
	case "tools/list":
		return d.encode(resultResponse(req.ID, ListToolsResult{Tools: d.toolset.Catalog()}))
	case "tools/call":
		return d.encode(d.handleToolsCall(ctx, req))
	default:
		return d.encode(errorResponse(req.ID, CodeMethodNotFound, "method not found"))
	}
}

// handleInitialize answers the capability handshake. Client params are
// advisory; the requested protocol version is echoed back when present.
func (d *Dispatcher) handleInitialize(req Request) Response {
	var params InitializeParams
	if len(req.Params) > 0 {
		// Lenient: a malformed initialize params object falls back to defaults.
		if err := json.Unmarshal(req.Params, &params); err != nil {
			d.logger.Debug("ignoring malformed initialize params", "error", err)
		}
	}

	version := params.ProtocolVersion
	if version == "" {
		version = latestProtocolVersion
	}

	return resultResponse(req.ID, InitializeResult{
		ProtocolVersion: version,
		Capabilities:    Capabilities{},
		ServerInfo:      ServerInfo{Name: d.serverName, Version: d.serverVersion},
		Instructions:    d.instructions,
	})
}

// handleToolsCall validates the call envelope, invokes the tool, and
// normalizes the outcome. Backend failures become tool output
// ({"success":false,"error":...}); only envelope-level problems become
// protocol errors.
func (d *Dispatcher) handleToolsCall(ctx context.Context, req Request) Response {
	var params CallParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return errorResponse(req.ID, CodeInvalidRequest, "invalid params")
		}
	}

	if params.Name == "" {
		return errorResponse(req.ID, CodeInvalidRequest, "tool name is required")
	}

	fn, ok := d.toolset.Lookup(params.Name)
	if !ok {
		return errorResponse(req.ID, CodeUnknownTool, fmt.Sprintf("unknown tool: %s", params.Name))
	}

	result, err := fn(ctx, params.Arguments)

	var payload map[string]any
	switch {
	case err == nil:
		payload = result
	default:
		var argErr *ArgumentError
		if errors.As(err, &argErr) {
			return errorResponse(req.ID, CodeInvalidRequest,
				fmt.Sprintf("invalid arguments for %s: %s", params.Name, argErr.Error()))
		}
		d.logger.Warn("tool call failed", "tool_name", params.Name, "error", err)
		payload = map[string]any{"success": false, "error": err.Error()}
	}

	// Two-layer encoding: the tool payload is a JSON string nested inside
	// the envelope's text content.
	text, err := json.Marshal(payload)
	if err != nil {
		d.logger.Error("failed to encode tool result", "tool_name", params.Name, "error", err)
		return errorResponse(req.ID, CodeInternalError, "failed to encode tool result")
	}

	return resultResponse(req.ID, CallToolResult{
		Content: []Content{{Type: "text", Text: string(text)}},
	})
}

// encode serializes a response, degrading to the hand-written fallback
// envelope if serialization itself fails.
func (d *Dispatcher) encode(resp Response) []byte {
	data, err := json.Marshal(resp)
	if err != nil {
		d.logger.Error("failed to encode response", "error", err)
		return []byte(encodeFallback)
	}
	return data
}

func resultResponse(id json.RawMessage, result any) Response {
	return Response{JSONRPC: "2.0", ID: id, Result: result}
}

func errorResponse(id json.RawMessage, code int, message string) Response {
	if len(id) == 0 {
		id = sentinelID
	}
	return Response{JSONRPC: "2.0", ID: id, Error: &Error{Code: code, Message: message}}
}
