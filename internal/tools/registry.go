// ABOUTME: Static catalog of daybook tools mapped to their handlers
// ABOUTME: Implements the dispatcher's Toolset interface over the backend store

package tools

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/daybook/daybook/internal/mcp"
	"github.com/daybook/daybook/internal/store"
)

// Instructions is the free-text blob returned from initialize describing
// the tool surface to clients.
const Instructions = "daybook exposes task and calendar tools. Reminder tools " +
	"(list_reminder_lists, create_reminder_list, list_today_reminders, list_reminders, " +
	"create_reminder, complete_reminder, delete_reminder, update_reminder) manage task " +
	"items in named lists. Calendar tools (list_calendars, list_today_events, list_events, " +
	"create_event, update_event, delete_event) manage timed events. Dates accept " +
	"YYYY-MM-DD (whole day, local time) or RFC3339 (exact moment). Tool results are " +
	"JSON text; failures carry {\"success\":false,\"error\":...}."

// Handler executes one tool call against the backend store.
type Handler func(ctx context.Context, args Args) (map[string]any, error)

// Tool pairs a descriptor with its handler.
type Tool struct {
	Def     mcp.Tool
	Handler Handler
}

// Registry is the immutable tool catalog. It is built once at startup
// and implements mcp.Toolset; Catalog order is fixed for the process
// lifetime.
type Registry struct {
	logger *slog.Logger
	tools  []Tool
	index  map[string]Handler
}

// NewRegistry builds the full daybook catalog over the given store.
func NewRegistry(s store.Store, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	reg := &Registry{
		logger: logger.With("component", "tools"),
		index:  make(map[string]Handler),
	}

	r := &reminderHandlers{store: s}
	e := &eventHandlers{store: s}
	for _, t := range reminderTools(r) {
		reg.add(t)
	}
	for _, t := range eventTools(e) {
		reg.add(t)
	}
	return reg
}

func (g *Registry) add(t Tool) {
	if _, dup := g.index[t.Def.Name]; dup {
		// Catalog names are unique by construction; a duplicate is a
		// programming error caught at startup.
		panic("duplicate tool name: " + t.Def.Name)
	}
	g.tools = append(g.tools, t)
	g.index[t.Def.Name] = t.Handler
}

// Catalog returns the tool descriptors in registration order.
func (g *Registry) Catalog() []mcp.Tool {
	out := make([]mcp.Tool, len(g.tools))
	for i, t := range g.tools {
		out[i] = t.Def
	}
	return out
}

// Lookup returns the invoker for the named tool.
func (g *Registry) Lookup(name string) (mcp.ToolFunc, bool) {
	h, ok := g.index[name]
	if !ok {
		return nil, false
	}
	fn := func(ctx context.Context, arguments json.RawMessage) (map[string]any, error) {
		args, err := decodeArgs(arguments)
		if err != nil {
			return nil, err
		}
		return h(ctx, args)
	}
	return fn, true
}
