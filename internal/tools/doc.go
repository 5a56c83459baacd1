// Package tools defines the static daybook tool catalog and the handlers
// behind it.
//
// The catalog is built once at startup by NewRegistry and never mutated;
// its order is deterministic so clients that render tool lists
// positionally see a stable catalog. Every catalog entry has exactly one
// handler and every handler exactly one entry, so tools/list and
// tools/call cover the same name set.
//
// Handlers validate and coerce their own arguments through the Args
// accessors, which keeps each tool's coercion rules in one place:
//
//   - defaults apply only when an argument is absent, never when it is
//     present with the wrong type
//   - priority accepts a JSON number or a numeric string
//   - dates accept YYYY-MM-DD (whole local day, no time-of-day) or
//     RFC3339 (exact moment)
//   - on update_reminder, due_date "" clears the due date while an
//     absent due_date leaves it unchanged
//
// Argument problems surface as *mcp.ArgumentError and become
// protocol-level errors; store failures are returned as plain errors and
// folded into tool output by the dispatcher.
package tools
