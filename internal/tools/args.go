// ABOUTME: Typed accessors over the untyped tools/call argument bag
// ABOUTME: Centralizes coercion rules: defaults, numeric strings, date literals

package tools

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/daybook/daybook/internal/mcp"
	"github.com/daybook/daybook/internal/store"
)

// Args is the open mapping of tool-call arguments. Accessors return
// *mcp.ArgumentError for missing required values and wrong dynamic
// types; defaults apply only when an argument is entirely absent, never
// when it is present with the wrong type.
type Args map[string]any

// decodeArgs parses the raw arguments object. Absent or null arguments
// decode to an empty bag.
func decodeArgs(raw json.RawMessage) (Args, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return Args{}, nil
	}
	var a Args
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, &mcp.ArgumentError{Field: "arguments", Reason: "must be a JSON object"}
	}
	return a, nil
}

// String returns a required string argument.
func (a Args) String(key string) (string, error) {
	v, ok := a[key]
	if !ok {
		return "", &mcp.ArgumentError{Field: key, Reason: "required"}
	}
	s, ok := v.(string)
	if !ok {
		return "", &mcp.ArgumentError{Field: key, Reason: "must be a string"}
	}
	return s, nil
}

// StringOr returns an optional string argument, or def when absent.
func (a Args) StringOr(key, def string) (string, error) {
	if _, ok := a[key]; !ok {
		return def, nil
	}
	return a.String(key)
}

// OptionalString returns a string argument and whether it was present.
func (a Args) OptionalString(key string) (string, bool, error) {
	if _, ok := a[key]; !ok {
		return "", false, nil
	}
	s, err := a.String(key)
	return s, err == nil, err
}

// BoolOr returns an optional boolean argument, or def when absent.
func (a Args) BoolOr(key string, def bool) (bool, error) {
	v, ok := a[key]
	if !ok {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, &mcp.ArgumentError{Field: key, Reason: "must be a boolean"}
	}
	return b, nil
}

// OptionalInt returns an integer argument and whether it was present.
// Both JSON numbers and numeric strings are accepted; fractional numbers
// are rejected.
func (a Args) OptionalInt(key string) (int, bool, error) {
	v, ok := a[key]
	if !ok {
		return 0, false, nil
	}
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, true, &mcp.ArgumentError{Field: key, Reason: "must be an integer"}
		}
		return int(n), true, nil
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, true, &mcp.ArgumentError{Field: key, Reason: "must be an integer"}
		}
		return i, true, nil
	default:
		return 0, true, &mcp.ArgumentError{Field: key, Reason: "must be an integer"}
	}
}

// parseDate parses the two accepted date literal forms: an RFC3339
// datetime with explicit designator, or a bare date interpreted in the
// process's local time zone and carrying no time-of-day component.
func parseDate(key, s string) (store.DueDate, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return store.DueDate{Time: t}, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return store.DueDate{Time: t, DateOnly: true}, nil
	}
	return store.DueDate{}, &mcp.ArgumentError{
		Field:  key,
		Reason: fmt.Sprintf("invalid date %q: use YYYY-MM-DD or RFC3339", s),
	}
}

// Date returns a required date argument.
func (a Args) Date(key string) (store.DueDate, error) {
	s, err := a.String(key)
	if err != nil {
		return store.DueDate{}, err
	}
	return parseDate(key, s)
}

// OptionalDate returns a date argument and whether it was present.
func (a Args) OptionalDate(key string) (*store.DueDate, bool, error) {
	s, present, err := a.OptionalString(key)
	if err != nil || !present {
		return nil, present, err
	}
	d, err := parseDate(key, s)
	if err != nil {
		return nil, true, err
	}
	return &d, true, nil
}
