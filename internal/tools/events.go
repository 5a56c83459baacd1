// ABOUTME: Calendar tools: list calendars, list/create/update/delete events
// ABOUTME: Coerces arguments per tool and maps store records to result payloads

package tools

import (
	"context"
	"encoding/json"
	"time"

	"github.com/daybook/daybook/internal/mcp"
	"github.com/daybook/daybook/internal/store"
)

// eventTools returns the calendar half of the catalog.
func eventTools(h *eventHandlers) []Tool {
	return []Tool{
		{
			Def: mcp.Tool{
				Name:        "list_calendars",
				Description: "List all calendars",
				InputSchema: json.RawMessage(`{"type":"object","properties":{}}`),
			},
			Handler: h.ListCalendars,
		},
		{
			Def: mcp.Tool{
				Name:        "list_today_events",
				Description: "List events occurring today",
				InputSchema: json.RawMessage(`{"type":"object","properties":{}}`),
			},
			Handler: h.ListToday,
		},
		{
			Def: mcp.Tool{
				Name:        "list_events",
				Description: "List events in a date range, optionally restricted to one calendar",
				InputSchema: json.RawMessage(`{"type":"object","properties":{"start_date":{"type":"string","description":"Range start: YYYY-MM-DD or RFC3339"},"end_date":{"type":"string","description":"Range end: YYYY-MM-DD (inclusive day) or RFC3339"},"calendar_name":{"type":"string","description":"Restrict to one calendar (default: all calendars)"}},"required":["start_date","end_date"]}`),
			},
			Handler: h.List,
		},
		{
			Def: mcp.Tool{
				Name:        "create_event",
				Description: "Create a calendar event",
				InputSchema: json.RawMessage(`{"type":"object","properties":{"title":{"type":"string","description":"Event title"},"start_date":{"type":"string","description":"Start: YYYY-MM-DD or RFC3339"},"end_date":{"type":"string","description":"End: YYYY-MM-DD (inclusive day) or RFC3339"},"calendar_name":{"type":"string","description":"Calendar to add to (default: Calendar)"},"is_all_day":{"type":"boolean","description":"All-day event (default: false)"},"location":{"type":"string","description":"Event location"},"notes":{"type":"string","description":"Free-text notes"},"url":{"type":"string","description":"Associated URL"}},"required":["title","start_date","end_date"]}`),
			},
			Handler: h.Create,
		},
		{
			Def: mcp.Tool{
				Name:        "update_event",
				Description: "Update an event's title, times, location, notes, or URL",
				InputSchema: json.RawMessage(`{"type":"object","properties":{"event_id":{"type":"string","description":"Event identifier"},"title":{"type":"string","description":"New title"},"start_date":{"type":"string","description":"New start: YYYY-MM-DD or RFC3339"},"end_date":{"type":"string","description":"New end: YYYY-MM-DD (inclusive day) or RFC3339"},"location":{"type":"string","description":"New location"},"notes":{"type":"string","description":"New notes"},"url":{"type":"string","description":"New URL; empty string clears it"}},"required":["event_id"]}`),
			},
			Handler: h.Update,
		},
		{
			Def: mcp.Tool{
				Name:        "delete_event",
				Description: "Delete an event",
				InputSchema: json.RawMessage(`{"type":"object","properties":{"event_id":{"type":"string","description":"Event identifier"}},"required":["event_id"]}`),
			},
			Handler: h.Delete,
		},
	}
}

type eventHandlers struct {
	store store.Store
}

// eventMap renders an event record as a result payload entry.
func eventMap(e *store.Event) map[string]any {
	return map[string]any{
		"id":            e.ID,
		"title":         e.Title,
		"calendar_name": e.CalendarName,
		"start_date":    e.Start.Format(time.RFC3339),
		"end_date":      e.End.Format(time.RFC3339),
		"all_day":       e.AllDay,
		"location":      e.Location,
		"notes":         e.Notes,
		"url":           e.URL,
	}
}

// endTime converts a parsed date argument into an event end time. A
// bare date means the whole day, so the end is exclusive midnight of the
// following day.
func endTime(d store.DueDate) time.Time {
	if d.DateOnly {
		return d.Time.AddDate(0, 0, 1)
	}
	return d.Time
}

func (h *eventHandlers) ListCalendars(ctx context.Context, args Args) (map[string]any, error) {
	calendars, err := h.store.ListCalendars(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, len(calendars))
	for i, c := range calendars {
		out[i] = map[string]any{"id": c.ID, "name": c.Name}
	}
	return map[string]any{"calendars": out, "count": len(out)}, nil
}

func (h *eventHandlers) ListToday(ctx context.Context, args Args) (map[string]any, error) {
	events, err := h.store.ListTodayEvents(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, len(events))
	for i, e := range events {
		out[i] = eventMap(e)
	}
	return map[string]any{"events": out, "count": len(out)}, nil
}

func (h *eventHandlers) List(ctx context.Context, args Args) (map[string]any, error) {
	start, err := args.Date("start_date")
	if err != nil {
		return nil, err
	}
	end, err := args.Date("end_date")
	if err != nil {
		return nil, err
	}
	calendarName, _, err := args.OptionalString("calendar_name")
	if err != nil {
		return nil, err
	}

	events, err := h.store.ListEvents(ctx, calendarName, start.Time, endTime(end))
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, len(events))
	for i, e := range events {
		out[i] = eventMap(e)
	}
	return map[string]any{"events": out, "count": len(out)}, nil
}

func (h *eventHandlers) Create(ctx context.Context, args Args) (map[string]any, error) {
	title, err := args.String("title")
	if err != nil {
		return nil, err
	}
	start, err := args.Date("start_date")
	if err != nil {
		return nil, err
	}
	end, err := args.Date("end_date")
	if err != nil {
		return nil, err
	}
	calendarName, err := args.StringOr("calendar_name", store.DefaultCalendarName)
	if err != nil {
		return nil, err
	}
	allDay, err := args.BoolOr("is_all_day", false)
	if err != nil {
		return nil, err
	}
	location, err := args.StringOr("location", "")
	if err != nil {
		return nil, err
	}
	notes, err := args.StringOr("notes", "")
	if err != nil {
		return nil, err
	}
	url, err := args.StringOr("url", "")
	if err != nil {
		return nil, err
	}

	id, err := h.store.CreateEvent(ctx, &store.Event{
		CalendarName: calendarName,
		Title:        title,
		Start:        start.Time,
		End:          endTime(end),
		AllDay:       allDay,
		Location:     location,
		Notes:        notes,
		URL:          url,
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{"success": true, "event_id": id}, nil
}

func (h *eventHandlers) Update(ctx context.Context, args Args) (map[string]any, error) {
	id, err := args.String("event_id")
	if err != nil {
		return nil, err
	}

	var upd store.EventUpdate
	if title, ok, err := args.OptionalString("title"); err != nil {
		return nil, err
	} else if ok {
		upd.Title = &title
	}
	// Supplying only one of start/end deliberately skips start<=end
	// re-validation; the stored pair may end up inverted.
	if start, ok, err := args.OptionalDate("start_date"); err != nil {
		return nil, err
	} else if ok {
		upd.Start = &start.Time
	}
	if end, ok, err := args.OptionalDate("end_date"); err != nil {
		return nil, err
	} else if ok {
		t := endTime(*end)
		upd.End = &t
	}
	if location, ok, err := args.OptionalString("location"); err != nil {
		return nil, err
	} else if ok {
		upd.Location = &location
	}
	if notes, ok, err := args.OptionalString("notes"); err != nil {
		return nil, err
	} else if ok {
		upd.Notes = &notes
	}
	if url, ok, err := args.OptionalString("url"); err != nil {
		return nil, err
	} else if ok {
		upd.URL = &url
	}

	if err := h.store.UpdateEvent(ctx, id, upd); err != nil {
		return nil, err
	}
	return map[string]any{"success": true, "event_id": id}, nil
}

func (h *eventHandlers) Delete(ctx context.Context, args Args) (map[string]any, error) {
	id, err := args.String("event_id")
	if err != nil {
		return nil, err
	}
	if err := h.store.DeleteEvent(ctx, id); err != nil {
		return nil, err
	}
	return map[string]any{"success": true, "event_id": id}, nil
}
