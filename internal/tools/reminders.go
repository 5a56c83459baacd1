// ABOUTME: Reminder tools: list/create lists, list/create/complete/delete/update reminders
// ABOUTME: Coerces arguments per tool and maps store records to result payloads

package tools

import (
	"context"
	"encoding/json"
	"time"

	"github.com/daybook/daybook/internal/mcp"
	"github.com/daybook/daybook/internal/store"
)

// reminderTools returns the reminder half of the catalog.
func reminderTools(h *reminderHandlers) []Tool {
	return []Tool{
		{
			Def: mcp.Tool{
				Name:        "list_reminder_lists",
				Description: "List all reminder lists",
				InputSchema: json.RawMessage(`{"type":"object","properties":{}}`),
			},
			Handler: h.ListLists,
		},
		{
			Def: mcp.Tool{
				Name:        "create_reminder_list",
				Description: "Create a new reminder list",
				InputSchema: json.RawMessage(`{"type":"object","properties":{"name":{"type":"string","description":"Name of the new list"}},"required":["name"]}`),
			},
			Handler: h.CreateList,
		},
		{
			Def: mcp.Tool{
				Name:        "list_today_reminders",
				Description: "List incomplete reminders due today or overdue",
				InputSchema: json.RawMessage(`{"type":"object","properties":{}}`),
			},
			Handler: h.ListToday,
		},
		{
			Def: mcp.Tool{
				Name:        "list_reminders",
				Description: "List reminders, optionally filtered by list and completion state",
				InputSchema: json.RawMessage(`{"type":"object","properties":{"list_name":{"type":"string","description":"Restrict to one list (default: all lists)"},"completed":{"type":"boolean","description":"List completed instead of incomplete reminders (default: false)"}}}`),
			},
			Handler: h.List,
		},
		{
			Def: mcp.Tool{
				Name:        "create_reminder",
				Description: "Create a reminder",
				InputSchema: json.RawMessage(`{"type":"object","properties":{"title":{"type":"string","description":"Reminder title"},"list_name":{"type":"string","description":"List to add to (default: Reminders)"},"notes":{"type":"string","description":"Free-text notes"},"due_date":{"type":"string","description":"Due date: YYYY-MM-DD or RFC3339"}},"required":["title"]}`),
			},
			Handler: h.Create,
		},
		{
			Def: mcp.Tool{
				Name:        "complete_reminder",
				Description: "Mark a reminder as completed",
				InputSchema: json.RawMessage(`{"type":"object","properties":{"reminder_id":{"type":"string","description":"Reminder identifier"}},"required":["reminder_id"]}`),
			},
			Handler: h.Complete,
		},
		{
			Def: mcp.Tool{
				Name:        "delete_reminder",
				Description: "Delete a reminder",
				InputSchema: json.RawMessage(`{"type":"object","properties":{"reminder_id":{"type":"string","description":"Reminder identifier"}},"required":["reminder_id"]}`),
			},
			Handler: h.Delete,
		},
		{
			Def: mcp.Tool{
				Name:        "update_reminder",
				Description: "Update a reminder's title, notes, due date, or priority",
				InputSchema: json.RawMessage(`{"type":"object","properties":{"reminder_id":{"type":"string","description":"Reminder identifier"},"title":{"type":"string","description":"New title"},"notes":{"type":"string","description":"New notes"},"due_date":{"type":"string","description":"New due date; empty string clears it"},"priority":{"type":"integer","description":"Priority 0-9 (0 = none)"}},"required":["reminder_id"]}`),
			},
			Handler: h.Update,
		},
	}
}

type reminderHandlers struct {
	store store.Store
}

// reminderMap renders a reminder record as a result payload entry.
func reminderMap(r *store.Reminder) map[string]any {
	m := map[string]any{
		"id":        r.ID,
		"title":     r.Title,
		"list_name": r.ListName,
		"notes":     r.Notes,
		"priority":  r.Priority,
		"completed": r.Completed,
	}
	if r.Due != nil {
		m["due_date"] = r.Due.String()
	}
	if r.CompletedAt != nil {
		m["completed_at"] = r.CompletedAt.Format(time.RFC3339)
	}
	return m
}

func (h *reminderHandlers) ListLists(ctx context.Context, args Args) (map[string]any, error) {
	lists, err := h.store.ListReminderLists(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, len(lists))
	for i, l := range lists {
		out[i] = map[string]any{"id": l.ID, "name": l.Name}
	}
	return map[string]any{"lists": out, "count": len(out)}, nil
}

func (h *reminderHandlers) CreateList(ctx context.Context, args Args) (map[string]any, error) {
	name, err := args.String("name")
	if err != nil {
		return nil, err
	}
	id, err := h.store.CreateReminderList(ctx, name)
	if err != nil {
		return nil, err
	}
	return map[string]any{"success": true, "list_id": id, "name": name}, nil
}

func (h *reminderHandlers) ListToday(ctx context.Context, args Args) (map[string]any, error) {
	reminders, err := h.store.ListDueTodayReminders(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, len(reminders))
	for i, r := range reminders {
		out[i] = reminderMap(r)
	}
	return map[string]any{"reminders": out, "count": len(out)}, nil
}

func (h *reminderHandlers) List(ctx context.Context, args Args) (map[string]any, error) {
	listName, _, err := args.OptionalString("list_name")
	if err != nil {
		return nil, err
	}
	completed, err := args.BoolOr("completed", false)
	if err != nil {
		return nil, err
	}
	reminders, err := h.store.ListReminders(ctx, listName, completed)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, len(reminders))
	for i, r := range reminders {
		out[i] = reminderMap(r)
	}
	return map[string]any{"reminders": out, "count": len(out)}, nil
}

func (h *reminderHandlers) Create(ctx context.Context, args Args) (map[string]any, error) {
	title, err := args.String("title")
	if err != nil {
		return nil, err
	}
	listName, err := args.StringOr("list_name", store.DefaultListName)
	if err != nil {
		return nil, err
	}
	notes, err := args.StringOr("notes", "")
	if err != nil {
		return nil, err
	}
	due, _, err := args.OptionalDate("due_date")
	if err != nil {
		return nil, err
	}

	id, err := h.store.CreateReminder(ctx, &store.Reminder{
		ListName: listName,
		Title:    title,
		Notes:    notes,
		Due:      due,
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{"success": true, "reminder_id": id}, nil
}

func (h *reminderHandlers) Complete(ctx context.Context, args Args) (map[string]any, error) {
	id, err := args.String("reminder_id")
	if err != nil {
		return nil, err
	}
	if err := h.store.CompleteReminder(ctx, id); err != nil {
		return nil, err
	}
	return map[string]any{"success": true, "reminder_id": id}, nil
}

func (h *reminderHandlers) Delete(ctx context.Context, args Args) (map[string]any, error) {
	id, err := args.String("reminder_id")
	if err != nil {
		return nil, err
	}
	if err := h.store.DeleteReminder(ctx, id); err != nil {
		return nil, err
	}
	return map[string]any{"success": true, "reminder_id": id}, nil
}

func (h *reminderHandlers) Update(ctx context.Context, args Args) (map[string]any, error) {
	id, err := args.String("reminder_id")
	if err != nil {
		return nil, err
	}

	var upd store.ReminderUpdate
	if title, ok, err := args.OptionalString("title"); err != nil {
		return nil, err
	} else if ok {
		upd.Title = &title
	}
	if notes, ok, err := args.OptionalString("notes"); err != nil {
		return nil, err
	} else if ok {
		upd.Notes = &notes
	}

	// due_date is tri-state: absent leaves the due date unchanged, an
	// empty string clears it, anything else replaces it.
	if raw, ok, err := args.OptionalString("due_date"); err != nil {
		return nil, err
	} else if ok {
		if raw == "" {
			upd.ClearDue = true
		} else {
			due, err := parseDate("due_date", raw)
			if err != nil {
				return nil, err
			}
			upd.Due = &due
		}
	}

	// Priority accepts a number or a numeric string. Values outside 0-9
	// are forwarded as-is; the backend's semantics govern.
	if priority, ok, err := args.OptionalInt("priority"); err != nil {
		return nil, err
	} else if ok {
		upd.Priority = &priority
	}

	if err := h.store.UpdateReminder(ctx, id, upd); err != nil {
		return nil, err
	}
	return map[string]any{"success": true, "reminder_id": id}, nil
}
