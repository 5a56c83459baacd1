// ABOUTME: Tests for calendar tools against the mock store
// ABOUTME: Covers range queries, date-only end expansion, and the url clear rule

package tools

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daybook/daybook/internal/store"
)

func newEventFixture() (*eventHandlers, *store.MockStore) {
	m := store.NewMockStore()
	return &eventHandlers{store: m}, m
}

func createEvent(t *testing.T, h *eventHandlers, args Args) string {
	t.Helper()
	result, err := h.Create(context.Background(), args)
	require.NoError(t, err)
	id, ok := result["event_id"].(string)
	require.True(t, ok, "create result: %v", result)
	return id
}

func listRange(t *testing.T, h *eventHandlers, args Args) []map[string]any {
	t.Helper()
	result, err := h.List(context.Background(), args)
	require.NoError(t, err)
	return result["events"].([]map[string]any)
}

func TestListCalendarsIncludesDefault(t *testing.T) {
	h, _ := newEventFixture()

	result, err := h.ListCalendars(context.Background(), Args{})
	require.NoError(t, err)
	calendars := result["calendars"].([]map[string]any)
	require.Len(t, calendars, 1)
	assert.Equal(t, store.DefaultCalendarName, calendars[0]["name"])
}

func TestCreateEventDefaults(t *testing.T) {
	h, _ := newEventFixture()

	createEvent(t, h, Args{
		"title":      "standup",
		"start_date": "2026-09-01T09:00:00Z",
		"end_date":   "2026-09-01T09:15:00Z",
	})

	events := listRange(t, h, Args{"start_date": "2026-08-31", "end_date": "2026-09-02"})
	require.Len(t, events, 1)
	assert.Equal(t, store.DefaultCalendarName, events[0]["calendar_name"])
	assert.Equal(t, false, events[0]["all_day"])
	assert.Equal(t, "", events[0]["location"])
}

func TestCreateEventUnknownCalendarFails(t *testing.T) {
	h, _ := newEventFixture()

	_, err := h.Create(context.Background(), Args{
		"title":         "x",
		"start_date":    "2026-09-01",
		"end_date":      "2026-09-01",
		"calendar_name": "Nope",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

// TestCreateEventDateOnlyEnd checks that a bare end date covers the whole
// day: the stored end is exclusive midnight of the following day.
func TestCreateEventDateOnlyEnd(t *testing.T) {
	h, m := newEventFixture()

	createEvent(t, h, Args{
		"title":      "conference",
		"start_date": "2026-09-01",
		"end_date":   "2026-09-02",
		"is_all_day": true,
	})

	// An event ending "2026-09-02" still overlaps a query late on the 2nd.
	lateOnSecond := time.Date(2026, 9, 2, 22, 0, 0, 0, time.Local)
	events, err := m.ListEvents(context.Background(), "", lateOnSecond, lateOnSecond.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "conference", events[0].Title)

	// But not a query on the 3rd.
	onThird := time.Date(2026, 9, 3, 0, 0, 0, 0, time.Local)
	events, err = m.ListEvents(context.Background(), "", onThird, onThird.Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestListEventsRange(t *testing.T) {
	h, _ := newEventFixture()

	createEvent(t, h, Args{"title": "in range", "start_date": "2026-09-10T10:00:00Z", "end_date": "2026-09-10T11:00:00Z"})
	createEvent(t, h, Args{"title": "before", "start_date": "2026-09-01T10:00:00Z", "end_date": "2026-09-01T11:00:00Z"})
	createEvent(t, h, Args{"title": "after", "start_date": "2026-09-20T10:00:00Z", "end_date": "2026-09-20T11:00:00Z"})

	events := listRange(t, h, Args{"start_date": "2026-09-09", "end_date": "2026-09-11"})
	require.Len(t, events, 1)
	assert.Equal(t, "in range", events[0]["title"])
}

func TestListEventsCalendarFilter(t *testing.T) {
	h, m := newEventFixture()

	_, err := m.CreateEvent(context.Background(), &store.Event{
		Title: "default cal",
		Start: time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 9, 10, 11, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	events := listRange(t, h, Args{
		"start_date":    "2026-09-09",
		"end_date":      "2026-09-11",
		"calendar_name": store.DefaultCalendarName,
	})
	assert.Len(t, events, 1)

	_, err = h.List(context.Background(), Args{
		"start_date":    "2026-09-09",
		"end_date":      "2026-09-11",
		"calendar_name": "Missing",
	})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListEventsRequiresRange(t *testing.T) {
	h, _ := newEventFixture()

	_, err := h.List(context.Background(), Args{"end_date": "2026-09-11"})
	assert.Error(t, err)

	_, err = h.List(context.Background(), Args{"start_date": "2026-09-09"})
	assert.Error(t, err)
}

func TestUpdateEventFields(t *testing.T) {
	h, _ := newEventFixture()
	id := createEvent(t, h, Args{
		"title":      "review",
		"start_date": "2026-09-10T10:00:00Z",
		"end_date":   "2026-09-10T11:00:00Z",
		"url":        "https://example.com/call",
	})

	read := func() map[string]any {
		events := listRange(t, h, Args{"start_date": "2026-09-09", "end_date": "2026-09-11"})
		require.Len(t, events, 1)
		return events[0]
	}

	_, err := h.Update(context.Background(), Args{"event_id": id, "title": "design review", "location": "room 4"})
	require.NoError(t, err)
	e := read()
	assert.Equal(t, "design review", e["title"])
	assert.Equal(t, "room 4", e["location"])
	assert.Equal(t, "https://example.com/call", e["url"], "untouched field survives")

	// Empty string clears the URL.
	_, err = h.Update(context.Background(), Args{"event_id": id, "url": ""})
	require.NoError(t, err)
	assert.Equal(t, "", read()["url"])
}

func TestUpdateEventTimes(t *testing.T) {
	h, _ := newEventFixture()
	id := createEvent(t, h, Args{
		"title":      "x",
		"start_date": "2026-09-10T10:00:00Z",
		"end_date":   "2026-09-10T11:00:00Z",
	})

	_, err := h.Update(context.Background(), Args{"event_id": id, "start_date": "2026-09-12T10:00:00Z", "end_date": "2026-09-12T11:00:00Z"})
	require.NoError(t, err)

	events := listRange(t, h, Args{"start_date": "2026-09-11", "end_date": "2026-09-13"})
	require.Len(t, events, 1)

	events = listRange(t, h, Args{"start_date": "2026-09-09", "end_date": "2026-09-10"})
	assert.Empty(t, events)
}

func TestUpdateEventUnknown(t *testing.T) {
	h, _ := newEventFixture()

	_, err := h.Update(context.Background(), Args{"event_id": "nope", "title": "x"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteEvent(t *testing.T) {
	h, _ := newEventFixture()
	id := createEvent(t, h, Args{
		"title":      "x",
		"start_date": "2026-09-10",
		"end_date":   "2026-09-10",
	})

	_, err := h.Delete(context.Background(), Args{"event_id": id})
	require.NoError(t, err)

	_, err = h.Delete(context.Background(), Args{"event_id": id})
	assert.ErrorIs(t, err, store.ErrNotFound)
}
