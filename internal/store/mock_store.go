// ABOUTME: In-memory mock implementation of the Store interface for testing
// ABOUTME: Mirrors SQLiteStore semantics including default list/calendar seeding

package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockStore is an in-memory Store implementation for tests.
// Set Err to force every operation to fail with that error.
type MockStore struct {
	mu        sync.Mutex
	lists     []*ReminderList
	reminders []*Reminder
	calendars []*Calendar
	events    []*Event

	// Err, when non-nil, is returned by every operation.
	Err error
	// Calls counts operations that reached the store.
	Calls int
}

// NewMockStore creates a MockStore seeded with the default reminder
// list and calendar, like a fresh SQLiteStore.
func NewMockStore() *MockStore {
	return &MockStore{
		lists: []*ReminderList{
			{ID: uuid.New().String(), Name: DefaultListName, CreatedAt: time.Now()},
		},
		calendars: []*Calendar{
			{ID: uuid.New().String(), Name: DefaultCalendarName, CreatedAt: time.Now()},
		},
	}
}

func (m *MockStore) begin() error {
	m.Calls++
	return m.Err
}

// ListReminderLists returns all reminder lists.
func (m *MockStore) ListReminderLists(ctx context.Context) ([]*ReminderList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(); err != nil {
		return nil, err
	}
	out := make([]*ReminderList, len(m.lists))
	copy(out, m.lists)
	return out, nil
}

// CreateReminderList creates a new reminder list.
func (m *MockStore) CreateReminderList(ctx context.Context, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(); err != nil {
		return "", err
	}
	for _, l := range m.lists {
		if l.Name == name {
			return "", fmt.Errorf("list %q: %w", name, ErrDuplicateList)
		}
	}
	l := &ReminderList{ID: uuid.New().String(), Name: name, CreatedAt: time.Now()}
	m.lists = append(m.lists, l)
	return l.ID, nil
}

func (m *MockStore) findList(name string) (*ReminderList, error) {
	for _, l := range m.lists {
		if l.Name == name {
			return l, nil
		}
	}
	return nil, fmt.Errorf("list %q: %w", name, ErrNotFound)
}

// ListDueTodayReminders returns incomplete reminders due today or overdue.
func (m *MockStore) ListDueTodayReminders(ctx context.Context) ([]*Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(); err != nil {
		return nil, err
	}
	now := time.Now()
	endOfToday := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, time.Local)
	var out []*Reminder
	for _, r := range m.reminders {
		if !r.Completed && r.Due != nil && !r.Due.Time.After(endOfToday) {
			out = append(out, r)
		}
	}
	return out, nil
}

// ListReminders returns reminders filtered by completion state.
func (m *MockStore) ListReminders(ctx context.Context, listName string, completed bool) ([]*Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(); err != nil {
		return nil, err
	}
	if listName != "" {
		if _, err := m.findList(listName); err != nil {
			return nil, err
		}
	}
	var out []*Reminder
	for _, r := range m.reminders {
		if r.Completed != completed {
			continue
		}
		if listName != "" && r.ListName != listName {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// CreateReminder creates a reminder.
func (m *MockStore) CreateReminder(ctx context.Context, r *Reminder) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(); err != nil {
		return "", err
	}
	listName := r.ListName
	if listName == "" {
		listName = DefaultListName
	}
	if _, err := m.findList(listName); err != nil {
		return "", err
	}
	stored := *r
	stored.ID = uuid.New().String()
	stored.ListName = listName
	stored.CreatedAt = time.Now()
	m.reminders = append(m.reminders, &stored)
	return stored.ID, nil
}

func (m *MockStore) findReminder(id string) (*Reminder, error) {
	for _, r := range m.reminders {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, fmt.Errorf("reminder %s: %w", id, ErrNotFound)
}

// CompleteReminder marks a reminder completed.
func (m *MockStore) CompleteReminder(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(); err != nil {
		return err
	}
	r, err := m.findReminder(id)
	if err != nil {
		return err
	}
	if !r.Completed {
		r.Completed = true
		now := time.Now()
		r.CompletedAt = &now
	}
	return nil
}

// DeleteReminder removes a reminder.
func (m *MockStore) DeleteReminder(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(); err != nil {
		return err
	}
	for i, r := range m.reminders {
		if r.ID == id {
			m.reminders = append(m.reminders[:i], m.reminders[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("reminder %s: %w", id, ErrNotFound)
}

// UpdateReminder applies a partial update to a reminder.
func (m *MockStore) UpdateReminder(ctx context.Context, id string, upd ReminderUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(); err != nil {
		return err
	}
	r, err := m.findReminder(id)
	if err != nil {
		return err
	}
	if upd.Title != nil {
		r.Title = *upd.Title
	}
	if upd.Notes != nil {
		r.Notes = *upd.Notes
	}
	if upd.ClearDue {
		r.Due = nil
	} else if upd.Due != nil {
		due := *upd.Due
		r.Due = &due
	}
	if upd.Priority != nil {
		r.Priority = *upd.Priority
	}
	return nil
}

// ListCalendars returns all calendars.
func (m *MockStore) ListCalendars(ctx context.Context) ([]*Calendar, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(); err != nil {
		return nil, err
	}
	out := make([]*Calendar, len(m.calendars))
	copy(out, m.calendars)
	return out, nil
}

func (m *MockStore) findCalendar(name string) (*Calendar, error) {
	for _, c := range m.calendars {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, fmt.Errorf("calendar %q: %w", name, ErrNotFound)
}

// ListTodayEvents returns events overlapping the current local day.
func (m *MockStore) ListTodayEvents(ctx context.Context) ([]*Event, error) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	return m.ListEvents(ctx, "", startOfDay, startOfDay.AddDate(0, 0, 1))
}

// ListEvents returns events overlapping [start, end).
func (m *MockStore) ListEvents(ctx context.Context, calendarName string, start, end time.Time) ([]*Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(); err != nil {
		return nil, err
	}
	if calendarName != "" {
		if _, err := m.findCalendar(calendarName); err != nil {
			return nil, err
		}
	}
	var out []*Event
	for _, e := range m.events {
		if calendarName != "" && e.CalendarName != calendarName {
			continue
		}
		if e.Start.Before(end) && e.End.After(start) {
			out = append(out, e)
		}
	}
	return out, nil
}

// CreateEvent creates an event.
func (m *MockStore) CreateEvent(ctx context.Context, e *Event) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(); err != nil {
		return "", err
	}
	calendarName := e.CalendarName
	if calendarName == "" {
		calendarName = DefaultCalendarName
	}
	if _, err := m.findCalendar(calendarName); err != nil {
		return "", err
	}
	stored := *e
	stored.ID = uuid.New().String()
	stored.CalendarName = calendarName
	stored.CreatedAt = time.Now()
	m.events = append(m.events, &stored)
	return stored.ID, nil
}

func (m *MockStore) findEvent(id string) (*Event, error) {
	for _, e := range m.events {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, fmt.Errorf("event %s: %w", id, ErrNotFound)
}

// UpdateEvent applies a partial update to an event.
func (m *MockStore) UpdateEvent(ctx context.Context, id string, upd EventUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(); err != nil {
		return err
	}
	e, err := m.findEvent(id)
	if err != nil {
		return err
	}
	if upd.Title != nil {
		e.Title = *upd.Title
	}
	if upd.Start != nil {
		e.Start = *upd.Start
	}
	if upd.End != nil {
		e.End = *upd.End
	}
	if upd.Location != nil {
		e.Location = *upd.Location
	}
	if upd.Notes != nil {
		e.Notes = *upd.Notes
	}
	if upd.URL != nil {
		e.URL = *upd.URL
	}
	return nil
}

// DeleteEvent removes an event.
func (m *MockStore) DeleteEvent(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(); err != nil {
		return err
	}
	for i, e := range m.events {
		if e.ID == id {
			m.events = append(m.events[:i], m.events[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("event %s: %w", id, ErrNotFound)
}

// Close is a no-op for the mock.
func (m *MockStore) Close() error { return nil }
