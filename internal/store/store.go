// ABOUTME: Store interface and data types for daybook persistence
// ABOUTME: Defines reminder/event structs and the Store interface the tool layer calls

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrDuplicateList is returned when creating a reminder list whose name is taken
var ErrDuplicateList = errors.New("list already exists")

// DefaultListName is the reminder list used when a tool call names none.
const DefaultListName = "Reminders"

// DefaultCalendarName is the calendar used when a tool call names none.
const DefaultCalendarName = "Calendar"

// DueDate is a due date that is either a whole day or an exact moment.
// A DateOnly value carries no time-of-day component, which is how
// "due today" is kept distinct from "due at midnight today".
type DueDate struct {
	Time     time.Time
	DateOnly bool
}

// String renders the due date in its stored form: a bare date for
// DateOnly values, RFC3339 otherwise.
func (d DueDate) String() string {
	if d.DateOnly {
		return d.Time.Format("2006-01-02")
	}
	return d.Time.Format(time.RFC3339)
}

// ParseStoredDue parses a due date in its stored form. An empty string
// means no due date and returns nil.
func ParseStoredDue(s string) (*DueDate, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return &DueDate{Time: t, DateOnly: true}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &DueDate{Time: t}, nil
}

// ReminderList is a named container for reminders
type ReminderList struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Reminder is a single task item
type Reminder struct {
	ID          string
	ListName    string
	Title       string
	Notes       string
	Due         *DueDate // nil when the reminder has no due date
	Priority    int
	Completed   bool
	CompletedAt *time.Time
	CreatedAt   time.Time
}

// ReminderUpdate describes a partial update to a reminder.
// Nil pointer fields are left unchanged. ClearDue removes the due date
// and takes precedence over Due.
type ReminderUpdate struct {
	Title    *string
	Notes    *string
	Due      *DueDate
	ClearDue bool
	Priority *int
}

// Calendar is a named container for events
type Calendar struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Event is a single calendar entry
type Event struct {
	ID           string
	CalendarName string
	Title        string
	Start        time.Time
	End          time.Time
	AllDay       bool
	Location     string
	Notes        string
	URL          string
	CreatedAt    time.Time
}

// EventUpdate describes a partial update to an event.
// Nil pointer fields are left unchanged; pointing a string field at ""
// clears it.
type EventUpdate struct {
	Title    *string
	Start    *time.Time
	End      *time.Time
	Location *string
	Notes    *string
	URL      *string
}

// Store defines the backend operations the tool layer dispatches against.
// Implementations must be safe for concurrent use; the HTTP transport
// invokes tools from independent request goroutines.
type Store interface {
	// Reminder lists
	ListReminderLists(ctx context.Context) ([]*ReminderList, error)
	CreateReminderList(ctx context.Context, name string) (string, error)

	// Reminders
	ListDueTodayReminders(ctx context.Context) ([]*Reminder, error)
	ListReminders(ctx context.Context, listName string, completed bool) ([]*Reminder, error)
	CreateReminder(ctx context.Context, r *Reminder) (string, error)
	CompleteReminder(ctx context.Context, id string) error
	DeleteReminder(ctx context.Context, id string) error
	UpdateReminder(ctx context.Context, id string, upd ReminderUpdate) error

	// Calendars
	ListCalendars(ctx context.Context) ([]*Calendar, error)

	// Events
	ListTodayEvents(ctx context.Context) ([]*Event, error)
	ListEvents(ctx context.Context, calendarName string, start, end time.Time) ([]*Event, error)
	CreateEvent(ctx context.Context, e *Event) (string, error)
	UpdateEvent(ctx context.Context, id string, upd EventUpdate) error
	DeleteEvent(ctx context.Context, id string) error

	Close() error
}
