// ABOUTME: SQLite implementation of the Store interface using modernc.org/sqlite
// ABOUTME: Provides reminder/event persistence with automatic schema creation

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// timeFormat is the stored form of event timestamps. Everything is
// normalized to UTC so lexicographic comparison in SQL matches
// chronological order.
const timeFormat = "2006-01-02T15:04:05Z"

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist, and the
// default reminder list and calendar are seeded. Parent directories
// are created if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	if err := s.seedDefaults(); err != nil {
		db.Close()
		return nil, fmt.Errorf("seeding defaults: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS reminder_lists (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS reminders (
			id TEXT PRIMARY KEY,
			list_id TEXT NOT NULL,
			title TEXT NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			due TEXT NOT NULL DEFAULT '',
			priority INTEGER NOT NULL DEFAULT 0,
			completed INTEGER NOT NULL DEFAULT 0,
			completed_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (list_id) REFERENCES reminder_lists(id) ON DELETE CASCADE
		);
		CREATE INDEX IF NOT EXISTS idx_reminders_list ON reminders(list_id);
		CREATE INDEX IF NOT EXISTS idx_reminders_completed ON reminders(completed);

		CREATE TABLE IF NOT EXISTS calendars (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			calendar_id TEXT NOT NULL,
			title TEXT NOT NULL,
			start_at TEXT NOT NULL,
			end_at TEXT NOT NULL,
			all_day INTEGER NOT NULL DEFAULT 0,
			location TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			url TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (calendar_id) REFERENCES calendars(id) ON DELETE CASCADE
		);
		CREATE INDEX IF NOT EXISTS idx_events_calendar ON events(calendar_id);
		CREATE INDEX IF NOT EXISTS idx_events_start ON events(start_at);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return nil
}

// seedDefaults ensures the default reminder list and calendar exist,
// mirroring a platform store that always ships with one of each.
func (s *SQLiteStore) seedDefaults() error {
	if _, err := s.db.Exec(
		"INSERT OR IGNORE INTO reminder_lists (id, name) VALUES (?, ?)",
		uuid.New().String(), DefaultListName,
	); err != nil {
		return err
	}
	if _, err := s.db.Exec(
		"INSERT OR IGNORE INTO calendars (id, name) VALUES (?, ?)",
		uuid.New().String(), DefaultCalendarName,
	); err != nil {
		return err
	}
	return nil
}

// Close closes the underlying database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ListReminderLists returns all reminder lists ordered by creation time.
func (s *SQLiteStore) ListReminderLists(ctx context.Context) ([]*ReminderList, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, created_at FROM reminder_lists ORDER BY created_at, name")
	if err != nil {
		return nil, fmt.Errorf("querying reminder lists: %w", err)
	}
	defer rows.Close()

	var lists []*ReminderList
	for rows.Next() {
		l := &ReminderList{}
		if err := rows.Scan(&l.ID, &l.Name, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning reminder list: %w", err)
		}
		lists = append(lists, l)
	}
	return lists, rows.Err()
}

// CreateReminderList creates a new reminder list and returns its ID.
func (s *SQLiteStore) CreateReminderList(ctx context.Context, name string) (string, error) {
	var existing string
	err := s.db.QueryRowContext(ctx,
		"SELECT id FROM reminder_lists WHERE name = ?", name).Scan(&existing)
	if err == nil {
		return "", fmt.Errorf("list %q: %w", name, ErrDuplicateList)
	}
	if err != sql.ErrNoRows {
		return "", fmt.Errorf("checking list name: %w", err)
	}

	id := uuid.New().String()
	if _, err := s.db.ExecContext(ctx,
		"INSERT INTO reminder_lists (id, name) VALUES (?, ?)", id, name); err != nil {
		return "", fmt.Errorf("creating list %q: %w", name, err)
	}
	return id, nil
}

// listIDByName resolves a reminder list name to its ID.
func (s *SQLiteStore) listIDByName(ctx context.Context, name string) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		"SELECT id FROM reminder_lists WHERE name = ?", name).Scan(&id)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("list %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("resolving list %q: %w", name, err)
	}
	return id, nil
}

const reminderColumns = `r.id, l.name, r.title, r.notes, r.due, r.priority,
	r.completed, r.completed_at, r.created_at`

func scanReminder(rows *sql.Rows) (*Reminder, error) {
	r := &Reminder{}
	var due string
	var completed int
	var completedAt sql.NullTime
	if err := rows.Scan(&r.ID, &r.ListName, &r.Title, &r.Notes, &due,
		&r.Priority, &completed, &completedAt, &r.CreatedAt); err != nil {
		return nil, fmt.Errorf("scanning reminder: %w", err)
	}
	r.Completed = completed != 0
	if completedAt.Valid {
		t := completedAt.Time
		r.CompletedAt = &t
	}
	parsed, err := ParseStoredDue(due)
	if err != nil {
		return nil, fmt.Errorf("parsing stored due date %q: %w", due, err)
	}
	r.Due = parsed
	return r, nil
}

// ListDueTodayReminders returns incomplete reminders due today or overdue.
func (s *SQLiteStore) ListDueTodayReminders(ctx context.Context) ([]*Reminder, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+reminderColumns+`
		FROM reminders r JOIN reminder_lists l ON r.list_id = l.id
		WHERE r.completed = 0 AND r.due != ''
		ORDER BY r.due, r.created_at`)
	if err != nil {
		return nil, fmt.Errorf("querying due reminders: %w", err)
	}
	defer rows.Close()

	// Due dates mix bare-date and datetime forms, so the cutoff is
	// applied after parsing rather than in SQL.
	now := time.Now()
	endOfToday := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, time.Local)

	var due []*Reminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		if r.Due != nil && !r.Due.Time.After(endOfToday) {
			due = append(due, r)
		}
	}
	return due, rows.Err()
}

// ListReminders returns reminders filtered by completion state.
// An empty listName means all lists.
func (s *SQLiteStore) ListReminders(ctx context.Context, listName string, completed bool) ([]*Reminder, error) {
	query := `
		SELECT ` + reminderColumns + `
		FROM reminders r JOIN reminder_lists l ON r.list_id = l.id
		WHERE r.completed = ?`
	args := []any{completed}

	if listName != "" {
		if _, err := s.listIDByName(ctx, listName); err != nil {
			return nil, err
		}
		query += " AND l.name = ?"
		args = append(args, listName)
	}
	query += " ORDER BY r.created_at"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying reminders: %w", err)
	}
	defer rows.Close()

	var reminders []*Reminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}

// CreateReminder creates a reminder in the list named by r.ListName
// and returns the new reminder's ID.
func (s *SQLiteStore) CreateReminder(ctx context.Context, r *Reminder) (string, error) {
	listName := r.ListName
	if listName == "" {
		listName = DefaultListName
	}
	listID, err := s.listIDByName(ctx, listName)
	if err != nil {
		return "", err
	}

	id := uuid.New().String()
	var due string
	if r.Due != nil {
		due = r.Due.String()
	}
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO reminders (id, list_id, title, notes, due, priority)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id, listID, r.Title, r.Notes, due, r.Priority); err != nil {
		return "", fmt.Errorf("creating reminder: %w", err)
	}
	return id, nil
}

// CompleteReminder marks a reminder as completed. Completing an
// already-completed reminder keeps its original completion time.
func (s *SQLiteStore) CompleteReminder(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE reminders
		SET completed = 1, completed_at = COALESCE(completed_at, CURRENT_TIMESTAMP)
		WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("completing reminder: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("completing reminder: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("reminder %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteReminder removes a reminder.
func (s *SQLiteStore) DeleteReminder(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM reminders WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting reminder: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting reminder: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("reminder %s: %w", id, ErrNotFound)
	}
	return nil
}

// UpdateReminder applies a partial update to a reminder.
func (s *SQLiteStore) UpdateReminder(ctx context.Context, id string, upd ReminderUpdate) error {
	var sets []string
	var args []any

	if upd.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *upd.Title)
	}
	if upd.Notes != nil {
		sets = append(sets, "notes = ?")
		args = append(args, *upd.Notes)
	}
	if upd.ClearDue {
		sets = append(sets, "due = ''")
	} else if upd.Due != nil {
		sets = append(sets, "due = ?")
		args = append(args, upd.Due.String())
	}
	if upd.Priority != nil {
		sets = append(sets, "priority = ?")
		args = append(args, *upd.Priority)
	}

	if len(sets) == 0 {
		// Nothing to change; still verify the reminder exists.
		var exists string
		err := s.db.QueryRowContext(ctx, "SELECT id FROM reminders WHERE id = ?", id).Scan(&exists)
		if err == sql.ErrNoRows {
			return fmt.Errorf("reminder %s: %w", id, ErrNotFound)
		}
		return err
	}

	args = append(args, id)
	res, err := s.db.ExecContext(ctx,
		"UPDATE reminders SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("updating reminder: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating reminder: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("reminder %s: %w", id, ErrNotFound)
	}
	return nil
}

// ListCalendars returns all calendars ordered by creation time.
func (s *SQLiteStore) ListCalendars(ctx context.Context) ([]*Calendar, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, created_at FROM calendars ORDER BY created_at, name")
	if err != nil {
		return nil, fmt.Errorf("querying calendars: %w", err)
	}
	defer rows.Close()

	var calendars []*Calendar
	for rows.Next() {
		c := &Calendar{}
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning calendar: %w", err)
		}
		calendars = append(calendars, c)
	}
	return calendars, rows.Err()
}

// calendarIDByName resolves a calendar name to its ID.
func (s *SQLiteStore) calendarIDByName(ctx context.Context, name string) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		"SELECT id FROM calendars WHERE name = ?", name).Scan(&id)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("calendar %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("resolving calendar %q: %w", name, err)
	}
	return id, nil
}

const eventColumns = `e.id, c.name, e.title, e.start_at, e.end_at, e.all_day,
	e.location, e.notes, e.url, e.created_at`

func scanEvent(rows *sql.Rows) (*Event, error) {
	e := &Event{}
	var start, end string
	var allDay int
	if err := rows.Scan(&e.ID, &e.CalendarName, &e.Title, &start, &end,
		&allDay, &e.Location, &e.Notes, &e.URL, &e.CreatedAt); err != nil {
		return nil, fmt.Errorf("scanning event: %w", err)
	}
	e.AllDay = allDay != 0

	var err error
	if e.Start, err = time.Parse(timeFormat, start); err != nil {
		return nil, fmt.Errorf("parsing event start %q: %w", start, err)
	}
	if e.End, err = time.Parse(timeFormat, end); err != nil {
		return nil, fmt.Errorf("parsing event end %q: %w", end, err)
	}
	return e, nil
}

// queryEvents returns events overlapping the [start, end) window,
// optionally restricted to one calendar.
func (s *SQLiteStore) queryEvents(ctx context.Context, calendarName string, start, end time.Time) ([]*Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events e JOIN calendars c ON e.calendar_id = c.id
		WHERE e.start_at < ? AND e.end_at > ?`
	args := []any{end.UTC().Format(timeFormat), start.UTC().Format(timeFormat)}

	if calendarName != "" {
		if _, err := s.calendarIDByName(ctx, calendarName); err != nil {
			return nil, err
		}
		query += " AND c.name = ?"
		args = append(args, calendarName)
	}
	query += " ORDER BY e.start_at"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// ListTodayEvents returns events overlapping the current local day.
func (s *SQLiteStore) ListTodayEvents(ctx context.Context) ([]*Event, error) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	return s.queryEvents(ctx, "", startOfDay, startOfDay.AddDate(0, 0, 1))
}

// ListEvents returns events overlapping [start, end), optionally
// restricted to the named calendar. An empty calendarName means all.
func (s *SQLiteStore) ListEvents(ctx context.Context, calendarName string, start, end time.Time) ([]*Event, error) {
	return s.queryEvents(ctx, calendarName, start, end)
}

// CreateEvent creates an event in the calendar named by e.CalendarName
// and returns the new event's ID.
func (s *SQLiteStore) CreateEvent(ctx context.Context, e *Event) (string, error) {
	calendarName := e.CalendarName
	if calendarName == "" {
		calendarName = DefaultCalendarName
	}
	calendarID, err := s.calendarIDByName(ctx, calendarName)
	if err != nil {
		return "", err
	}

	id := uuid.New().String()
	allDay := 0
	if e.AllDay {
		allDay = 1
	}
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO events (id, calendar_id, title, start_at, end_at, all_day, location, notes, url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, calendarID, e.Title,
		e.Start.UTC().Format(timeFormat), e.End.UTC().Format(timeFormat),
		allDay, e.Location, e.Notes, e.URL); err != nil {
		return "", fmt.Errorf("creating event: %w", err)
	}
	return id, nil
}

// UpdateEvent applies a partial update to an event.
func (s *SQLiteStore) UpdateEvent(ctx context.Context, id string, upd EventUpdate) error {
	var sets []string
	var args []any

	if upd.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *upd.Title)
	}
	if upd.Start != nil {
		sets = append(sets, "start_at = ?")
		args = append(args, upd.Start.UTC().Format(timeFormat))
	}
	if upd.End != nil {
		sets = append(sets, "end_at = ?")
		args = append(args, upd.End.UTC().Format(timeFormat))
	}
	if upd.Location != nil {
		sets = append(sets, "location = ?")
		args = append(args, *upd.Location)
	}
	if upd.Notes != nil {
		sets = append(sets, "notes = ?")
		args = append(args, *upd.Notes)
	}
	if upd.URL != nil {
		sets = append(sets, "url = ?")
		args = append(args, *upd.URL)
	}

	if len(sets) == 0 {
		var exists string
		err := s.db.QueryRowContext(ctx, "SELECT id FROM events WHERE id = ?", id).Scan(&exists)
		if err == sql.ErrNoRows {
			return fmt.Errorf("event %s: %w", id, ErrNotFound)
		}
		return err
	}

	args = append(args, id)
	res, err := s.db.ExecContext(ctx,
		"UPDATE events SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("updating event: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating event: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteEvent removes an event.
func (s *SQLiteStore) DeleteEvent(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM events WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting event: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting event: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	return nil
}
