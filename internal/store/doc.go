// Package store provides persistent storage for reminders and events
// using SQLite.
//
// # Architecture
//
// The Store interface is the backend facade the tool layer dispatches
// against. It exposes list/create/update/delete operations over four
// entity kinds:
//
//   - ReminderList: named container for reminders
//   - Reminder: task item with optional due date, priority, completion
//   - Calendar: named container for events
//   - Event: timed entry with optional all-day flag, location, notes, URL
//
// SQLiteStore implements the interface over a single long-lived database
// handle opened once at startup. MockStore is an in-memory implementation
// for unit tests.
//
// # Due dates
//
// Reminder due dates come in two forms and the distinction is preserved
// through storage:
//
//   - date-only ("2025-11-15"): a whole day, no time-of-day component
//   - datetime (RFC3339): an exact moment
//
// DueDate carries the parsed value plus a DateOnly flag; the stored TEXT
// column holds the literal form so round-trips are lossless.
//
// # SQLite Configuration
//
// The store uses SQLite with WAL mode for concurrent reads:
//
//	PRAGMA journal_mode=WAL;
//	PRAGMA foreign_keys=ON;
//
// The schema is created automatically on first open, and the default
// reminder list ("Reminders") and calendar ("Calendar") are seeded so a
// fresh store behaves like a platform store that always has one of each.
//
// # Error Handling
//
// Common errors:
//
//   - ErrNotFound: requested entity does not exist
//   - ErrDuplicateList: reminder list name already taken
//
// All methods accept context.Context for cancellation support.
//
// # Testing
//
// Use NewMockStore() for unit tests, or NewSQLiteStore(":memory:") for
// integration tests against real SQLite.
package store
