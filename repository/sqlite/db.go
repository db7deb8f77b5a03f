// Package sqlite provides an embedded work-item store on modernc.org/sqlite.
//
// It mirrors the Postgres repositories and is used for local runs
// (STORAGE_DRIVER=sqlite) and by the test suites. Timestamps are stored as
// fixed-width UTC text so that range comparisons in SQL stay lexicographic.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	email TEXT NOT NULL DEFAULT '',
	role TEXT NOT NULL DEFAULT 'user',
	status TEXT NOT NULL DEFAULT 'active',
	department TEXT,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS customers (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS prospects (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	created_by TEXT NOT NULL,
	department TEXT,
	display_order INTEGER NOT NULL DEFAULT 0,
	priority TEXT NOT NULL DEFAULT 'medium',
	attached_kind TEXT,
	attached_id TEXT,
	due_at TEXT,
	status TEXT NOT NULL DEFAULT 'planned',
	assignee TEXT NOT NULL,
	review_status TEXT NOT NULL DEFAULT 'none',
	approver TEXT,
	review_comment TEXT,
	completed_at TEXT,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS reminders (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	created_by TEXT NOT NULL,
	department TEXT,
	display_order INTEGER NOT NULL DEFAULT 0,
	priority TEXT NOT NULL DEFAULT 'medium',
	attached_kind TEXT,
	attached_id TEXT,
	remind_at TEXT,
	status TEXT NOT NULL DEFAULT 'planned',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS reminder_assignees (
	reminder_id TEXT NOT NULL REFERENCES reminders(id),
	user_id TEXT NOT NULL,
	position INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (reminder_id, user_id)
);

CREATE TABLE IF NOT EXISTS work_item_activity (
	id TEXT PRIMARY KEY,
	item_kind TEXT NOT NULL,
	item_id TEXT NOT NULL,
	actor_id TEXT,
	action TEXT NOT NULL,
	payload TEXT,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tasks_department ON tasks(department);
CREATE INDEX IF NOT EXISTS idx_tasks_created_by ON tasks(created_by, display_order);
CREATE INDEX IF NOT EXISTS idx_tasks_assignee ON tasks(assignee);
CREATE INDEX IF NOT EXISTS idx_reminders_department ON reminders(department);
CREATE INDEX IF NOT EXISTS idx_reminders_created_by ON reminders(created_by, display_order);
CREATE INDEX IF NOT EXISTS idx_reminder_assignees_user ON reminder_assignees(user_id);
CREATE INDEX IF NOT EXISTS idx_activity_item ON work_item_activity(item_kind, item_id, created_at);
`

const timeLayout = "2006-01-02T15:04:05.000000000Z"

// DB wraps a SQL database connection with work-item operations.
type DB struct {
	*sql.DB
}

// Open opens or creates the database at the given path.
func Open(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows a single writer; keep one connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// Init creates the schema.
func (db *DB) Init() error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func nullTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

func parseNullTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := parseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func boolArg(b bool) int {
	if b {
		return 1
	}
	return 0
}

// limitArg maps "no limit" to SQLite's -1.
func limitArg(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}
