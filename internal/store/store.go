package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/duos-app/duos/internal/feed"
	"github.com/duos-app/duos/internal/paths"

	_ "modernc.org/sqlite"
)

// Store is the local relational store for a pair's shared data. Mutations
// to synced tables (tasks, alarms) emit change events through the attached
// publisher so the partner's device converges.
type Store struct {
	db   *sql.DB
	path string
	pub  feed.Publisher
}

// New opens (or creates) a SQLite database at path and creates the schema.
func New(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), paths.DirPerm); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Set PRAGMAs before any DDL.
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite pragma: %w", err)
		}
	}

	ddl := `
CREATE TABLE IF NOT EXISTS profiles (
    id         TEXT PRIMARY KEY,
    username   TEXT NOT NULL UNIQUE,
    created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS pairs (
    id          TEXT PRIMARY KEY,
    user_id_1   TEXT NOT NULL REFERENCES profiles(id),
    user_id_2   TEXT NOT NULL REFERENCES profiles(id),
    status      TEXT NOT NULL DEFAULT 'pending',
    accepted_at TEXT,
    created_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS tasks (
    id           TEXT PRIMARY KEY,
    pair_id      TEXT NOT NULL REFERENCES pairs(id) ON DELETE CASCADE,
    title        TEXT NOT NULL,
    description  TEXT,
    scope        TEXT,
    created_by   TEXT NOT NULL,
    assigned_to  TEXT,
    due_date     TEXT,
    completed    INTEGER NOT NULL DEFAULT 0,
    completed_at TEXT,
    confirmed_by TEXT,
    confirmed_at TEXT,
    created_at   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS task_comments (
    id         TEXT PRIMARY KEY,
    task_id    TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
    user_id    TEXT NOT NULL,
    message    TEXT NOT NULL,
    created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS alarms (
    id          TEXT PRIMARY KEY,
    pair_id     TEXT NOT NULL REFERENCES pairs(id) ON DELETE CASCADE,
    time        TEXT NOT NULL,
    label       TEXT,
    active      INTEGER NOT NULL DEFAULT 1,
    repeat_days TEXT NOT NULL DEFAULT '',
    sound       TEXT NOT NULL DEFAULT 'classic',
    created_by  TEXT NOT NULL,
    created_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tasks_pair      ON tasks(pair_id, completed);
CREATE INDEX IF NOT EXISTS idx_tasks_confirmed ON tasks(assigned_to, confirmed_at)
    WHERE confirmed_at IS NOT NULL;
CREATE INDEX IF NOT EXISTS idx_comments_task   ON task_comments(task_id);
CREATE INDEX IF NOT EXISTS idx_alarms_pair     ON alarms(pair_id, time);
`
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// SetPublisher attaches the change-feed publisher. Mutations made before a
// publisher is attached are local-only.
func (s *Store) SetPublisher(pub feed.Publisher) {
	s.pub = pub
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// emit publishes a change event for a synced row. Publishing is best-effort:
// the local write already succeeded and must not be rolled back because the
// partner couldn't be told about it.
func (s *Store) emit(pairID, table string, op feed.Op, id string, before, after any) {
	if s.pub == nil {
		return
	}

	ev := feed.Event{Op: op, Table: table, ID: id, At: time.Now()}
	var err error
	if before != nil {
		if ev.Before, err = json.Marshal(before); err != nil {
			fmt.Fprintf(os.Stderr, "store: marshal %s before: %v\n", table, err)
			return
		}
	}
	if after != nil {
		if ev.After, err = json.Marshal(after); err != nil {
			fmt.Fprintf(os.Stderr, "store: marshal %s after: %v\n", table, err)
			return
		}
	}

	if err := s.pub.Publish(pairID, ev); err != nil {
		fmt.Fprintf(os.Stderr, "store: publish %s %s: %v\n", table, op, err)
	}
}

// timeText formats a timestamp the way every table stores it.
func timeText(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// parseTimeText is the inverse of timeText; zero time on failure.
func parseTimeText(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
