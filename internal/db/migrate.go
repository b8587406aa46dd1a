package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent and re-run
// on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN has no IF NOT EXISTS form.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		name          TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS auth_sessions (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		token_hash TEXT NOT NULL UNIQUE,
		expires_at TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_auth_sessions_user ON auth_sessions(user_id)`,

	`CREATE TABLE IF NOT EXISTS weeks (
		id          TEXT PRIMARY KEY,
		user_id     TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		week_number INTEGER NOT NULL,
		start_date  TEXT NOT NULL,
		end_date    TEXT NOT NULL,
		theme       TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL,
		UNIQUE (user_id, start_date)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_weeks_user_start ON weeks(user_id, start_date)`,

	`CREATE TABLE IF NOT EXISTS days (
		id           TEXT PRIMARY KEY,
		week_id      TEXT NOT NULL REFERENCES weeks(id) ON DELETE CASCADE,
		date         TEXT NOT NULL,
		label        TEXT NOT NULL,
		theme        TEXT NOT NULL DEFAULT '',
		focus_metric TEXT NOT NULL DEFAULT '',
		position     INTEGER NOT NULL,
		UNIQUE (week_id, date)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_days_week ON days(week_id)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id                 TEXT PRIMARY KEY,
		user_id            TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		title              TEXT NOT NULL,
		category           TEXT NOT NULL
		                   CHECK(category IN ('work','health','personal','learning','admin')),
		energy             TEXT NOT NULL
		                   CHECK(energy IN ('high','medium','low')),
		status             TEXT NOT NULL DEFAULT 'planned'
		                   CHECK(status IN ('planned','in-progress','completed','skipped')),
		duration_minutes   INTEGER NOT NULL CHECK(duration_minutes BETWEEN 5 AND 480),
		position           INTEGER NOT NULL DEFAULT 0 CHECK(position >= 0),
		day_id             TEXT REFERENCES days(id),
		swimlane           TEXT
		                   CHECK(swimlane IN ('focus','collaboration','self-care','life-admin')),
		target_occurrences INTEGER,
		notes              TEXT NOT NULL DEFAULT '',
		completed_at       TEXT,
		created_at         TEXT NOT NULL,
		updated_at         TEXT NOT NULL,
		CHECK((day_id IS NULL) = (swimlane IS NULL))
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_user ON tasks(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_day ON tasks(day_id, swimlane)`,

	`CREATE TABLE IF NOT EXISTS kv_store (
		key        TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		updated_at TEXT NOT NULL
	)`,
}
