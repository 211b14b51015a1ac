package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate applies every schema statement. Statements are idempotent, so
// it is safe on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Re-running ALTER TABLE ADD COLUMN on an upgraded file.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS game_sessions (
		id         TEXT PRIMARY KEY,
		log_path   TEXT NOT NULL UNIQUE,
		status     TEXT NOT NULL DEFAULT 'not_started'
		           CHECK(status IN ('not_started','in_progress','completed')),
		policy     TEXT NOT NULL DEFAULT 'learning'
		           CHECK(policy IN ('learning','strict')),
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS game_entries (
		session_id TEXT NOT NULL REFERENCES game_sessions(id) ON DELETE CASCADE,
		kind       TEXT NOT NULL CHECK(kind IN ('user','last_valid')),
		task_id    TEXT NOT NULL,
		start_time INTEGER NOT NULL,
		end_time   INTEGER NOT NULL,
		PRIMARY KEY (session_id, kind, task_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_game_entries_session ON game_entries(session_id)`,

	// Catalog instance the log was opened from, empty for ad-hoc logs.
	`ALTER TABLE game_sessions ADD COLUMN instance_id TEXT NOT NULL DEFAULT ''`,
	`CREATE INDEX IF NOT EXISTS idx_game_sessions_updated ON game_sessions(updated_at)`,
}
