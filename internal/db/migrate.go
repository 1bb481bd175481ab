package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Data tables in dependency order. Reset drops them in reverse.
var dataTables = []string{
	"topics",
	"sections",
	"fields",
	"submissions",
	"submission_values",
	"schedule_nodes",
}

var dataSchema = []string{
	`CREATE TABLE IF NOT EXISTS topics (
		id         INTEGER PRIMARY KEY,
		event_id   INTEGER NOT NULL DEFAULT 0,
		url_code   TEXT NOT NULL DEFAULT '',
		card_code  TEXT UNIQUE,
		title      TEXT NOT NULL,
		ord        INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS sections (
		id        INTEGER PRIMARY KEY,
		topic_id  INTEGER NOT NULL REFERENCES topics(id) ON DELETE CASCADE,
		title     TEXT NOT NULL DEFAULT '',
		ord       INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS fields (
		id          INTEGER PRIMARY KEY,
		topic_id    INTEGER NOT NULL REFERENCES topics(id) ON DELETE CASCADE,
		section_id  INTEGER NOT NULL REFERENCES sections(id) ON DELETE CASCADE,
		title       TEXT NOT NULL,
		ord         INTEGER NOT NULL DEFAULT 0,
		value_type  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS submissions (
		id             INTEGER PRIMARY KEY,
		topic_id       INTEGER NOT NULL REFERENCES topics(id) ON DELETE CASCADE,
		status         TEXT NOT NULL,
		number         INTEGER NOT NULL DEFAULT 0,
		user_id        INTEGER,
		user_title     TEXT NOT NULL DEFAULT '',
		voting_number  INTEGER,
		voting_title   TEXT,
		update_time    TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE TABLE IF NOT EXISTS submission_values (
		id             INTEGER PRIMARY KEY,
		submission_id  INTEGER NOT NULL REFERENCES submissions(id) ON DELETE CASCADE,
		title          TEXT NOT NULL,
		value_type     TEXT NOT NULL,
		value          TEXT
	)`,

	`CREATE TABLE IF NOT EXISTS schedule_nodes (
		uid            TEXT PRIMARY KEY,
		kind           TEXT NOT NULL
		               CHECK(kind IN ('place','day','event','topic','submission','break')),
		title          TEXT NOT NULL DEFAULT '',
		duration       INTEGER,
		time_start     INTEGER,
		time_end       INTEGER,
		submission_id  INTEGER,
		topic_id       INTEGER,
		parent_uid     TEXT REFERENCES schedule_nodes(uid) ON DELETE CASCADE,
		position       INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE INDEX IF NOT EXISTS idx_sections_topic ON sections(topic_id)`,
	`CREATE INDEX IF NOT EXISTS idx_fields_section ON fields(section_id)`,
	`CREATE INDEX IF NOT EXISTS idx_submissions_topic ON submissions(topic_id)`,
	`CREATE INDEX IF NOT EXISTS idx_values_submission ON submission_values(submission_id)`,
	`CREATE INDEX IF NOT EXISTS idx_schedule_parent ON schedule_nodes(parent_uid)`,
}

var runSchema = []string{
	`CREATE TABLE IF NOT EXISTS sync_runs (
		id           TEXT PRIMARY KEY,
		started_at   TEXT NOT NULL,
		finished_at  TEXT,
		topics       INTEGER NOT NULL DEFAULT 0,
		fields       INTEGER NOT NULL DEFAULT 0,
		submissions  INTEGER NOT NULL DEFAULT 0,
		value_count  INTEGER NOT NULL DEFAULT 0,
		nodes        INTEGER NOT NULL DEFAULT 0
	)`,
}

// Migrate creates every table that does not exist yet.
func Migrate(db *sql.DB) error {
	return migrate(context.Background(), db)
}

func migrate(ctx context.Context, conn DBTX) error {
	for i, stmt := range append(append([]string{}, dataSchema...), runSchema...) {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// Reset drops and recreates the data tables. Sync runs survive a reset.
func Reset(ctx context.Context, db *sql.DB) error {
	return NewSQLiteUnitOfWork(db).WithinTx(ctx, func(ctx context.Context, tx DBTX) error {
		for i := len(dataTables) - 1; i >= 0; i-- {
			if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+dataTables[i]); err != nil {
				return fmt.Errorf("dropping %s: %w", dataTables[i], err)
			}
		}
		return migrate(ctx, tx)
	})
}
