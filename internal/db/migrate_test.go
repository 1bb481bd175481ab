package db

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func tableExists(t *testing.T, db *sql.DB, table string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&n)
	require.NoError(t, err)
	return n == 1
}

func count(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n))
	return n
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	for _, table := range append(append([]string{}, dataTables...), "sync_runs") {
		assert.True(t, tableExists(t, db, table), "table %s should exist", table)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"idx_sections_topic",
		"idx_fields_section",
		"idx_submissions_topic",
		"idx_values_submission",
		"idx_schedule_parent",
	}
	for _, idx := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestSchema_RejectsUnknownNodeKind(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO schedule_nodes (uid, kind) VALUES ('n1', 'request')`)
	assert.Error(t, err)
}

func TestSchema_CardCodeUnique(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO topics (id, card_code, title) VALUES (1, 'CS', 'Косплей')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO topics (id, card_code, title) VALUES (2, 'CS', 'Дефиле')`)
	assert.Error(t, err)

	// Topics without a card code do not collide.
	_, err = db.Exec(`INSERT INTO topics (id, card_code, title) VALUES (3, NULL, 'A'), (4, NULL, 'B')`)
	assert.NoError(t, err)
}

func TestSchema_ForeignKeysEnforced(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO submissions (id, topic_id, status) VALUES (1, 99, 'approved')`)
	assert.Error(t, err)
}

func TestReset_ClearsDataKeepsRuns(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	_, err := db.Exec(`INSERT INTO topics (id, title) VALUES (1, 'Косплей')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO submissions (id, topic_id, status) VALUES (10, 1, 'approved')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO submission_values (id, submission_id, title, value_type) VALUES (100, 10, 'Персонаж', 'text')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO schedule_nodes (uid, kind) VALUES ('root', 'day'), ('child', 'event')`)
	require.NoError(t, err)
	_, err = db.Exec(`UPDATE schedule_nodes SET parent_uid = 'root' WHERE uid = 'child'`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO sync_runs (id, started_at) VALUES ('run-1', '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)

	require.NoError(t, Reset(ctx, db))

	for _, table := range dataTables {
		assert.True(t, tableExists(t, db, table), "table %s should be recreated", table)
		assert.Zero(t, count(t, db, table), "table %s should be empty", table)
	}
	assert.Equal(t, 1, count(t, db, "sync_runs"))
}
