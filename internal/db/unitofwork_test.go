package db_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/alexanderramin/fangen/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestUoW(t *testing.T) *db.SQLiteUnitOfWork {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return db.NewSQLiteUnitOfWork(database)
}

func insertTopic(ctx context.Context, tx db.DBTX, id int64, title string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO topics (id, title) VALUES (?, ?)`, id, title)
	return err
}

// topicTitle reads a topic title through a read-only transaction.
func topicTitle(uow *db.SQLiteUnitOfWork, id int64) (string, bool) {
	var title string
	var found bool
	_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := tx.QueryRowContext(ctx, `SELECT title FROM topics WHERE id = ?`, id).Scan(&title); err != nil {
			return nil
		}
		found = true
		return nil
	})
	return title, found
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	uow := openTestUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return insertTopic(ctx, tx, 1, "Косплей")
	})
	require.NoError(t, err)

	title, found := topicTitle(uow, 1)
	assert.True(t, found, "row should exist after commit")
	assert.Equal(t, "Косплей", title)
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	uow := openTestUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertTopic(ctx, tx, 2, "Дефиле"); err != nil {
			return err
		}
		return fmt.Errorf("deliberate failure")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deliberate failure")

	_, found := topicTitle(uow, 2)
	assert.False(t, found, "row should not exist after rollback")
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	uow := openTestUoW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = insertTopic(ctx, tx, 3, "Караоке")
			panic("boom")
		})
	})

	_, found := topicTitle(uow, 3)
	assert.False(t, found, "row should not exist after panic rollback")
}
