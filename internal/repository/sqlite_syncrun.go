package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/fangen/internal/db"
	"github.com/alexanderramin/fangen/internal/domain"
)

// SQLiteSyncRunRepo implements SyncRunRepo using a SQLite database.
type SQLiteSyncRunRepo struct {
	db db.DBTX
}

func NewSQLiteSyncRunRepo(conn db.DBTX) *SQLiteSyncRunRepo {
	return &SQLiteSyncRunRepo{db: conn}
}

func (r *SQLiteSyncRunRepo) Create(ctx context.Context, run *domain.SyncRun) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sync_runs (id, started_at) VALUES (?, ?)`,
		run.ID, run.StartedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting sync run: %w", err)
	}
	return nil
}

// Finish stores the run's counts and finish time.
func (r *SQLiteSyncRunRepo) Finish(ctx context.Context, run *domain.SyncRun) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sync_runs SET finished_at = ?, topics = ?, fields = ?, submissions = ?,
		value_count = ?, nodes = ? WHERE id = ?`,
		nullableTimeToString(run.FinishedAt, time.RFC3339),
		run.Topics, run.Fields, run.Submissions, run.Values, run.Nodes,
		run.ID,
	)
	if err != nil {
		return fmt.Errorf("updating sync run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("sync run %s: %w", run.ID, ErrNotFound)
	}
	return nil
}

// Last returns the most recently started run.
func (r *SQLiteSyncRunRepo) Last(ctx context.Context) (*domain.SyncRun, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, started_at, finished_at, topics, fields,
		submissions, value_count, nodes FROM sync_runs ORDER BY started_at DESC, rowid DESC LIMIT 1`)

	var (
		run      domain.SyncRun
		started  string
		finished sql.NullString
	)
	err := row.Scan(&run.ID, &started, &finished, &run.Topics, &run.Fields,
		&run.Submissions, &run.Values, &run.Nodes)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("sync run: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning sync run: %w", err)
	}
	if t, err := time.Parse(time.RFC3339, started); err == nil {
		run.StartedAt = t
	}
	run.FinishedAt = parseNullableTime(finished, time.RFC3339)
	return &run, nil
}
