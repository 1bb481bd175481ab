package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/fangen/internal/db"
	"github.com/alexanderramin/fangen/internal/domain"
)

// SQLiteValueRepo implements ValueRepo using a SQLite database.
type SQLiteValueRepo struct {
	db db.DBTX
}

func NewSQLiteValueRepo(conn db.DBTX) *SQLiteValueRepo {
	return &SQLiteValueRepo{db: conn}
}

// Create stores v. A zero ID is assigned by SQLite and written back.
func (r *SQLiteValueRepo) Create(ctx context.Context, v *domain.Value) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO submission_values (id, submission_id, title, value_type, value) VALUES (?, ?, ?, ?, ?)`,
		idOrNull(v.ID),
		v.SubmissionID,
		v.Title,
		string(v.Type),
		v.Raw,
	)
	if err != nil {
		return fmt.Errorf("inserting value for submission %d: %w", v.SubmissionID, err)
	}
	if v.ID == 0 {
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("reading value id: %w", err)
		}
		v.ID = id
	}
	return nil
}

func (r *SQLiteValueRepo) ListBySubmission(ctx context.Context, submissionID int64) ([]domain.Value, error) {
	values, err := loadValues(ctx, r.db, "WHERE submission_id = ?", submissionID)
	if err != nil {
		return nil, err
	}
	return values[submissionID], nil
}

func (r *SQLiteValueRepo) Count(ctx context.Context) (int, error) {
	n, err := countRows(r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM submission_values`))
	if err != nil {
		return 0, fmt.Errorf("counting values: %w", err)
	}
	return n, nil
}

// loadValues groups values by submission, each group ordered by id.
func loadValues(ctx context.Context, q db.DBTX, where string, args ...any) (map[int64][]domain.Value, error) {
	query := `SELECT id, submission_id, title, value_type, value FROM submission_values ` +
		where + ` ORDER BY submission_id, id`
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing values: %w", err)
	}
	out := make(map[int64][]domain.Value)
	for rows.Next() {
		var (
			v   domain.Value
			typ string
			raw sql.NullString
		)
		if err := rows.Scan(&v.ID, &v.SubmissionID, &v.Title, &typ, &raw); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning value: %w", err)
		}
		v.Type = domain.ValueType(typ)
		v.Raw = strPtr(raw)
		out[v.SubmissionID] = append(out[v.SubmissionID], v)
	}
	if err := closeRows(rows); err != nil {
		return nil, fmt.Errorf("iterating values: %w", err)
	}
	return out, nil
}
