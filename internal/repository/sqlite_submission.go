package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/fangen/internal/db"
	"github.com/alexanderramin/fangen/internal/domain"
)

const submissionColumns = `s.id, s.topic_id, s.status, s.number, s.user_id, s.user_title,
		s.voting_number, s.voting_title, s.update_time`

// SQLiteSubmissionRepo implements SubmissionRepo using a SQLite database.
type SQLiteSubmissionRepo struct {
	db db.DBTX
}

func NewSQLiteSubmissionRepo(conn db.DBTX) *SQLiteSubmissionRepo {
	return &SQLiteSubmissionRepo{db: conn}
}

func (r *SQLiteSubmissionRepo) Create(ctx context.Context, s *domain.Submission) error {
	query := `INSERT INTO submissions (id, topic_id, status, number, user_id, user_title,
		voting_number, voting_title, update_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.TopicID,
		string(s.Status),
		s.Number,
		nullableInt64ToValue(s.UserID),
		s.UserTitle,
		nullableIntToValue(s.VotingNumber),
		s.VotingTitle, // *string: nil becomes SQL NULL
		s.UpdateTime,
	)
	if err != nil {
		return fmt.Errorf("inserting submission %d: %w", s.ID, err)
	}
	return nil
}

func (r *SQLiteSubmissionRepo) GetByID(ctx context.Context, id int64) (*domain.Submission, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+submissionColumns+` FROM submissions s WHERE s.id = ?`, id)
	s, err := scanSubmission(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("submission %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning submission: %w", err)
	}
	values, err := loadValues(ctx, r.db, "WHERE submission_id = ?", id)
	if err != nil {
		return nil, err
	}
	s.Values = values[s.ID]
	return s, nil
}

// ListApprovedWithValues returns approved submissions grouped by topic order,
// then by number, each with its topic (sections included) and values.
func (r *SQLiteSubmissionRepo) ListApprovedWithValues(ctx context.Context) ([]*domain.Submission, error) {
	_, topics, err := loadTopics(ctx, r.db)
	if err != nil {
		return nil, err
	}
	subs, err := loadSubmissions(ctx, r.db,
		"WHERE s.status = '"+string(domain.StatusApproved)+"'",
		"t.ord, t.id, s.number, s.id")
	if err != nil {
		return nil, err
	}
	for _, s := range subs {
		s.Topic = topics[s.TopicID]
	}
	return subs, nil
}

func (r *SQLiteSubmissionRepo) Count(ctx context.Context, approvedOnly bool) (int, error) {
	query := `SELECT COUNT(*) FROM submissions`
	var args []any
	if approvedOnly {
		query += ` WHERE status = ?`
		args = append(args, string(domain.StatusApproved))
	}
	n, err := countRows(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return 0, fmt.Errorf("counting submissions: %w", err)
	}
	return n, nil
}

func scanSubmission(sc scanner) (*domain.Submission, error) {
	var (
		s            domain.Submission
		status       string
		userID       sql.NullInt64
		votingNumber sql.NullInt64
		votingTitle  sql.NullString
	)
	err := sc.Scan(&s.ID, &s.TopicID, &status, &s.Number, &userID, &s.UserTitle,
		&votingNumber, &votingTitle, &s.UpdateTime)
	if err != nil {
		return nil, err
	}
	s.Status = domain.SubmissionStatus(status)
	s.UserID = int64Ptr(userID)
	s.VotingNumber = intPtr(votingNumber)
	s.VotingTitle = strPtr(votingTitle)
	return &s, nil
}

// loadSubmissions reads submissions matching where (aliases: s, t) in the
// given order and attaches their values.
func loadSubmissions(ctx context.Context, q db.DBTX, where, orderBy string) ([]*domain.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions s
		JOIN topics t ON t.id = s.topic_id ` + where + ` ORDER BY ` + orderBy
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing submissions: %w", err)
	}
	var subs []*domain.Submission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning submission: %w", err)
		}
		subs = append(subs, s)
	}
	if err := closeRows(rows); err != nil {
		return nil, fmt.Errorf("iterating submissions: %w", err)
	}

	valueWhere := ""
	if where != "" {
		valueWhere = `WHERE submission_id IN (SELECT s.id FROM submissions s
			JOIN topics t ON t.id = s.topic_id ` + where + `)`
	}
	values, err := loadValues(ctx, q, valueWhere)
	if err != nil {
		return nil, err
	}
	for _, s := range subs {
		s.Values = values[s.ID]
	}
	return subs, nil
}
