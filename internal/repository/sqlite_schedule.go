package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/fangen/internal/db"
	"github.com/alexanderramin/fangen/internal/domain"
	"github.com/alexanderramin/fangen/internal/plan"
)

// SQLiteScheduleRepo implements ScheduleRepo using a SQLite database.
type SQLiteScheduleRepo struct {
	db db.DBTX
}

func NewSQLiteScheduleRepo(conn db.DBTX) *SQLiteScheduleRepo {
	return &SQLiteScheduleRepo{db: conn}
}

// Create stores n. Parents must be created before their children.
func (r *SQLiteScheduleRepo) Create(ctx context.Context, n *domain.ScheduleNode) error {
	query := `INSERT INTO schedule_nodes (uid, kind, title, duration, time_start, time_end,
		submission_id, topic_id, parent_uid, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		n.UID,
		string(n.Kind),
		n.Title,
		nullableIntToValue(n.Duration),
		nullableInt64ToValue(n.TimeStart),
		nullableInt64ToValue(n.TimeEnd),
		nullableInt64ToValue(n.SubmissionID),
		nullableInt64ToValue(n.TopicID),
		n.ParentUID,
		n.Position,
	)
	if err != nil {
		return fmt.Errorf("inserting schedule node %s: %w", n.UID, err)
	}
	return nil
}

func (r *SQLiteScheduleRepo) LoadTree(ctx context.Context) (*plan.Tree, error) {
	nodes, err := r.listNodes(ctx)
	if err != nil {
		return nil, err
	}

	_, topics, err := loadTopics(ctx, r.db)
	if err != nil {
		return nil, err
	}
	subs, err := loadSubmissions(ctx, r.db,
		"WHERE s.id IN (SELECT submission_id FROM schedule_nodes WHERE submission_id IS NOT NULL)",
		"s.id")
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*domain.Submission, len(subs))
	for _, s := range subs {
		s.Topic = topics[s.TopicID]
		byID[s.ID] = s
	}

	for _, n := range nodes {
		if n.SubmissionID != nil {
			n.Submission = byID[*n.SubmissionID]
		}
		if n.TopicID != nil {
			n.Topic = topics[*n.TopicID]
		}
	}

	tree, err := plan.NewTree(nodes)
	if err != nil {
		return nil, fmt.Errorf("building schedule tree: %w", err)
	}
	return tree, nil
}

func (r *SQLiteScheduleRepo) Count(ctx context.Context) (int, error) {
	n, err := countRows(r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schedule_nodes`))
	if err != nil {
		return 0, fmt.Errorf("counting schedule nodes: %w", err)
	}
	return n, nil
}

func (r *SQLiteScheduleRepo) listNodes(ctx context.Context) ([]*domain.ScheduleNode, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT uid, kind, title, duration, time_start, time_end,
		submission_id, topic_id, parent_uid, position
		FROM schedule_nodes ORDER BY position, uid`)
	if err != nil {
		return nil, fmt.Errorf("listing schedule nodes: %w", err)
	}
	var nodes []*domain.ScheduleNode
	for rows.Next() {
		var (
			n                     domain.ScheduleNode
			kind                  string
			duration              sql.NullInt64
			start, end            sql.NullInt64
			submissionID, topicID sql.NullInt64
			parent                sql.NullString
		)
		err := rows.Scan(&n.UID, &kind, &n.Title, &duration, &start, &end,
			&submissionID, &topicID, &parent, &n.Position)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning schedule node: %w", err)
		}
		n.Kind = domain.NodeKind(kind)
		n.Duration = intPtr(duration)
		n.TimeStart = int64Ptr(start)
		n.TimeEnd = int64Ptr(end)
		n.SubmissionID = int64Ptr(submissionID)
		n.TopicID = int64Ptr(topicID)
		n.ParentUID = strPtr(parent)
		nodes = append(nodes, &n)
	}
	if err := closeRows(rows); err != nil {
		return nil, fmt.Errorf("iterating schedule nodes: %w", err)
	}
	return nodes, nil
}
