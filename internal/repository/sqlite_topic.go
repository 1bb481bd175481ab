package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/fangen/internal/db"
	"github.com/alexanderramin/fangen/internal/domain"
)

const topicColumns = `id, event_id, url_code, COALESCE(card_code, ''), title, ord`

// SQLiteTopicRepo implements TopicRepo using a SQLite database.
type SQLiteTopicRepo struct {
	db db.DBTX
}

func NewSQLiteTopicRepo(conn db.DBTX) *SQLiteTopicRepo {
	return &SQLiteTopicRepo{db: conn}
}

func (r *SQLiteTopicRepo) Create(ctx context.Context, t *domain.Topic) error {
	query := `INSERT INTO topics (id, event_id, url_code, card_code, title, ord)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.EventID,
		t.URLCode,
		emptyToNull(t.CardCode),
		t.Title,
		t.Order,
	)
	if err != nil {
		return fmt.Errorf("inserting topic %d: %w", t.ID, err)
	}
	return nil
}

func (r *SQLiteTopicRepo) CreateSection(ctx context.Context, s *domain.Section) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sections (id, topic_id, title, ord) VALUES (?, ?, ?, ?)`,
		s.ID, s.TopicID, s.Title, s.Order,
	)
	if err != nil {
		return fmt.Errorf("inserting section %d: %w", s.ID, err)
	}

	for _, f := range s.Fields {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO fields (id, topic_id, section_id, title, ord, value_type) VALUES (?, ?, ?, ?, ?, ?)`,
			f.ID, s.TopicID, s.ID, f.Title, f.Order, string(f.Type),
		)
		if err != nil {
			return fmt.Errorf("inserting field %d: %w", f.ID, err)
		}
	}
	return nil
}

func (r *SQLiteTopicRepo) GetByID(ctx context.Context, id int64) (*domain.Topic, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+topicColumns+` FROM topics WHERE id = ?`, id)
	t, err := scanTopic(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("topic %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning topic: %w", err)
	}
	return t, nil
}

func (r *SQLiteTopicRepo) List(ctx context.Context) ([]*domain.Topic, error) {
	topics, _, err := loadTopics(ctx, r.db)
	return topics, err
}

func (r *SQLiteTopicRepo) ListWithGraph(ctx context.Context, approvedOnly bool) ([]*domain.Topic, error) {
	topics, byID, err := loadTopics(ctx, r.db)
	if err != nil {
		return nil, err
	}

	where := ""
	if approvedOnly {
		where = "WHERE s.status = '" + string(domain.StatusApproved) + "'"
	}
	subs, err := loadSubmissions(ctx, r.db, where, "s.number, s.id")
	if err != nil {
		return nil, err
	}
	for _, s := range subs {
		t, ok := byID[s.TopicID]
		if !ok {
			continue
		}
		s.Topic = t
		t.Submissions = append(t.Submissions, s)
	}
	return topics, nil
}

func (r *SQLiteTopicRepo) Count(ctx context.Context) (int, error) {
	n, err := countRows(r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM topics`))
	if err != nil {
		return 0, fmt.Errorf("counting topics: %w", err)
	}
	return n, nil
}

func (r *SQLiteTopicRepo) CountFields(ctx context.Context) (int, error) {
	n, err := countRows(r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM fields`))
	if err != nil {
		return 0, fmt.Errorf("counting fields: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTopic(s scanner) (*domain.Topic, error) {
	var t domain.Topic
	if err := s.Scan(&t.ID, &t.EventID, &t.URLCode, &t.CardCode, &t.Title, &t.Order); err != nil {
		return nil, err
	}
	return &t, nil
}

// loadTopics returns topics by ord with their sections and fields, plus an index by id.
func loadTopics(ctx context.Context, q db.DBTX) ([]*domain.Topic, map[int64]*domain.Topic, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+topicColumns+` FROM topics ORDER BY ord, id`)
	if err != nil {
		return nil, nil, fmt.Errorf("listing topics: %w", err)
	}
	var topics []*domain.Topic
	byID := make(map[int64]*domain.Topic)
	for rows.Next() {
		t, err := scanTopic(rows)
		if err != nil {
			rows.Close()
			return nil, nil, fmt.Errorf("scanning topic: %w", err)
		}
		topics = append(topics, t)
		byID[t.ID] = t
	}
	if err := closeRows(rows); err != nil {
		return nil, nil, fmt.Errorf("iterating topics: %w", err)
	}

	sections, err := loadSections(ctx, q)
	if err != nil {
		return nil, nil, err
	}
	for _, s := range sections {
		if t, ok := byID[s.TopicID]; ok {
			t.Sections = append(t.Sections, s)
		}
	}
	return topics, byID, nil
}

func loadSections(ctx context.Context, q db.DBTX) ([]domain.Section, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, topic_id, title, ord FROM sections ORDER BY topic_id, ord, id`)
	if err != nil {
		return nil, fmt.Errorf("listing sections: %w", err)
	}
	var sections []domain.Section
	index := make(map[int64]int)
	for rows.Next() {
		var s domain.Section
		if err := rows.Scan(&s.ID, &s.TopicID, &s.Title, &s.Order); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning section: %w", err)
		}
		index[s.ID] = len(sections)
		sections = append(sections, s)
	}
	if err := closeRows(rows); err != nil {
		return nil, fmt.Errorf("iterating sections: %w", err)
	}

	rows, err = q.QueryContext(ctx, `SELECT id, topic_id, section_id, title, ord, value_type
		FROM fields ORDER BY section_id, ord, id`)
	if err != nil {
		return nil, fmt.Errorf("listing fields: %w", err)
	}
	for rows.Next() {
		var f domain.Field
		var typ string
		if err := rows.Scan(&f.ID, &f.TopicID, &f.SectionID, &f.Title, &f.Order, &typ); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning field: %w", err)
		}
		f.Type = domain.ValueType(typ)
		if i, ok := index[f.SectionID]; ok {
			sections[i].Fields = append(sections[i].Fields, f)
		}
	}
	if err := closeRows(rows); err != nil {
		return nil, fmt.Errorf("iterating fields: %w", err)
	}
	return sections, nil
}

// closeRows reports the iteration error, if any, after closing.
func closeRows(rows *sql.Rows) error {
	err := rows.Err()
	if cerr := rows.Close(); err == nil {
		err = cerr
	}
	return err
}
