package repository

import (
	"context"

	"github.com/alexanderramin/fangen/internal/domain"
	"github.com/alexanderramin/fangen/internal/plan"
)

type TopicRepo interface {
	Create(ctx context.Context, t *domain.Topic) error
	// CreateSection stores the section and its fields.
	CreateSection(ctx context.Context, s *domain.Section) error
	GetByID(ctx context.Context, id int64) (*domain.Topic, error)
	List(ctx context.Context) ([]*domain.Topic, error)
	// ListWithGraph returns topics with sections, fields, submissions and values attached.
	ListWithGraph(ctx context.Context, approvedOnly bool) ([]*domain.Topic, error)
	Count(ctx context.Context) (int, error)
	CountFields(ctx context.Context) (int, error)
}

type SubmissionRepo interface {
	Create(ctx context.Context, s *domain.Submission) error
	GetByID(ctx context.Context, id int64) (*domain.Submission, error)
	ListApprovedWithValues(ctx context.Context) ([]*domain.Submission, error)
	Count(ctx context.Context, approvedOnly bool) (int, error)
}

type ValueRepo interface {
	Create(ctx context.Context, v *domain.Value) error
	ListBySubmission(ctx context.Context, submissionID int64) ([]domain.Value, error)
	Count(ctx context.Context) (int, error)
}

type ScheduleRepo interface {
	Create(ctx context.Context, n *domain.ScheduleNode) error
	// LoadTree assembles all stored nodes with their submissions, values and topics.
	LoadTree(ctx context.Context) (*plan.Tree, error)
	Count(ctx context.Context) (int, error)
}

type SyncRunRepo interface {
	Create(ctx context.Context, r *domain.SyncRun) error
	Finish(ctx context.Context, r *domain.SyncRun) error
	Last(ctx context.Context) (*domain.SyncRun, error)
}
