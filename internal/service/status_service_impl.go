package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/fangen/internal/repository"
)

type statusService struct {
	topics      repository.TopicRepo
	submissions repository.SubmissionRepo
	values      repository.ValueRepo
	schedule    repository.ScheduleRepo
	runs        repository.SyncRunRepo
}

func NewStatusService(
	topics repository.TopicRepo,
	submissions repository.SubmissionRepo,
	values repository.ValueRepo,
	schedule repository.ScheduleRepo,
	runs repository.SyncRunRepo,
) StatusService {
	return &statusService{
		topics:      topics,
		submissions: submissions,
		values:      values,
		schedule:    schedule,
		runs:        runs,
	}
}

func (s *statusService) GetStatus(ctx context.Context) (*StatusReport, error) {
	var (
		rep StatusReport
		err error
	)
	if rep.Topics, err = s.topics.Count(ctx); err != nil {
		return nil, err
	}
	if rep.Fields, err = s.topics.CountFields(ctx); err != nil {
		return nil, err
	}
	if rep.Submissions, err = s.submissions.Count(ctx, false); err != nil {
		return nil, err
	}
	if rep.ApprovedSubmissions, err = s.submissions.Count(ctx, true); err != nil {
		return nil, err
	}
	if rep.Values, err = s.values.Count(ctx); err != nil {
		return nil, err
	}
	if rep.Nodes, err = s.schedule.Count(ctx); err != nil {
		return nil, err
	}

	run, err := s.runs.Last(ctx)
	switch {
	case errors.Is(err, repository.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("loading last sync run: %w", err)
	default:
		rep.LastRun = run
	}
	return &rep, nil
}
