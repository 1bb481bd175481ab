package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexanderramin/fangen/internal/cosplay2"
	"github.com/alexanderramin/fangen/internal/db"
	"github.com/alexanderramin/fangen/internal/domain"
	"github.com/alexanderramin/fangen/internal/repository"
	"github.com/google/uuid"
)

// Sync phases, in the order they run.
const (
	PhaseTopics      = "topics"
	PhaseFields      = "fields"
	PhaseSubmissions = "submissions"
	PhaseValues      = "values"
	PhaseSchedule    = "schedule"
)

type syncService struct {
	source   cosplay2.Source
	database *sql.DB
	uow      db.UnitOfWork
	logger   *slog.Logger
	observer UseCaseObserver
	now      func() time.Time
}

// NewSyncService builds the ingestion use case. database is reset at the
// start of every sync; uow scopes each phase's writes.
func NewSyncService(
	source cosplay2.Source,
	database *sql.DB,
	uow db.UnitOfWork,
	logger *slog.Logger,
	observers ...UseCaseObserver,
) SyncService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &syncService{
		source:   source,
		database: database,
		uow:      uow,
		logger:   logger,
		observer: useCaseObserverOrNoop(observers),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Sync logs in, resets the store, and ingests every phase in its own
// transaction. A failing phase aborts the sync; phases before it stay
// committed and the run is left unfinished.
func (s *syncService) Sync(ctx context.Context, email, password string, progress Progress) (rep *SyncReport, err error) {
	fields := map[string]any{}
	defer observe(ctx, s.observer, "sync", fields)(&err)

	login, err := s.source.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if err = db.Reset(ctx, s.database); err != nil {
		return nil, fmt.Errorf("resetting database: %w", err)
	}

	rep = &SyncReport{
		Run:           domain.SyncRun{ID: uuid.New().String(), StartedAt: s.now()},
		ReusedSession: login.Reused,
	}
	fields["run_id"] = rep.Run.ID
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteSyncRunRepo(tx).Create(ctx, &rep.Run)
	})
	if err != nil {
		return nil, err
	}

	topics, err := s.syncTopics(ctx, progress)
	if err != nil {
		return rep, err
	}
	rep.Run.Topics = len(topics)

	if rep.Run.Fields, err = s.syncFields(ctx, topics, progress); err != nil {
		return rep, err
	}

	submissions, skipped, err := s.syncSubmissions(ctx, topics, progress)
	if err != nil {
		return rep, err
	}
	rep.Run.Submissions, rep.SkippedSubmissions = len(submissions), skipped

	if rep.Run.Values, rep.SkippedValues, err = s.syncValues(ctx, submissions, progress); err != nil {
		return rep, err
	}

	if rep.Run.Nodes, err = s.syncSchedule(ctx, progress); err != nil {
		return rep, err
	}

	finished := s.now()
	rep.Run.FinishedAt = &finished
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteSyncRunRepo(tx).Finish(ctx, &rep.Run)
	})
	if err != nil {
		return rep, err
	}

	fields["topics"] = rep.Run.Topics
	fields["submissions"] = rep.Run.Submissions
	fields["values"] = rep.Run.Values
	fields["nodes"] = rep.Run.Nodes
	return rep, nil
}

func (s *syncService) syncTopics(ctx context.Context, progress Progress) ([]domain.Topic, error) {
	topics, err := s.source.ListTopics(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching topics: %w", err)
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteTopicRepo(tx)
		for i := range topics {
			if err := repo.Create(ctx, &topics[i]); err != nil {
				return err
			}
			report(progress, PhaseTopics, i+1, len(topics))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("storing topics: %w", err)
	}
	return topics, nil
}

func (s *syncService) syncFields(ctx context.Context, topics []domain.Topic, progress Progress) (int, error) {
	var sections []domain.Section
	for i, t := range topics {
		got, err := s.source.GetTopicFields(ctx, t)
		if err != nil {
			return 0, fmt.Errorf("fetching fields of topic %q: %w", t.Title, err)
		}
		sections = append(sections, got...)
		report(progress, PhaseFields, i+1, len(topics))
	}

	count := 0
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteTopicRepo(tx)
		for i := range sections {
			if err := repo.CreateSection(ctx, &sections[i]); err != nil {
				return err
			}
			count += len(sections[i].Fields)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("storing fields: %w", err)
	}
	return count, nil
}

func (s *syncService) syncSubmissions(ctx context.Context, topics []domain.Topic, progress Progress) (map[int64]bool, int, error) {
	all, err := s.source.ListAllSubmissions(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("fetching submissions: %w", err)
	}

	known := make(map[int64]bool, len(topics))
	for _, t := range topics {
		known[t.ID] = true
	}

	stored := make(map[int64]bool, len(all))
	skipped := 0
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteSubmissionRepo(tx)
		for i := range all {
			sub := &all[i]
			if !known[sub.TopicID] {
				skipped++
				s.logger.Warn("submission of unknown topic skipped", "submission", sub.ID, "topic", sub.TopicID)
				continue
			}
			if err := repo.Create(ctx, sub); err != nil {
				return err
			}
			stored[sub.ID] = true
			report(progress, PhaseSubmissions, i+1, len(all))
		}
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("storing submissions: %w", err)
	}
	return stored, skipped, nil
}

func (s *syncService) syncValues(ctx context.Context, submissions map[int64]bool, progress Progress) (int, int, error) {
	all, err := s.source.ListAllValues(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("fetching values: %w", err)
	}

	count, skipped := 0, 0
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteValueRepo(tx)
		for i := range all {
			v := &all[i]
			if !submissions[v.SubmissionID] {
				skipped++
				continue
			}
			if err := repo.Create(ctx, v); err != nil {
				return err
			}
			count++
			report(progress, PhaseValues, i+1, len(all))
		}
		return nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("storing values: %w", err)
	}
	if skipped > 0 {
		s.logger.Warn("values of unknown submissions skipped", "count", skipped)
	}
	return count, skipped, nil
}

func (s *syncService) syncSchedule(ctx context.Context, progress Progress) (int, error) {
	plan, err := s.source.GetScheduleTree(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetching schedule: %w", err)
	}
	nodes := cosplay2.FlattenPlan(plan)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteScheduleRepo(tx)
		for i, n := range nodes {
			if err := repo.Create(ctx, n); err != nil {
				return err
			}
			report(progress, PhaseSchedule, i+1, len(nodes))
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("storing schedule: %w", err)
	}
	return len(nodes), nil
}
