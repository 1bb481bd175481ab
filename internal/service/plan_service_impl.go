package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alexanderramin/fangen/internal/config"
	"github.com/alexanderramin/fangen/internal/domain"
	"github.com/alexanderramin/fangen/internal/plan"
	"github.com/alexanderramin/fangen/internal/repository"
	"github.com/alexanderramin/fangen/internal/sheet"
	"github.com/alexanderramin/fangen/internal/template"
)

// DocumentOptions are shared by the workbook use cases.
type DocumentOptions struct {
	// DictPath is the alias dictionary JSON. Empty means no aliases.
	DictPath string
	MaxWidth int
}

type planService struct {
	schedule repository.ScheduleRepo
	builder  plan.Builder
	opts     DocumentOptions
	logger   *slog.Logger
	observer UseCaseObserver
}

func NewPlanService(
	schedule repository.ScheduleRepo,
	builder plan.Builder,
	opts DocumentOptions,
	logger *slog.Logger,
	observers ...UseCaseObserver,
) PlanService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &planService{
		schedule: schedule,
		builder:  builder,
		opts:     opts,
		logger:   logger,
		observer: useCaseObserverOrNoop(observers),
	}
}

// MakePlan regenerates every sheet of the workbook at path from the stored
// schedule. A missing workbook is created with a single "{Инфо}" column.
func (s *planService) MakePlan(ctx context.Context, path string, progress Progress) (rep *DocumentReport, err error) {
	fields := map[string]any{"path": path}
	defer observe(ctx, s.observer, "make-plan", fields)(&err)

	dict, err := loadDictionary(s.opts.DictPath)
	if err != nil {
		return nil, err
	}
	if err = sheet.CheckWritable(path); err != nil {
		return nil, err
	}

	tree, err := s.schedule.LoadTree(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading schedule: %w", err)
	}
	rows := s.rows(tree.Flatten())
	fields["rows"] = len(rows)

	f, created, err := sheet.OpenOrCreate(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reports, err := sheet.Populate(f, rows, sheet.Options{
		Dictionary: dict,
		MaxWidth:   s.opts.MaxWidth,
		Progress:   progress,
	})
	if err != nil {
		return nil, err
	}
	if err = sheet.Save(f, path); err != nil {
		return nil, err
	}
	fields["sheets"] = len(reports)
	return &DocumentReport{Path: path, Created: created, Sheets: reports}, nil
}

func (s *planService) rows(entries []plan.Entry) []sheet.Row {
	rows := make([]sheet.Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, sheet.Row{
			Context: s.builder.Node(e.Node, e.Seq),
			Topic:   e.Node.Kind == domain.NodeTopic,
		})
	}
	return rows
}

// loadDictionary reads the alias dictionary. An empty path yields nil, which
// resolves every key to itself; a missing or malformed file is a config error.
func loadDictionary(path string) (*template.Dictionary, error) {
	if path == "" {
		return nil, nil
	}
	dict, err := template.LoadDictionary(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	return dict, nil
}
