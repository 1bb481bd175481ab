package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alexanderramin/fangen/internal/domain"
	"github.com/alexanderramin/fangen/internal/plan"
	"github.com/alexanderramin/fangen/internal/repository"
	"github.com/alexanderramin/fangen/internal/sheet"
)

// SummarySheet is the first sheet of the data workbook.
const SummarySheet = "Сводный"

// MissingCell marks a summary cell whose submission has no such value or
// an empty one.
const MissingCell = "—"

type exportService struct {
	topics   repository.TopicRepo
	schedule repository.ScheduleRepo
	builder  plan.Builder
	opts     DocumentOptions
	logger   *slog.Logger
	observer UseCaseObserver
}

func NewExportService(
	topics repository.TopicRepo,
	schedule repository.ScheduleRepo,
	builder plan.Builder,
	opts DocumentOptions,
	logger *slog.Logger,
	observers ...UseCaseObserver,
) ExportService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &exportService{
		topics:   topics,
		schedule: schedule,
		builder:  builder,
		opts:     opts,
		logger:   logger,
		observer: useCaseObserverOrNoop(observers),
	}
}

// MakeData writes a new data workbook to path, replacing any existing file.
func (s *exportService) MakeData(ctx context.Context, path string, progress Progress) (rep *DocumentReport, err error) {
	fields := map[string]any{"path": path}
	defer observe(ctx, s.observer, "make-data", fields)(&err)

	if err = sheet.CheckWritable(path); err != nil {
		return nil, err
	}

	tree, err := s.schedule.LoadTree(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading schedule: %w", err)
	}
	topics, err := s.topics.ListWithGraph(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("loading topics: %w", err)
	}

	tables := make([]sheet.Table, 0, len(topics)+1)
	tables = append(tables, s.summary(tree.Submissions()))
	report(progress, SummarySheet, 1, len(topics)+1)
	for i, t := range topics {
		tables = append(tables, s.topicTable(t))
		report(progress, t.Title, i+2, len(topics)+1)
	}

	f, err := sheet.WriteTables(tables, s.opts.MaxWidth)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err = sheet.Save(f, path); err != nil {
		return nil, err
	}

	rep = &DocumentReport{Path: path, Created: true}
	for i, name := range f.GetSheetList() {
		rep.Sheets = append(rep.Sheets, sheet.SheetReport{
			Name:      name,
			Templates: tables[i].Headers,
			Rows:      len(tables[i].Rows),
		})
	}
	fields["sheets"] = len(rep.Sheets)
	return rep, nil
}

// summary has one row per scheduled submission: its info line followed by
// every value title seen across the schedule, in first-seen order.
func (s *exportService) summary(subs []*domain.Submission) sheet.Table {
	headers := []string{"info"}
	seen := map[string]bool{"info": true}
	for _, sub := range subs {
		for _, v := range sub.Values {
			if !seen[v.Title] {
				seen[v.Title] = true
				headers = append(headers, v.Title)
			}
		}
	}

	rows := make([][]string, 0, len(subs))
	for _, sub := range subs {
		ctx := s.builder.Submission(sub)
		row := make([]string, len(headers))
		for i, h := range headers {
			if v, ok := ctx.Lookup(h); ok && !v.Empty() {
				row[i] = v.String()
			} else {
				row[i] = MissingCell
			}
		}
		rows = append(rows, row)
	}
	return sheet.Table{Title: SummarySheet, Headers: headers, Rows: rows, FreezeHeader: true}
}

// topicTable has one row per approved submission of t, one column per field.
func (s *exportService) topicTable(t *domain.Topic) sheet.Table {
	var headers []string
	for _, f := range t.Fields() {
		headers = append(headers, f.Title)
	}

	rows := make([][]string, 0, len(t.Submissions))
	for _, sub := range t.Submissions {
		ctx := s.builder.Submission(sub)
		row := make([]string, len(headers))
		for i, h := range headers {
			row[i] = ctx.Text(h)
		}
		rows = append(rows, row)
	}
	return sheet.Table{Title: t.Title, Headers: headers, Rows: rows}
}
