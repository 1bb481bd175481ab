package service

import (
	"context"

	"github.com/alexanderramin/fangen/internal/domain"
	"github.com/alexanderramin/fangen/internal/media"
	"github.com/alexanderramin/fangen/internal/sheet"
)

// Progress receives step updates of a long-running use case. Stage names a
// phase or sheet; done counts finished items out of total.
type Progress func(stage string, done, total int)

// SyncService replaces the local store with a fresh copy of the remote event.
type SyncService interface {
	Sync(ctx context.Context, email, password string, progress Progress) (*SyncReport, error)
}

// PlanService regenerates the schedule workbook from its header templates.
type PlanService interface {
	MakePlan(ctx context.Context, path string, progress Progress) (*DocumentReport, error)
}

// ExportService writes the data workbook: a summary sheet and one sheet per topic.
type ExportService interface {
	MakeData(ctx context.Context, path string, progress Progress) (*DocumentReport, error)
}

// MediaService downloads uploaded files and copies them into a named tree.
type MediaService interface {
	Download(ctx context.Context, dir string, progress Progress) (*MediaReport, error)
	Move(ctx context.Context, in, out string, progress Progress) (*MediaReport, error)
}

type StatusService interface {
	GetStatus(ctx context.Context) (*StatusReport, error)
}

// SyncReport is the outcome of one sync.
type SyncReport struct {
	Run           domain.SyncRun
	ReusedSession bool
	// SkippedSubmissions and SkippedValues reference topics or submissions
	// the remote lists did not contain.
	SkippedSubmissions int
	SkippedValues      int
}

// DocumentReport describes a written workbook.
type DocumentReport struct {
	Path    string
	Created bool
	Sheets  []sheet.SheetReport
}

// MediaReport lists per-value results and where the run log went.
type MediaReport struct {
	Results []media.Result
	LogPath string
}

// Counts tallies the report's results by status.
func (r *MediaReport) Counts() map[media.Status]int {
	return media.Counts(r.Results)
}

// StatusReport summarizes the local store.
type StatusReport struct {
	Topics              int
	Fields              int
	Submissions         int
	ApprovedSubmissions int
	Values              int
	Nodes               int
	LastRun             *domain.SyncRun
}

func report(progress Progress, stage string, done, total int) {
	if progress != nil {
		progress(stage, done, total)
	}
}
