package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/alexanderramin/fangen/internal/domain"
	"github.com/alexanderramin/fangen/internal/media"
	"github.com/alexanderramin/fangen/internal/plan"
	"github.com/alexanderramin/fangen/internal/render"
	"github.com/alexanderramin/fangen/internal/repository"
)

// Progress stages of the media use cases.
const (
	StageDownload = "download"
	StageMove     = "move"
)

// MediaOptions select which values the media use cases touch.
type MediaOptions struct {
	// SkipFields lists value titles that are never downloaded or moved.
	SkipFields []string
	// StageMode moves submissions in schedule order instead of approved order.
	StageMode bool
	// DictPath is the alias dictionary for filename templates, read by Move.
	DictPath string
}

type mediaService struct {
	submissions repository.SubmissionRepo
	schedule    repository.ScheduleRepo
	builder     plan.Builder
	downloader  *media.Downloader
	mover       *media.Mover
	opts        MediaOptions
	logger      *slog.Logger
	observer    UseCaseObserver
}

func NewMediaService(
	submissions repository.SubmissionRepo,
	schedule repository.ScheduleRepo,
	builder plan.Builder,
	downloader *media.Downloader,
	mover *media.Mover,
	opts MediaOptions,
	logger *slog.Logger,
	observers ...UseCaseObserver,
) MediaService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &mediaService{
		submissions: submissions,
		schedule:    schedule,
		builder:     builder,
		downloader:  downloader,
		mover:       mover,
		opts:        opts,
		logger:      logger,
		observer:    useCaseObserverOrNoop(observers),
	}
}

// mediaValue is one file or image value together with its submission.
type mediaValue struct {
	sub   *domain.Submission
	value domain.Value
	seq   int
}

func (s *mediaService) collect(subs []*domain.Submission) []mediaValue {
	skip := make(map[string]bool, len(s.opts.SkipFields))
	for _, f := range s.opts.SkipFields {
		skip[f] = true
	}
	var out []mediaValue
	for i, sub := range subs {
		for _, v := range sub.Values {
			if v.Type.IsMedia() && !skip[v.Title] {
				out = append(out, mediaValue{sub: sub, value: v, seq: i + 1})
			}
		}
	}
	return out
}

// Download fetches every media value of approved submissions into dir and
// writes the run log there. Per-value failures are results, not errors.
func (s *mediaService) Download(ctx context.Context, dir string, progress Progress) (rep *MediaReport, err error) {
	fields := map[string]any{"dir": dir}
	defer observe(ctx, s.observer, "download", fields)(&err)

	if err = os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dir, err)
	}
	subs, err := s.submissions.ListApprovedWithValues(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading submissions: %w", err)
	}

	items := s.collect(subs)
	rep = &MediaReport{}
	for i, it := range items {
		if err = ctx.Err(); err != nil {
			break
		}
		var res media.Result
		res, err = s.downloader.Download(ctx, s.downloadItem(it), dir)
		if err != nil {
			break
		}
		rep.Results = append(rep.Results, res)
		report(progress, StageDownload, i+1, len(items))
	}

	logPath, logErr := media.WriteLog(dir, rep.Results, media.StatusFail, media.StatusSkip, media.StatusOK)
	if err != nil {
		return rep, err
	}
	if logErr != nil {
		return rep, logErr
	}
	rep.LogPath = logPath
	fields["values"] = len(rep.Results)
	return rep, nil
}

func (s *mediaService) downloadItem(it mediaValue) media.DownloadItem {
	owner := plan.Owner(it.sub)
	item := media.DownloadItem{
		ValueID:         it.value.ID,
		ValueTitle:      it.value.Title,
		SubmissionTitle: it.sub.Title(),
	}
	if link, err := s.builder.Renderer.Link(it.value, owner); err == nil {
		item.Link = link
		item.Hosted = s.builder.Renderer.Hosted(link)
	}
	if it.value.Type == domain.ValueFile && it.value.Raw != nil {
		if f, err := render.ParseFile(*it.value.Raw); err == nil {
			item.ExtHint = f.Fileext
		}
	}
	if t, err := time.ParseInLocation(domain.UpdateTimeLayout, it.sub.UpdateTime, time.Local); err == nil {
		item.UpdatedAt = t
	}
	return item
}

// Move copies downloaded media from in to named paths under out and writes
// the run log to out. A copy that fails on disk aborts after the log is written.
func (s *mediaService) Move(ctx context.Context, in, out string, progress Progress) (rep *MediaReport, err error) {
	fields := map[string]any{"in": in, "out": out, "stage_mode": s.opts.StageMode}
	defer observe(ctx, s.observer, "move", fields)(&err)

	dict, err := loadDictionary(s.opts.DictPath)
	if err != nil {
		return nil, err
	}
	mover := *s.mover
	mover.Dictionary = dict

	if _, err = os.Stat(in); err != nil {
		return nil, fmt.Errorf("input folder: %w", err)
	}

	var subs []*domain.Submission
	if s.opts.StageMode {
		tree, terr := s.schedule.LoadTree(ctx)
		if terr != nil {
			return nil, fmt.Errorf("loading schedule: %w", terr)
		}
		subs = tree.Submissions()
	} else {
		subs, err = s.submissions.ListApprovedWithValues(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading submissions: %w", err)
		}
	}

	items := s.collect(subs)
	rep = &MediaReport{}
	for i, it := range items {
		if err = ctx.Err(); err != nil {
			break
		}
		var res media.Result
		res, err = mover.Move(media.MoveItem{
			ValueID:         it.value.ID,
			ValueTitle:      it.value.Title,
			SubmissionTitle: it.sub.Title(),
			Seq:             it.seq,
			Context:         s.builder.Submission(it.sub),
		}, in, out)
		if err != nil {
			break
		}
		rep.Results = append(rep.Results, res)
		report(progress, StageMove, i+1, len(items))
	}

	logPath, logErr := media.WriteLog(out, rep.Results, media.StatusNotFound, media.StatusSkip, media.StatusOK)
	if err != nil {
		return rep, err
	}
	if logErr != nil {
		return rep, logErr
	}
	rep.LogPath = logPath
	fields["values"] = len(rep.Results)
	return rep, nil
}
