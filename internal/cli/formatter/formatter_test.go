package formatter

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/fangen/internal/domain"
	"github.com/alexanderramin/fangen/internal/media"
	"github.com/alexanderramin/fangen/internal/service"
	"github.com/alexanderramin/fangen/internal/sheet"
	"github.com/stretchr/testify/assert"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := stripANSI(RenderTable(
		[]string{"NAME", "N"},
		[][]string{{"a", "1"}, {"longer", "22"}, {"short"}},
	))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 5)
	assert.Equal(t, "NAME    N", lines[0])
	assert.Equal(t, "──────  ──", lines[1])
	assert.Equal(t, "a       1", lines[2])
	assert.Equal(t, "longer  22", lines[3])
	assert.Equal(t, "short   ", lines[4])
}

func TestRenderTable_NoHeaders(t *testing.T) {
	assert.Empty(t, RenderTable(nil, [][]string{{"x"}}))
}

func TestFraction(t *testing.T) {
	tests := []struct {
		name        string
		done, total int
		want        float64
	}{
		{"half", 5, 10, 0.5},
		{"empty batch", 0, 0, 1},
		{"over clamps", 12, 10, 1},
		{"negative clamps", -1, 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Fraction(tt.done, tt.total), 1e-9)
		})
	}
}

func TestProgressLine(t *testing.T) {
	out := stripANSI(ProgressLine(NewBar(10), "values", 3, 4))
	assert.True(t, strings.HasPrefix(out, "values"))
	assert.Contains(t, out, "3/4")
	assert.Contains(t, out, "75%")
}

func TestAgo(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "just now", Ago(now.Add(-10*time.Second), now))
	assert.Equal(t, "5m ago", Ago(now.Add(-5*time.Minute), now))
	assert.Equal(t, "3h ago", Ago(now.Add(-3*time.Hour), now))
	assert.Equal(t, "4d ago", Ago(now.Add(-96*time.Hour), now))
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "1 value", Plural(1, "value", "values"))
	assert.Equal(t, "0 values", Plural(0, "value", "values"))
}

func TestStatusTag(t *testing.T) {
	assert.Equal(t, "[OK]", stripANSI(StatusTag(media.StatusOK)))
	assert.Equal(t, "[NOT FOUND]", stripANSI(StatusTag(media.StatusNotFound)))
}

func TestFormatStatus(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	finished := now.Add(-2 * time.Hour)

	t.Run("finished run", func(t *testing.T) {
		out := stripANSI(FormatStatus(&service.StatusReport{
			Topics: 2, Fields: 5, Submissions: 4, ApprovedSubmissions: 3, Values: 9, Nodes: 7,
			LastRun: &domain.SyncRun{ID: "run-1", StartedAt: finished.Add(-time.Minute), FinishedAt: &finished},
		}, now))
		assert.Contains(t, out, "STATUS")
		assert.Contains(t, out, "4 (3 approved)")
		assert.Contains(t, out, "Schedule nodes")
		assert.Contains(t, out, "run-1")
		assert.Contains(t, out, "finished 2h ago")
	})

	t.Run("unfinished run", func(t *testing.T) {
		out := stripANSI(FormatStatus(&service.StatusReport{
			LastRun: &domain.SyncRun{ID: "run-2", StartedAt: now.Add(-30 * time.Minute)},
		}, now))
		assert.Contains(t, out, "run-2 did not finish")
		assert.Contains(t, out, "30m ago")
	})

	t.Run("no runs", func(t *testing.T) {
		out := stripANSI(FormatStatus(&service.StatusReport{}, now))
		assert.Contains(t, out, "No sync yet")
	})
}

func TestFormatSync(t *testing.T) {
	out := stripANSI(FormatSync(&service.SyncReport{
		Run:                domain.SyncRun{ID: "abc", Topics: 2, Values: 10},
		ReusedSession:      true,
		SkippedSubmissions: 1,
		SkippedValues:      2,
	}))
	assert.Contains(t, out, "abc, reused session")
	assert.Contains(t, out, "values")
	assert.Contains(t, out, "Skipped 1 submission and 2 values")
}

func TestFormatDocument(t *testing.T) {
	out := stripANSI(FormatDocument(&service.DocumentReport{
		Path:    "plan.xlsx",
		Created: true,
		Sheets:  []sheet.SheetReport{{Name: "Лист1", Templates: []string{"{Инфо}", "{time}"}, Rows: 12}},
	}))
	assert.Contains(t, out, "Created plan.xlsx")
	assert.Contains(t, out, "Лист1")
	assert.Contains(t, out, "{Инфо} {time}")

	out = stripANSI(FormatDocument(&service.DocumentReport{Path: "plan.xlsx"}))
	assert.Equal(t, "Updated plan.xlsx\n", out)
}

func TestFormatResult(t *testing.T) {
	ok := stripANSI(FormatResult(media.Result{
		Status: media.StatusOK, Filename: "601.mp3", ValueTitle: "Фонограмма", SubmissionTitle: "Act", Link: "https://x/601",
	}))
	assert.Equal(t, "[OK] 601.mp3 Фонограмма > Act", ok)

	fail := stripANSI(FormatResult(media.Result{
		Status: media.StatusFail, Filename: "602", ValueTitle: "Фото", SubmissionTitle: "Act", Link: "https://x/602",
	}))
	assert.Contains(t, fail, "[FAIL]")
	assert.Contains(t, fail, "https://x/602")
}

func TestFormatMediaSummary(t *testing.T) {
	rep := &service.MediaReport{
		Results: []media.Result{{Status: media.StatusOK}, {Status: media.StatusOK}, {Status: media.StatusSkip}},
		LogPath: "files/log.txt",
	}
	out := stripANSI(FormatMediaSummary(rep, media.StatusFail, media.StatusSkip, media.StatusOK))
	assert.Equal(t, "0 FAIL, 1 SKIP, 2 OK (log: files/log.txt)\n", out)
}
