package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/fangen/internal/media"
	"github.com/alexanderramin/fangen/internal/service"
)

// FormatSync summarizes a finished make_db run.
func FormatSync(r *service.SyncReport) string {
	var b strings.Builder
	session := "new session"
	if r.ReusedSession {
		session = "reused session"
	}
	b.WriteString(fmt.Sprintf("%s %s\n", StyleGreen.Render("Synced"), Dim(r.Run.ID+", "+session)))

	run := r.Run
	rows := [][]string{
		{"topics", strconv.Itoa(run.Topics)},
		{"fields", strconv.Itoa(run.Fields)},
		{"submissions", strconv.Itoa(run.Submissions)},
		{"values", strconv.Itoa(run.Values)},
		{"schedule nodes", strconv.Itoa(run.Nodes)},
	}
	b.WriteString(RenderTable([]string{"STORED", "COUNT"}, rows))

	if r.SkippedSubmissions > 0 || r.SkippedValues > 0 {
		b.WriteString(StyleYellow.Render(fmt.Sprintf("Skipped %s and %s with unknown owners",
			Plural(r.SkippedSubmissions, "submission", "submissions"),
			Plural(r.SkippedValues, "value", "values"))) + "\n")
	}
	return b.String()
}

// FormatDocument summarizes a written workbook, one row per populated sheet.
func FormatDocument(r *service.DocumentReport) string {
	var b strings.Builder
	verb := "Updated"
	if r.Created {
		verb = "Created"
	}
	b.WriteString(fmt.Sprintf("%s %s\n", StyleGreen.Render(verb), Bold(r.Path)))
	if len(r.Sheets) == 0 {
		return b.String()
	}

	rows := make([][]string, 0, len(r.Sheets))
	for _, s := range r.Sheets {
		rows = append(rows, []string{s.Name, strconv.Itoa(s.Rows), strings.Join(s.Templates, " ")})
	}
	b.WriteString(RenderTable([]string{"SHEET", "ROWS", "TEMPLATES"}, rows))
	return b.String()
}

// FormatResult renders one media result line with a colored status tag.
func FormatResult(r media.Result) string {
	line := fmt.Sprintf("%s %s %s", StatusTag(r.Status), r.Filename, Dim(r.ValueTitle+" > "+r.SubmissionTitle))
	if r.Status != media.StatusOK && r.Link != "" {
		line += " " + StyleBlue.Render(r.Link)
	}
	return line
}

// FormatMediaSummary renders per-status counts in the given order and the log path.
func FormatMediaSummary(r *service.MediaReport, order ...media.Status) string {
	counts := r.Counts()
	parts := make([]string, 0, len(order))
	for _, s := range order {
		parts = append(parts, StatusStyle(s).Render(fmt.Sprintf("%d %s", counts[s], strings.ToUpper(string(s)))))
	}
	line := strings.Join(parts, ", ")
	if r.LogPath != "" {
		line += Dim(" (log: " + r.LogPath + ")")
	}
	return line + "\n"
}
