package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/fangen/internal/service"
)

// FormatStatus renders the local store summary as a boxed table.
func FormatStatus(r *service.StatusReport, now time.Time) string {
	var b strings.Builder

	rows := [][]string{
		{"Topics", strconv.Itoa(r.Topics)},
		{"Fields", strconv.Itoa(r.Fields)},
		{"Submissions", fmt.Sprintf("%d (%d approved)", r.Submissions, r.ApprovedSubmissions)},
		{"Values", strconv.Itoa(r.Values)},
		{"Schedule nodes", strconv.Itoa(r.Nodes)},
	}
	b.WriteString(RenderTable([]string{"TABLE", "ROWS"}, rows))
	b.WriteString("\n")

	switch {
	case r.LastRun == nil:
		b.WriteString(StyleYellow.Render("No sync yet. Run make_db first.") + "\n")
	case !r.LastRun.Finished():
		b.WriteString(StyleRed.Render(fmt.Sprintf("Last sync %s did not finish (started %s)",
			r.LastRun.ID, Ago(r.LastRun.StartedAt, now))) + "\n")
	default:
		b.WriteString(fmt.Sprintf("Last sync %s %s\n",
			Dim(r.LastRun.ID), StyleGreen.Render("finished "+Ago(*r.LastRun.FinishedAt, now))))
	}

	return RenderBox("Status", b.String())
}
