package cli

import (
	"fmt"
	"io"

	"github.com/alexanderramin/fangen/internal/cli/formatter"
	"github.com/alexanderramin/fangen/internal/service"
	"github.com/charmbracelet/bubbles/progress"
)

// progressLine redraws a single terminal line per stage. On a non-terminal
// writer it stays silent so piped output holds only the final report.
type progressLine struct {
	w       io.Writer
	bar     progress.Model
	enabled bool
	stage   string
}

func newProgressLine(w io.Writer, enabled bool) *progressLine {
	return &progressLine{w: w, bar: formatter.NewBar(formatter.DefaultBarWidth), enabled: enabled}
}

// Func returns the callback handed to services.
func (p *progressLine) Func() service.Progress {
	if !p.enabled {
		return nil
	}
	return p.update
}

func (p *progressLine) update(stage string, done, total int) {
	if p.stage != "" && stage != p.stage {
		fmt.Fprintln(p.w)
	}
	p.stage = stage
	fmt.Fprintf(p.w, "\r%s", formatter.ProgressLine(p.bar, stage, done, total))
}

// Done ends the current line.
func (p *progressLine) Done() {
	if p.stage != "" {
		fmt.Fprintln(p.w)
		p.stage = ""
	}
}
