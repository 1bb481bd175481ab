package formatter

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
)

// DefaultBarWidth is the width of the progress bar in cells.
const DefaultBarWidth = 30

// NewBar returns a solid progress bar without its own percentage label.
func NewBar(width int) progress.Model {
	if width < 2 {
		width = 2
	}
	return progress.New(
		progress.WithSolidFill(string(ColorGreen)),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
}

// Fraction returns done/total clamped to [0, 1]. An empty batch counts as complete.
func Fraction(done, total int) float64 {
	if total <= 0 {
		return 1
	}
	pct := float64(done) / float64(total)
	switch {
	case pct < 0:
		return 0
	case pct > 1:
		return 1
	}
	return pct
}

// ProgressLine renders "stage [bar] done/total  pct%" for one update.
func ProgressLine(bar progress.Model, stage string, done, total int) string {
	pct := Fraction(done, total)
	return fmt.Sprintf("%-12s %s %d/%d %3.0f%%", stage, bar.ViewAs(pct), done, total, pct*100)
}
