package sheet

import (
	"fmt"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

// Colors of the generated tables.
const (
	HeaderFill = "70AD47"
	HeaderFont = "FFFFFF"
	EvenFill   = "E2EFDA"
	TopicFont  = "000000"
)

// DefaultMaxWidth caps autosized columns.
const DefaultMaxWidth = 65

// widthPadding is added to the longest value of a column.
const widthPadding = 2

// styleSet holds the style ids registered in one workbook. Every style
// centers and wraps text.
type styleSet struct {
	header    int
	odd       int
	even      int
	topicOdd  int
	topicEven int
}

func newStyleSet(f *excelize.File) (*styleSet, error) {
	align := &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true}
	evenFill := excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{EvenFill}}
	topicFont := &excelize.Font{Bold: true, Color: TopicFont}

	s := &styleSet{}
	defs := []struct {
		dst   *int
		style excelize.Style
	}{
		{&s.header, excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{HeaderFill}},
			Font:      &excelize.Font{Bold: true, Color: HeaderFont},
			Alignment: align,
		}},
		{&s.odd, excelize.Style{Alignment: align}},
		{&s.even, excelize.Style{Fill: evenFill, Alignment: align}},
		{&s.topicOdd, excelize.Style{Font: topicFont, Alignment: align}},
		{&s.topicEven, excelize.Style{Fill: evenFill, Font: topicFont, Alignment: align}},
	}
	for _, d := range defs {
		id, err := f.NewStyle(&d.style)
		if err != nil {
			return nil, fmt.Errorf("registering style: %w", err)
		}
		*d.dst = id
	}
	return s, nil
}

// row returns the style of a data row. Rows with an even index are filled.
func (s *styleSet) row(index int, topic bool) int {
	even := index%2 == 0
	switch {
	case topic && even:
		return s.topicEven
	case topic:
		return s.topicOdd
	case even:
		return s.even
	default:
		return s.odd
	}
}

// widths tracks the longest value per column, in runes.
type widths []int

func (w *widths) observe(col int, text string) {
	for len(*w) < col {
		*w = append(*w, 0)
	}
	if n := utf8.RuneCountInString(text); n > (*w)[col-1] {
		(*w)[col-1] = n
	}
}

// styleRow applies style to columns 1..cols of row.
func styleRow(f *excelize.File, sheet string, row, cols, style int) error {
	if cols == 0 {
		return nil
	}
	first, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(cols, row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, first, last, style)
}

// finish styles the header row and sizes every observed column to its
// longest value plus padding, capped at maxWidth.
func finish(f *excelize.File, sheet string, styles *styleSet, w widths, maxWidth int) error {
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}
	if err := styleRow(f, sheet, 1, len(w), styles.header); err != nil {
		return fmt.Errorf("styling header of %q: %w", sheet, err)
	}
	// -1 drops a custom height so the header fits its text again.
	if err := f.SetRowHeight(sheet, 1, -1); err != nil {
		return fmt.Errorf("sizing header of %q: %w", sheet, err)
	}
	for i, longest := range w {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		width := min(longest+widthPadding, maxWidth)
		if err := f.SetColWidth(sheet, name, name, float64(width)); err != nil {
			return fmt.Errorf("sizing column %s of %q: %w", name, sheet, err)
		}
	}
	return nil
}
