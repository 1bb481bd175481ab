package sheet

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	maxSheetName   = 31
	sheetNameRunes = 30
)

var sheetNameIllegal = regexp.MustCompile(`[/\\?*:\[\]]`)

// Table is a sheet written from scratch: a header row and string rows.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	// FreezeHeader keeps row 1 and column A in view.
	FreezeHeader bool
}

// WriteTables returns a new workbook with one sheet per table, in order.
// Sheet names are derived from table titles with SheetNames.
func WriteTables(tables []Table, maxWidth int) (*excelize.File, error) {
	if len(tables) == 0 {
		return nil, fmt.Errorf("no tables to write")
	}

	titles := make([]string, len(tables))
	for i, t := range tables {
		titles[i] = t.Title
	}
	names := SheetNames(titles)

	f := NewWorkbook(names[0])
	styles, err := newStyleSet(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	for i, t := range tables {
		if i > 0 {
			if _, err := f.NewSheet(names[i]); err != nil {
				_ = f.Close()
				return nil, fmt.Errorf("creating sheet %q: %w", names[i], err)
			}
		}
		if err := writeTable(f, names[i], t, styles, maxWidth); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("sheet %q: %w", names[i], err)
		}
	}
	return f, nil
}

func writeTable(f *excelize.File, name string, t Table, styles *styleSet, maxWidth int) error {
	var w widths
	if err := writeRow(f, name, 1, t.Headers, &w); err != nil {
		return err
	}
	for i, row := range t.Rows {
		index := i + 2
		if err := writeRow(f, name, index, row, &w); err != nil {
			return err
		}
		if err := styleRow(f, name, index, len(t.Headers), styles.row(index, false)); err != nil {
			return fmt.Errorf("styling row %d: %w", index, err)
		}
	}
	if err := finish(f, name, styles, w, maxWidth); err != nil {
		return err
	}
	if t.FreezeHeader {
		err := f.SetPanes(name, &excelize.Panes{
			Freeze:      true,
			XSplit:      1,
			YSplit:      1,
			TopLeftCell: "B2",
			ActivePane:  "bottomRight",
		})
		if err != nil {
			return fmt.Errorf("freezing panes: %w", err)
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, index int, values []string, w *widths) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, index)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(sheet, cell, v); err != nil {
			return fmt.Errorf("writing %s: %w", cell, err)
		}
		w.observe(i+1, v)
	}
	return nil
}

// SheetNames turns titles into valid, unique sheet names: characters Excel
// rejects become spaces, names are cut to 30 runes, and repeats get " (2)",
// " (3)" suffixes. Empty titles become "Лист".
func SheetNames(titles []string) []string {
	used := make(map[string]bool, len(titles))
	out := make([]string, len(titles))
	for i, title := range titles {
		base := truncateRunes(sheetNameIllegal.ReplaceAllString(title, " "), sheetNameRunes)
		if strings.TrimSpace(base) == "" {
			base = "Лист"
		}
		name := base
		for n := 2; used[strings.ToLower(name)]; n++ {
			suffix := fmt.Sprintf(" (%d)", n)
			name = truncateRunes(base, maxSheetName-len(suffix)) + suffix
		}
		used[strings.ToLower(name)] = true
		out[i] = name
	}
	return out
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
