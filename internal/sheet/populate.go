package sheet

import (
	"fmt"

	"github.com/alexanderramin/fangen/internal/template"
	"github.com/xuri/excelize/v2"
)

// Row is one entity to emit: its template context and whether it is a
// topic row rendered in bold.
type Row struct {
	Context template.Context
	Topic   bool
}

// Options control Populate.
type Options struct {
	Dictionary *template.Dictionary
	MaxWidth   int
	// Progress, when set, is called after each written row.
	Progress func(sheet string, done, total int)
}

// SheetReport summarizes one populated sheet.
type SheetReport struct {
	Name      string
	Templates []string
	Rows      int
}

// header is one string cell of row 1.
type header struct {
	col      int
	template string
}

// Populate regenerates every sheet of f from rows. Row 1 of each sheet is
// read as templates and left in place; all rows below it are removed, then
// one row per entry is written by substituting each string header with the
// entry's context. Non-string header cells produce empty columns.
func Populate(f *excelize.File, rows []Row, opts Options) ([]SheetReport, error) {
	styles, err := newStyleSet(f)
	if err != nil {
		return nil, err
	}

	var reports []SheetReport
	for _, name := range f.GetSheetList() {
		report, err := populateSheet(f, name, rows, styles, opts)
		if err != nil {
			return reports, fmt.Errorf("sheet %q: %w", name, err)
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func populateSheet(f *excelize.File, name string, rows []Row, styles *styleSet, opts Options) (SheetReport, error) {
	headers, cols, err := readHeaders(f, name)
	if err != nil {
		return SheetReport{}, err
	}
	if err := clearBelowHeader(f, name); err != nil {
		return SheetReport{}, err
	}

	report := SheetReport{Name: name}
	for _, h := range headers {
		report.Templates = append(report.Templates, h.template)
	}

	var w widths
	for col, text := range cols {
		w.observe(col+1, text)
	}

	for i, row := range rows {
		index := i + 2
		for _, h := range headers {
			text := template.Substitute(h.template, row.Context, opts.Dictionary)
			cell, err := excelize.CoordinatesToCellName(h.col, index)
			if err != nil {
				return report, err
			}
			if err := f.SetCellStr(name, cell, text); err != nil {
				return report, fmt.Errorf("writing %s: %w", cell, err)
			}
			w.observe(h.col, text)
		}
		if err := styleRow(f, name, index, len(cols), styles.row(index, row.Topic)); err != nil {
			return report, fmt.Errorf("styling row %d: %w", index, err)
		}
		report.Rows++
		if opts.Progress != nil {
			opts.Progress(name, i+1, len(rows))
		}
	}

	if err := finish(f, name, styles, w, opts.MaxWidth); err != nil {
		return report, err
	}
	return report, nil
}

// readHeaders returns the string cells of row 1 as templates, together with
// the displayed text of every row 1 cell.
func readHeaders(f *excelize.File, sheet string) ([]header, []string, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("reading header row: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, nil
	}

	var headers []header
	for i, text := range rows[0] {
		if text == "" {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, nil, err
		}
		typ, err := f.GetCellType(sheet, cell)
		if err != nil {
			return nil, nil, fmt.Errorf("reading type of %s: %w", cell, err)
		}
		if typ != excelize.CellTypeSharedString && typ != excelize.CellTypeInlineString {
			continue
		}
		raw, err := f.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, nil, fmt.Errorf("reading %s: %w", cell, err)
		}
		headers = append(headers, header{col: i + 1, template: raw})
	}
	return headers, rows[0], nil
}

// clearBelowHeader removes every row after row 1, including rows that only
// carry formatting.
func clearBelowHeader(f *excelize.File, sheet string) error {
	last, err := lastRow(f, sheet)
	if err != nil {
		return err
	}
	for row := last; row >= 2; row-- {
		if err := f.RemoveRow(sheet, row); err != nil {
			return fmt.Errorf("removing row %d: %w", row, err)
		}
	}
	return nil
}

func lastRow(f *excelize.File, sheet string) (int, error) {
	rows, err := f.Rows(sheet)
	if err != nil {
		return 0, fmt.Errorf("scanning rows: %w", err)
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		n++
	}
	return n, rows.Error()
}
