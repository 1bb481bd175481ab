package sheet

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// DefaultSheet and DefaultHeader seed a workbook created from scratch.
const (
	DefaultSheet  = "Лист1"
	DefaultHeader = "{Инфо}"
)

// CheckWritable fails with ErrFileLocked when path exists but cannot be
// opened for appending. A missing path is writable.
func CheckWritable(path string) error {
	fh, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrFileLocked, path, err)
	}
	return fh.Close()
}

// OpenOrCreate opens the workbook at path. When path does not exist it returns
// a new workbook holding DefaultSheet with DefaultHeader in A1, and created
// is true.
func OpenOrCreate(path string) (f *excelize.File, created bool, err error) {
	if _, statErr := os.Stat(path); statErr == nil {
		f, err = excelize.OpenFile(path)
		if err != nil {
			return nil, false, fmt.Errorf("opening workbook %s: %w", path, err)
		}
		return f, false, nil
	} else if !errors.Is(statErr, fs.ErrNotExist) {
		return nil, false, fmt.Errorf("stat workbook %s: %w", path, statErr)
	}

	f = NewWorkbook(DefaultSheet)
	if err := f.SetCellStr(DefaultSheet, "A1", DefaultHeader); err != nil {
		_ = f.Close()
		return nil, false, fmt.Errorf("writing default header: %w", err)
	}
	return f, true, nil
}

// NewWorkbook returns an empty workbook whose only sheet is named first.
func NewWorkbook(first string) *excelize.File {
	f := excelize.NewFile()
	if first != "" && first != "Sheet1" {
		// Renaming the default sheet of a fresh workbook cannot fail.
		_ = f.SetSheetName("Sheet1", first)
	}
	return f
}

// Save writes f to path through a temporary file in the same directory, so
// the previous file survives a failed write.
func Save(f *excelize.File, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".fangen-*.xlsx")
	if err != nil {
		return fmt.Errorf("creating temp workbook: %w", err)
	}
	tmpName := tmp.Name()
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("creating temp workbook: %w", err)
	}

	if err := f.SaveAs(tmpName); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("saving workbook: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("saving workbook: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
