package sheet

import "errors"

// ErrFileLocked indicates the target workbook cannot be opened for writing,
// typically because a spreadsheet program holds it open.
var ErrFileLocked = errors.New("workbook is locked; close it and retry")
