package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrInvalidSpreadsheet is returned when a workbook cannot be opened or read.
	ErrInvalidSpreadsheet = errors.New("invalid spreadsheet")

	// ErrSheetNotFound is returned when the requested sheet does not exist.
	ErrSheetNotFound = errors.New("sheet not found")
)
