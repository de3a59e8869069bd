package generation

import (
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"
)

// SpreadsheetOptions controls how a workbook is read.
type SpreadsheetOptions struct {
	// Sheet is the sheet to read; empty selects the first sheet.
	Sheet string
	// IncludeHeader treats the first row as data instead of a header.
	IncludeHeader bool
}

// ParseSpreadsheet reads card drafts from an .xlsx workbook with the front in
// column A and the back in column B. Rows that do not yield a valid card are
// reported in Result.Skipped using their one-based row number.
func ParseSpreadsheet(r io.Reader, opts SpreadsheetOptions) (Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidSpreadsheet, err)
	}
	defer func() { _ = f.Close() }()

	sheet := opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return Result{}, fmt.Errorf("%w: workbook has no sheets", ErrInvalidSpreadsheet)
		}
		sheet = sheets[0]
	} else if !lo.Contains(f.GetSheetList(), sheet) {
		return Result{}, fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return Result{}, fmt.Errorf("%w: reading sheet %s: %v", ErrInvalidSpreadsheet, sheet, err)
	}

	var res Result
	for i, row := range rows {
		if i == 0 && !opts.IncludeHeader {
			continue
		}
		rowNum := i + 1

		if len(row) < 2 {
			if lo.EveryBy(row, func(c string) bool { return strings.TrimSpace(c) == "" }) {
				// Blank rows are ignored entirely.
				continue
			}
			res.Skipped = append(res.Skipped, Skipped{Index: rowNum, Reason: ReasonNoBack})
			continue
		}

		draft, reason := newDraft(row[0], row[1])
		if reason != "" {
			res.Skipped = append(res.Skipped, Skipped{Index: rowNum, Reason: reason})
			continue
		}
		res.Drafts = append(res.Drafts, draft)
	}

	return res, nil
}
