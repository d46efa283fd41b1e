package services

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ExtractSheetRows pulls raw rows from the given 1-based inclusive sheet
// range of a workbook; an end sheet of zero means through the last sheet.
// No header row is assumed: row 0 of every sheet is
// data. Each row is tagged with its source sheet name for provenance and all
// sheets are concatenated in order before normalization. Fully empty rows
// are discarded.
func ExtractSheetRows(src io.Reader, startSheet, endSheet int) ([]RawRow, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, &DocumentOpenError{Format: "xlsx", Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if startSheet < 1 {
		startSheet = 1
	}
	if endSheet < 1 || endSheet > len(sheets) {
		endSheet = len(sheets)
	}
	if startSheet > endSheet {
		return nil, fmt.Errorf("invalid sheet range: start %d is after end %d", startSheet, endSheet)
	}

	var rows []RawRow
	for i := startSheet; i <= endSheet; i++ {
		name := sheets[i-1]
		sheetRows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		for _, cells := range sheetRows {
			rows = append(rows, RawRow{Cells: cells, Sheet: name})
		}
	}

	rows = dropEmptyRows(rows)
	if len(rows) == 0 {
		return nil, &ExtractionEmptyError{Start: startSheet, End: endSheet}
	}
	return rows, nil
}
