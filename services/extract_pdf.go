package services

import (
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	// minGridColumns is the column count a text row must split into before the
	// page is trusted as a real table grid (code, description, unit, rate).
	minGridColumns = 4

	// cellGapPt is the horizontal whitespace, in points, that separates two
	// table columns. Smaller gaps are treated as word spacing inside a cell.
	cellGapPt = 18.0

	// wordGapPt is the fragment gap above which a space is inserted when
	// joining text fragments into one cell.
	wordGapPt = 1.0
)

// PDFPageCount reports the number of pages in a PDF so callers can present a
// valid page range before extraction.
func PDFPageCount(src io.ReaderAt, size int64) (int, error) {
	reader, err := pdf.NewReader(src, size)
	if err != nil {
		return 0, &DocumentOpenError{Format: "pdf", Err: err}
	}
	return reader.NumPage(), nil
}

// ExtractPDFRows pulls raw rows from the given 1-based inclusive page range.
// An end page of zero (or past the document) means through the last page.
//
// Each page is first read as positioned text rows. When a page's rows split
// cleanly into table columns (by horizontal gaps) and carry SOR codes, the
// page contributes grid rows with one cell per column. Otherwise the page
// falls back to a line scan: a new record starts at every line with a code
// prefix and subsequent lines are joined into that record's buffer, which
// keeps multi-line descriptions together. Line-scan records are emitted as
// single-cell rows for the normalizer's line-buffer mode.
func ExtractPDFRows(src io.ReaderAt, size int64, startPage, endPage int) ([]RawRow, error) {
	reader, err := pdf.NewReader(src, size)
	if err != nil {
		return nil, &DocumentOpenError{Format: "pdf", Err: err}
	}

	total := reader.NumPage()
	if startPage < 1 {
		startPage = 1
	}
	if endPage < 1 || endPage > total {
		endPage = total
	}
	if startPage > endPage {
		return nil, fmt.Errorf("invalid page range: start %d is after end %d", startPage, endPage)
	}

	var rows []RawRow
	for p := startPage; p <= endPage; p++ {
		page := reader.Page(p)
		if page.V.IsNull() {
			continue
		}
		textRows, err := page.GetTextByRow()
		if err != nil {
			continue
		}

		var grid []RawRow
		var lines []string
		gridUsable := false
		for _, tr := range textRows {
			cells := splitRowCells(tr.Content)
			if len(cells) == 0 {
				continue
			}
			grid = append(grid, RawRow{Cells: cells})
			lines = append(lines, strings.Join(cells, " "))
			if len(cells) >= minGridColumns && sorCodeRe.MatchString(cells[0]) {
				gridUsable = true
			}
		}

		if gridUsable {
			rows = append(rows, grid...)
		} else {
			rows = append(rows, scanRecordLines(lines)...)
		}
	}

	rows = dropEmptyRows(rows)
	if len(rows) == 0 {
		return nil, &ExtractionEmptyError{Start: startPage, End: endPage}
	}
	return rows, nil
}

// splitRowCells joins positioned text fragments into cells, starting a new
// cell whenever the horizontal gap to the previous fragment exceeds the
// column threshold.
func splitRowCells(fragments pdf.TextHorizontal) []string {
	var cells []string
	var cur strings.Builder
	var prevEnd float64

	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			cells = append(cells, s)
		}
		cur.Reset()
	}

	for i, f := range fragments {
		if i > 0 {
			gap := f.X - prevEnd
			if gap > cellGapPt {
				flush()
			} else if gap > wordGapPt {
				cur.WriteByte(' ')
			}
		}
		cur.WriteString(f.S)
		prevEnd = f.X + f.W
	}
	flush()
	return cells
}

// scanRecordLines buffers free text lines into records: a line starting with
// a SOR code opens a new record, every following non-code line is appended to
// its description buffer. Lines before the first code line are discarded.
func scanRecordLines(lines []string) []RawRow {
	var rows []RawRow
	var buf strings.Builder

	flush := func() {
		if buf.Len() > 0 {
			rows = append(rows, RawRow{Cells: []string{buf.String()}})
			buf.Reset()
		}
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if sorCodeRe.MatchString(line) {
			flush()
			buf.WriteString(line)
		} else if buf.Len() > 0 {
			buf.WriteByte(' ')
			buf.WriteString(line)
		}
	}
	flush()
	return rows
}

// dropEmptyRows removes rows whose cells are all empty or whitespace.
func dropEmptyRows(rows []RawRow) []RawRow {
	kept := rows[:0]
	for _, row := range rows {
		for _, c := range row.Cells {
			if strings.TrimSpace(c) != "" {
				kept = append(kept, row)
				break
			}
		}
	}
	return kept
}
