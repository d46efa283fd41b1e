package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// GenerateMatchExcel renders a matching run as a downloadable XLSX workbook:
// the six-column matched table, then the summary counts required for status
// reporting. Returns the file contents as a byte slice.
func GenerateMatchExcel(result MatchResult) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "SOR_BOQ_Match"
	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	columns := []string{"A", "B", "C", "D", "E", "F"}
	lastCol := columns[len(columns)-1]

	widths := []float64{14, 50, 10, 10, 18, 18}
	for i, col := range columns {
		if err := f.SetColWidth(sheetName, col, col, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	// Column header style: bold, white text, charcoal background, centered.
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:  true,
			Color: "#FFFFFF",
			Size:  11,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#333333"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	rowStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create row style: %w", err)
	}

	// Unmatched rows get a light red fill so they stand out for manual
	// pricing.
	unmatchedStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 10},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#FDE8E8"},
			Pattern: 1,
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create unmatched style: %w", err)
	}

	summaryLabelStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{
			Horizontal: "right",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary label style: %w", err)
	}

	summaryValueStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary value style: %w", err)
	}

	// Header row.
	for i, h := range ResultColumns {
		f.SetCellValue(sheetName, fmt.Sprintf("%s1", columns[i]), h)
	}
	f.SetCellStyle(sheetName, "A1", lastCol+"1", headerStyle)

	// Data rows.
	row := 2
	for _, l := range result.Lines {
		rowStr := fmt.Sprintf("%d", row)

		f.SetCellValue(sheetName, "A"+rowStr, sanitizeExcelCell(l.Code))
		f.SetCellValue(sheetName, "B"+rowStr, sanitizeExcelCell(l.BoqDescription))
		f.SetCellValue(sheetName, "C"+rowStr, l.Quantity)
		f.SetCellValue(sheetName, "D"+rowStr, sanitizeExcelCell(l.Unit))
		if l.Rate != nil {
			f.SetCellValue(sheetName, "E"+rowStr, *l.Rate)
		}
		if l.TotalAmount != nil {
			f.SetCellValue(sheetName, "F"+rowStr, *l.TotalAmount)
		}

		style := rowStyle
		if l.Method == MatchUnmatched {
			style = unmatchedStyle
		}
		f.SetCellStyle(sheetName, "A"+rowStr, lastCol+rowStr, style)
		row++
	}

	// Grand total.
	totalRow := fmt.Sprintf("%d", row)
	f.SetCellValue(sheetName, "E"+totalRow, "Grand Total:")
	f.SetCellStyle(sheetName, "E"+totalRow, "E"+totalRow, summaryLabelStyle)
	f.SetCellValue(sheetName, "F"+totalRow, result.GrandTotal())
	f.SetCellStyle(sheetName, "F"+totalRow, "F"+totalRow, summaryValueStyle)
	row += 2

	// Summary counts.
	summary := []struct {
		label string
		value int
	}{
		{"Total lines:", result.Summary.TotalLines},
		{"Exact matched:", result.Summary.ExactMatched},
		{"Fuzzy matched:", result.Summary.FuzzyMatched},
		{"Unmatched:", result.Summary.Unmatched},
		{"Rejected rows:", result.RejectedRows},
	}
	for _, s := range summary {
		rowStr := fmt.Sprintf("%d", row)
		f.SetCellValue(sheetName, "A"+rowStr, s.label)
		f.SetCellStyle(sheetName, "A"+rowStr, "A"+rowStr, summaryLabelStyle)
		f.SetCellValue(sheetName, "B"+rowStr, s.value)
		f.SetCellStyle(sheetName, "B"+rowStr, "B"+rowStr, summaryValueStyle)
		row++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +,
// -, @, \t or \r as formulas, which can be abused for code execution or data
// theft.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns a slice of excelize.Border for thin borders on all four
// sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}
