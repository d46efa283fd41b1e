package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// buildTestWorkbook creates an in-memory workbook with two data sheets. No
// header rows: the SOR extraction contract treats row 0 as data.
func buildTestWorkbook(t *testing.T) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	first := f.GetSheetName(0)
	if err := f.SetSheetName(first, "Table 1"); err != nil {
		t.Fatalf("set sheet name: %v", err)
	}
	if _, err := f.NewSheet("Table 2"); err != nil {
		t.Fatalf("new sheet: %v", err)
	}

	rows1 := [][]any{
		{"R1", "Supply of cable", "m", "1,250"},
		{"", "", "", ""},
		{"R2", "Supply of pump", "Set", "4500"},
	}
	for i, row := range rows1 {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Table 1", cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}

	rows2 := [][]any{
		{"R3", "Earthing set", "Nos", "800"},
	}
	for i, row := range rows2 {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Table 2", cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func TestExtractSheetRows_AllSheets(t *testing.T) {
	book := buildTestWorkbook(t)

	rows, err := ExtractSheetRows(bytesReader(book), 1, 2)
	if err != nil {
		t.Fatalf("ExtractSheetRows() error = %v", err)
	}

	// The blank row is discarded; both sheets concatenate in order.
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].Cells[0] != "R1" || rows[2].Cells[0] != "R3" {
		t.Errorf("unexpected row order: %v", rows)
	}
	if rows[0].Sheet != "Table 1" {
		t.Errorf("rows[0].Sheet = %q, want 'Table 1'", rows[0].Sheet)
	}
	if rows[2].Sheet != "Table 2" {
		t.Errorf("rows[2].Sheet = %q, want 'Table 2'", rows[2].Sheet)
	}
}

func TestExtractSheetRows_SingleSheet(t *testing.T) {
	book := buildTestWorkbook(t)

	rows, err := ExtractSheetRows(bytesReader(book), 2, 2)
	if err != nil {
		t.Fatalf("ExtractSheetRows() error = %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Cells[0] != "R3" {
		t.Errorf("expected sheet 2 data, got %v", rows[0].Cells)
	}
}

func TestExtractSheetRows_OpenEndedRange(t *testing.T) {
	book := buildTestWorkbook(t)

	// Zero end means through the last sheet.
	rows, err := ExtractSheetRows(bytesReader(book), 1, 0)
	if err != nil {
		t.Fatalf("ExtractSheetRows() error = %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("expected 3 rows, got %d", len(rows))
	}
}

func TestExtractSheetRows_InvalidRange(t *testing.T) {
	book := buildTestWorkbook(t)

	if _, err := ExtractSheetRows(bytesReader(book), 5, 2); err == nil {
		t.Error("expected error for start past end")
	}
}

func TestExtractSheetRows_CorruptFile(t *testing.T) {
	_, err := ExtractSheetRows(strings.NewReader("not a workbook"), 1, 0)
	if err == nil {
		t.Fatal("expected error for corrupt file")
	}
	var openErr *DocumentOpenError
	if !errors.As(err, &openErr) {
		t.Errorf("expected *DocumentOpenError, got %T", err)
	}
}

func TestExtractSheetRows_FeedsNormalizer(t *testing.T) {
	book := buildTestWorkbook(t)

	rows, err := ExtractSheetRows(bytesReader(book), 1, 0)
	if err != nil {
		t.Fatalf("ExtractSheetRows() error = %v", err)
	}

	records := NormalizeSOR(rows)
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0].Rate == nil || *records[0].Rate != 1250 {
		t.Errorf("records[0].Rate = %v, want 1250", records[0].Rate)
	}
	if records[2].TableNo != "Table 2" {
		t.Errorf("records[2].TableNo = %q, want 'Table 2'", records[2].TableNo)
	}
}
