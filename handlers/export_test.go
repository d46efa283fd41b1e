package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"sormatch/testhelpers"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Site BOQ 2026", "Site-BOQ-2026"},
		{"a/b\\c:d", "a-b-c-d"},
		{"already-clean", "already-clean"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.input); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestExportStamp(t *testing.T) {
	year := time.Now().Year()
	tests := []struct {
		input string
		want  string
	}{
		{"site_boq.csv", fmt.Sprintf("site_boq_%d", year)},
		{"Site BOQ.xlsx", fmt.Sprintf("Site-BOQ_%d", year)},
		{"no_extension", fmt.Sprintf("no_extension_%d", year)},
	}
	for _, tt := range tests {
		if got := exportStamp(tt.input); got != tt.want {
			t.Errorf("exportStamp(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestHandleMatchExportExcel_Success(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestSorItem(t, app, 1, "R1", "Supply of Cable", "Nos", testhelpers.Float(100))

	handler := HandleMatchExportExcel(app)

	req := newUploadRequest(t, "/match/export/excel", "site_boq.csv", []byte(testBoqCSV), nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	ct := rec.Header().Get("Content-Type")
	if ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("unexpected Content-Type: %q", ct)
	}
	cd := rec.Header().Get("Content-Disposition")
	if !strings.Contains(cd, "SOR_BOQ_Matched_site_boq_") || !strings.HasSuffix(cd, `.xlsx"`) {
		t.Errorf("unexpected Content-Disposition: %q", cd)
	}

	// Body is a real workbook.
	f, err := excelize.OpenReader(rec.Body)
	if err != nil {
		t.Fatalf("response body is not valid Excel: %v", err)
	}
	defer f.Close()
	if sheets := f.GetSheetList(); len(sheets) == 0 || sheets[0] != "SOR_BOQ_Match" {
		t.Errorf("expected sheet 'SOR_BOQ_Match', got %v", sheets)
	}
}

func TestHandleMatchExportExcel_NoPriceList(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleMatchExportExcel(app)

	req := newUploadRequest(t, "/match/export/excel", "site_boq.csv", []byte(testBoqCSV), nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 with empty snapshot, got %d", rec.Code)
	}
}

func TestHandleMatchExportPDF_Success(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestSorItem(t, app, 1, "R1", "Supply of Cable", "Nos", testhelpers.Float(100))

	handler := HandleMatchExportPDF(app)

	req := newUploadRequest(t, "/match/export/pdf", "site_boq.csv", []byte(testBoqCSV), nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("unexpected Content-Type: %q", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "%PDF-") {
		t.Error("response body does not start with PDF magic bytes")
	}
}
