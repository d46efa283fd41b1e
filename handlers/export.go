package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sormatch/services"
)

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	return s
}

// HandleMatchExportExcel returns a handler that runs matching on the uploaded
// BOQ and downloads the result as an XLSX workbook.
func HandleMatchExportExcel(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return e.String(http.StatusBadRequest, "Missing file upload")
		}
		defer file.Close()

		result, err := runMatch(app, file, header.Filename)
		if err != nil {
			log.Printf("match_export_excel: %v", err)
			return e.String(matchStatus(err), err.Error())
		}

		xlsxBytes, err := services.GenerateMatchExcel(result)
		if err != nil {
			log.Printf("match_export_excel: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate Excel file")
		}

		filename := fmt.Sprintf("SOR_BOQ_Matched_%s.xlsx", exportStamp(header.Filename))

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}

// HandleMatchExportPDF returns a handler that runs matching on the uploaded
// BOQ and downloads the result as a PDF report.
func HandleMatchExportPDF(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return e.String(http.StatusBadRequest, "Missing file upload")
		}
		defer file.Close()

		result, err := runMatch(app, file, header.Filename)
		if err != nil {
			log.Printf("match_export_pdf: %v", err)
			return e.String(matchStatus(err), err.Error())
		}

		pdfBytes, err := services.GenerateMatchPDF(result)
		if err != nil {
			log.Printf("match_export_pdf: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate PDF file")
		}

		filename := fmt.Sprintf("SOR_BOQ_Matched_%s.pdf", exportStamp(header.Filename))

		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(pdfBytes)
		return nil
	}
}

// exportStamp builds a filename fragment from the uploaded name (without its
// extension) and the current year.
func exportStamp(uploadName string) string {
	base := uploadName
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	return fmt.Sprintf("%s_%d", sanitizeFilename(base), time.Now().Year())
}
