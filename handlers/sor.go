// Package handlers exposes the matching pipeline over the PocketBase router:
// SOR snapshot extraction and replacement, BOQ matching runs, and result
// downloads. Handlers stay thin; all reconciliation logic lives in services.
package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sormatch/services"
)

// sorExtractResponse is the preview returned before a snapshot save.
type sorExtractResponse struct {
	Records         []services.SorRecord `json:"records"`
	Total           int                  `json:"total"`
	UnresolvedRates int                  `json:"unresolved_rates"`
}

// HandleSORPageCount returns a handler that reports the page count of an
// uploaded SOR PDF, so the client can offer a valid page range.
func HandleSORPageCount(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return e.String(http.StatusBadRequest, "Missing file upload")
		}
		defer file.Close()

		pages, err := services.PDFPageCount(file, header.Size)
		if err != nil {
			log.Printf("sor_pages: %v", err)
			return e.String(http.StatusBadRequest, err.Error())
		}
		return e.JSON(http.StatusOK, map[string]int{"pages": pages})
	}
}

// HandleSORExtract returns a handler that extracts and normalizes SOR records
// from an uploaded PDF or XLSX, without persisting anything. The client
// reviews the preview and then posts it back to /sor/save.
func HandleSORExtract(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return e.String(http.StatusBadRequest, "Missing file upload")
		}
		defer file.Close()

		start := formInt(e, "start", 0)
		end := formInt(e, "end", 0)

		var rows []services.RawRow
		lower := strings.ToLower(header.Filename)
		switch {
		case strings.HasSuffix(lower, ".pdf"):
			rows, err = services.ExtractPDFRows(file, header.Size, start, end)
		case strings.HasSuffix(lower, ".xlsx"):
			rows, err = services.ExtractSheetRows(file, start, end)
		default:
			return e.String(http.StatusBadRequest, "Unsupported file format: must be .pdf or .xlsx")
		}
		if err != nil {
			log.Printf("sor_extract: %v", err)
			return e.String(extractStatus(err), err.Error())
		}

		records := services.NormalizeSOR(rows)
		if len(records) == 0 {
			return e.String(http.StatusUnprocessableEntity,
				"No SOR records found in the selected range: widen the range or check the file")
		}

		return e.JSON(http.StatusOK, sorExtractResponse{
			Records:         records,
			Total:           len(records),
			UnresolvedRates: services.CountUnresolvedRates(records),
		})
	}
}

// HandleSORSave returns a handler that replaces the persisted SOR snapshot
// with the posted records. The previous snapshot is discarded wholesale.
func HandleSORSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var payload struct {
			Records []services.SorRecord `json:"records"`
		}
		if err := e.BindBody(&payload); err != nil {
			return e.String(http.StatusBadRequest, "Invalid request body")
		}
		if len(payload.Records) == 0 {
			return e.String(http.StatusBadRequest, "No records to save")
		}

		if err := services.ReplaceSorSnapshot(app, payload.Records); err != nil {
			log.Printf("sor_save: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to save SOR snapshot")
		}

		saved, err := services.ReadSorSnapshot(app)
		if err != nil {
			log.Printf("sor_save: read back: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to read saved snapshot")
		}
		return e.JSON(http.StatusOK, map[string]int{"saved": len(saved)})
	}
}

// HandleSORList returns a handler that serves the current snapshot.
func HandleSORList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		records, err := services.ReadSorSnapshot(app)
		if err != nil {
			log.Printf("sor_list: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to read SOR snapshot")
		}
		return e.JSON(http.StatusOK, sorExtractResponse{
			Records:         records,
			Total:           len(records),
			UnresolvedRates: services.CountUnresolvedRates(records),
		})
	}
}

// formInt parses an integer form value, returning def when absent or invalid.
func formInt(e *core.RequestEvent, name string, def int) int {
	v := strings.TrimSpace(e.Request.FormValue(name))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
