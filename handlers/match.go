package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sormatch/services"
)

// runMatch executes one full matching run: parse the uploaded BOQ, normalize
// it, load the persisted SOR snapshot and match. BOQ lines live only for the
// duration of the run; nothing is persisted.
func runMatch(app *pocketbase.PocketBase, src io.Reader, fileName string) (services.MatchResult, error) {
	headers, rows, err := services.ParseBOQFile(src, fileName)
	if err != nil {
		return services.MatchResult{}, err
	}

	parsed, err := services.NormalizeBOQ(headers, rows)
	if err != nil {
		return services.MatchResult{}, err
	}

	sor, err := services.ReadSorSnapshot(app)
	if err != nil {
		return services.MatchResult{}, err
	}

	lines, err := services.NewMatcher().Match(sor, parsed.Lines)
	if err != nil {
		return services.MatchResult{}, err
	}

	return services.BuildMatchResult(lines, parsed.RejectedRows), nil
}

// HandleMatch returns a handler that runs SOR-BOQ matching on an uploaded
// BOQ file and responds with the valued table and summary counts.
func HandleMatch(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return e.String(http.StatusBadRequest, "Missing file upload")
		}
		defer file.Close()

		result, err := runMatch(app, file, header.Filename)
		if err != nil {
			log.Printf("match: %v", err)
			return e.String(matchStatus(err), err.Error())
		}
		return e.JSON(http.StatusOK, result)
	}
}

// matchStatus maps pipeline failures to HTTP statuses. Precondition problems
// with the uploaded file are client errors; a missing price list is a
// conflict with server state; anything else is internal.
func matchStatus(err error) int {
	var schemaErr *services.SchemaError
	var openErr *services.DocumentOpenError
	switch {
	case errors.As(err, &schemaErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &openErr):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNoPriceList):
		return http.StatusConflict
	default:
		// Remaining failures (unsupported extension, truncated files) are
		// upload problems too.
		return http.StatusBadRequest
	}
}

// extractStatus maps extraction failures to HTTP statuses.
func extractStatus(err error) int {
	var openErr *services.DocumentOpenError
	var emptyErr *services.ExtractionEmptyError
	switch {
	case errors.As(err, &openErr):
		return http.StatusBadRequest
	case errors.As(err, &emptyErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}
