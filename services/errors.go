package services

import (
	"fmt"
	"strings"
)

// DocumentOpenError reports a source file that could not be opened at all
// (corrupt bytes, wrong format). Fatal for the current operation.
type DocumentOpenError struct {
	Format string
	Err    error
}

func (e *DocumentOpenError) Error() string {
	return fmt.Sprintf("cannot open %s document: %v", e.Format, e.Err)
}

func (e *DocumentOpenError) Unwrap() error { return e.Err }

// ExtractionEmptyError reports that the requested page/sheet range yielded no
// usable rows. The caller should ask the user to widen the range or check the
// file.
type ExtractionEmptyError struct {
	Start int
	End   int
}

func (e *ExtractionEmptyError) Error() string {
	return fmt.Sprintf("no rows extracted from range %d-%d", e.Start, e.End)
}

// SchemaError reports required BOQ columns that are still absent after header
// normalization. The matching run must not proceed.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("BOQ is missing required columns: %s", strings.Join(e.Missing, ", "))
}

// ErrNoPriceList is returned when matching is attempted against an empty or
// absent SOR snapshot. Distinct from "all rows unmatched".
var ErrNoPriceList = fmt.Errorf("no price list loaded: save a SOR snapshot before matching")
