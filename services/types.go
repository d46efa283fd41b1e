// Package services implements the SOR-BOQ reconciliation pipeline: table
// extraction from PDF/XLSX sources, normalization into canonical records,
// exact+fuzzy matching of BOQ lines against the stored rate schedule, and
// result assembly for export.
package services

// RawRow is a single row of cell text pulled out of a source document before
// any normalization. PDF line-scan extraction produces one-cell rows (the
// whole buffered record line); grid extraction produces one cell per column.
type RawRow struct {
	Cells []string
	// Sheet is the originating sheet name for spreadsheet sources, empty for
	// PDF pages.
	Sheet string
}

// SorRecord is one canonical Schedule of Rates entry.
type SorRecord struct {
	Code        string   `json:"code"`
	Description string   `json:"description"`
	Unit        string   `json:"unit"`
	// Rate is nil when the source cell could not be parsed as a number. A nil
	// rate is never persisted as zero.
	Rate    *float64 `json:"rate"`
	TableNo string   `json:"table_no,omitempty"`
}

// BoqLine is one normalized Bill of Quantities line item.
type BoqLine struct {
	Code        string  `json:"code"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
}

// MatchMethod records how a BOQ line was resolved against the SOR set.
type MatchMethod string

const (
	MatchExact     MatchMethod = "exact"
	MatchFuzzy     MatchMethod = "fuzzy"
	MatchUnmatched MatchMethod = "unmatched"
)

// MatchedLine is the per-line output of a matching run. BoqDescription keeps
// the uploaded line's own wording; Description carries the resolved SOR
// wording when a match was found.
type MatchedLine struct {
	Code           string      `json:"code"`
	BoqDescription string      `json:"boq_description"`
	Description    string      `json:"description"`
	Quantity       float64     `json:"quantity"`
	Unit           string      `json:"unit"`
	Rate           *float64    `json:"rate"`
	TotalAmount    *float64    `json:"total_amount"`
	Method         MatchMethod `json:"match_method"`
}
