package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// boqHeaderSynonyms maps normalized uploaded column names to canonical BOQ
// fields. Uploads come from many offices with slightly different templates,
// so the table is deliberately generous.
var boqHeaderSynonyms = map[string]string{
	"code":                "code",
	"usor code":           "code",
	"usorcode":            "code",
	"sor code":            "code",
	"item code":           "code",
	"description":         "description",
	"description of work": "description",
	"description of item": "description",
	"work description":    "description",
	"qty":                 "quantity",
	"quantity":            "quantity",
}

// boqRequiredFields must all be present after header normalization for a
// matching run to proceed.
var boqRequiredFields = []string{"code", "description", "quantity"}

// BoqParseResult carries the normalized lines plus the number of rows that
// were excluded because their quantity failed to parse.
type BoqParseResult struct {
	Lines        []BoqLine `json:"lines"`
	RejectedRows int       `json:"rejected_rows"`
}

// ParseBOQFile reads an uploaded BOQ file into a header row and data rows.
// The format is chosen by file extension; .csv and .xlsx are supported. The
// first row is the header, everything after it is data.
func ParseBOQFile(src io.Reader, fileName string) ([]string, [][]string, error) {
	lower := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(lower, ".csv"):
		return parseBOQCSV(src)
	case strings.HasSuffix(lower, ".xlsx"):
		return parseBOQExcel(src)
	default:
		return nil, nil, fmt.Errorf("unsupported BOQ format %q: must be .csv or .xlsx", fileName)
	}
}

func parseBOQCSV(src io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(src)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, &DocumentOpenError{Format: "csv", Err: err}
	}
	if len(allRows) < 2 {
		return nil, nil, fmt.Errorf("BOQ must contain a header row and at least one data row")
	}
	return allRows[0], allRows[1:], nil
}

func parseBOQExcel(src io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, nil, &DocumentOpenError{Format: "xlsx", Err: err}
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %q: %w", sheetName, err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("BOQ must contain a header row and at least one data row")
	}
	return rows[0], rows[1:], nil
}

// NormalizeBOQ maps uploaded headers to canonical fields and converts the
// data rows into ordered BOQ lines. It fails with a SchemaError naming every
// absent required field. Rows whose quantity does not parse as a non-negative
// number are excluded and counted, never zero-filled.
func NormalizeBOQ(headers []string, rows [][]string) (*BoqParseResult, error) {
	fieldByColumn := make([]string, len(headers))
	seen := make(map[string]bool)
	for i, h := range headers {
		norm := normalizeBOQHeader(h)
		if isSerialColumn(norm) {
			continue
		}
		field, ok := boqHeaderSynonyms[norm]
		if !ok || seen[field] {
			continue
		}
		fieldByColumn[i] = field
		seen[field] = true
	}

	var missing []string
	for _, f := range boqRequiredFields {
		if !seen[f] {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &SchemaError{Missing: missing}
	}

	result := &BoqParseResult{}
	for _, row := range rows {
		var line BoqLine
		var qtyRaw string
		for i, field := range fieldByColumn {
			if field == "" || i >= len(row) {
				continue
			}
			val := strings.TrimSpace(row[i])
			switch field {
			case "code":
				line.Code = val
			case "description":
				line.Description = val
			case "quantity":
				qtyRaw = val
			}
		}
		if line.Code == "" && line.Description == "" && qtyRaw == "" {
			continue
		}

		qty, ok := parseQuantity(qtyRaw)
		if !ok {
			result.RejectedRows++
			continue
		}
		line.Quantity = qty
		result.Lines = append(result.Lines, line)
	}
	return result, nil
}

// normalizeBOQHeader lower-cases, trims, strips "." and "/" and collapses
// internal whitespace so header variants compare equal.
func normalizeBOQHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, ".", "")
	h = strings.ReplaceAll(h, "/", "")
	h = strings.ReplaceAll(h, "_", " ")
	return spaceRunRe.ReplaceAllString(strings.TrimSpace(h), " ")
}

// isSerialColumn recognizes row-serial-number columns ("Sr No.", "Sl.No",
// "S.No" and friends), which carry no data and are dropped.
func isSerialColumn(norm string) bool {
	norm = strings.ReplaceAll(norm, " ", "")
	return strings.HasPrefix(norm, "sr") ||
		strings.HasPrefix(norm, "sl") ||
		strings.HasPrefix(norm, "sno")
}

// parseQuantity parses a non-negative decimal, tolerating thousands
// separators. ok is false for empty, unparseable or negative values.
func parseQuantity(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
