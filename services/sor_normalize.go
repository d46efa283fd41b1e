package services

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// sorCodeRe gates every SOR row: records are identified by a code such as
	// "R101-A" at the start of the first cell (or buffered line).
	sorCodeRe = regexp.MustCompile(`^R[0-9A-Za-z\-]+`)

	// tableTagRe strips "Table <n>" artifacts that grid extraction sometimes
	// leaves inside description cells.
	tableTagRe = regexp.MustCompile(`(?i)\btable\s*[0-9]+\b`)

	spaceRunRe = regexp.MustCompile(`\s+`)

	// unitRateRe recovers the trailing "<unit><rate>" pair from a buffered
	// record line produced by the PDF line-scan path.
	unitRateRe = regexp.MustCompile(`(Nos|Set|m|kg)\s*([0-9][0-9,]*(?:\.[0-9]+)?)$`)
)

// NormalizeSOR converts raw extracted rows into canonical SOR records,
// preserving input order. Rows whose first cell does not start with a valid
// code are dropped silently (table headers, page noise). Rows with a valid
// code but an unparseable rate are kept with a nil rate so the caller can
// report them as unresolved.
//
// One-cell rows are treated as buffered record lines (PDF line-scan mode);
// multi-cell rows as grid rows (one cell per column).
func NormalizeSOR(rows []RawRow) []SorRecord {
	records := make([]SorRecord, 0, len(rows))
	for _, row := range rows {
		var rec *SorRecord
		switch {
		case len(row.Cells) == 1:
			rec = parseSORLine(row.Cells[0])
		case len(row.Cells) >= 2:
			rec = parseSORCells(row.Cells)
		}
		if rec == nil {
			continue
		}
		rec.TableNo = row.Sheet
		records = append(records, *rec)
	}
	return records
}

// parseSORCells normalizes a grid-mode row: code, description, unit, rate in
// the first four cells.
func parseSORCells(cells []string) *SorRecord {
	first := strings.TrimSpace(cells[0])
	code := sorCodeRe.FindString(first)
	if code == "" {
		return nil
	}

	rec := &SorRecord{Code: code}
	if len(cells) > 1 {
		rec.Description = cleanDescription(cells[1])
	}
	if len(cells) > 2 {
		rec.Unit = strings.TrimSpace(cells[2])
	}
	if len(cells) > 3 {
		rec.Rate = parseRate(cells[3])
	}
	return rec
}

// parseSORLine normalizes a line-buffer-mode record: the code prefix, then
// free description text, then a trailing unit+rate pair. Without the trailing
// pair the whole remainder is description and the rate stays unresolved.
func parseSORLine(line string) *SorRecord {
	line = strings.TrimSpace(line)
	code := sorCodeRe.FindString(line)
	if code == "" {
		return nil
	}

	rest := line[len(code):]
	rec := &SorRecord{Code: code}

	if loc := unitRateRe.FindStringSubmatchIndex(rest); loc != nil {
		rec.Description = cleanDescription(rest[:loc[0]])
		rec.Unit = rest[loc[2]:loc[3]]
		rec.Rate = parseRate(rest[loc[4]:loc[5]])
	} else {
		rec.Description = cleanDescription(rest)
	}
	return rec
}

// cleanDescription removes table artifacts and collapses whitespace runs.
func cleanDescription(s string) string {
	s = tableTagRe.ReplaceAllString(s, " ")
	s = spaceRunRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// parseRate parses a decimal rate cell, tolerating thousands-separator
// commas. It returns nil for anything unparseable or negative; a missing
// rate must stay visible as unresolved rather than becoming a silent zero.
func parseRate(s string) *float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return nil
	}
	return &v
}

// CountUnresolvedRates reports how many records still have no parsed rate.
// Used for status reporting after an extraction preview.
func CountUnresolvedRates(records []SorRecord) int {
	n := 0
	for _, r := range records {
		if r.Rate == nil {
			n++
		}
	}
	return n
}
