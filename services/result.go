package services

// ResultColumns is the output table header, in contract order: code, the
// uploaded BOQ description, quantity, then the resolved unit, rate and total.
var ResultColumns = []string{
	"USOR Code",
	"Description of Work",
	"Qty",
	"Unit",
	"Rate (Excl. GST)",
	"Total Amount",
}

// MatchSummary holds the per-run counts required for status reporting.
type MatchSummary struct {
	TotalLines   int `json:"total_lines"`
	ExactMatched int `json:"exact_matched"`
	FuzzyMatched int `json:"fuzzy_matched"`
	Unmatched    int `json:"unmatched"`
}

// MatchResult is the assembled output of one matching run.
type MatchResult struct {
	Lines   []MatchedLine `json:"lines"`
	Summary MatchSummary  `json:"summary"`
	// RejectedRows counts BOQ rows excluded before matching because their
	// quantity failed to parse.
	RejectedRows int `json:"rejected_rows"`
}

// BuildMatchResult assembles matched lines into the final result with its
// summary counts.
func BuildMatchResult(lines []MatchedLine, rejectedRows int) MatchResult {
	result := MatchResult{
		Lines:        lines,
		RejectedRows: rejectedRows,
	}
	result.Summary.TotalLines = len(lines)
	for _, l := range lines {
		switch l.Method {
		case MatchExact:
			result.Summary.ExactMatched++
		case MatchFuzzy:
			result.Summary.FuzzyMatched++
		default:
			result.Summary.Unmatched++
		}
	}
	return result
}

// TableRows renders the result as one row of display values per line, in
// ResultColumns order. Unresolved rates and totals render as empty cells,
// never as zero.
func (r MatchResult) TableRows() [][]string {
	rows := make([][]string, 0, len(r.Lines))
	for _, l := range r.Lines {
		rows = append(rows, []string{
			l.Code,
			l.BoqDescription,
			FormatQty(l.Quantity),
			l.Unit,
			FormatAmount(l.Rate),
			FormatAmount(l.TotalAmount),
		})
	}
	return rows
}

// GrandTotal sums the resolved line totals. Unmatched lines contribute
// nothing.
func (r MatchResult) GrandTotal() float64 {
	var sum float64
	for _, l := range r.Lines {
		if l.TotalAmount != nil {
			sum += *l.TotalAmount
		}
	}
	return sum
}
