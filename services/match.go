package services

import (
	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// DefaultMatchThreshold is the minimum 0-100 similarity score at which a
// fuzzy description match is adopted.
const DefaultMatchThreshold = 80

// Matcher resolves BOQ lines against a SOR snapshot. It is pure over its
// inputs: no state is kept between runs and the snapshot is never mutated.
type Matcher struct {
	Threshold int

	// scorer computes a 0-100 token-based similarity between two
	// descriptions. Swappable in tests.
	scorer func(a, b string) int
}

// NewMatcher returns a Matcher with the default confidence threshold and a
// token-set similarity scorer.
func NewMatcher() *Matcher {
	return &Matcher{
		Threshold: DefaultMatchThreshold,
		scorer: func(a, b string) int {
			return fuzzy.TokenSetRatio(a, b)
		},
	}
}

// Match produces one MatchedLine per BOQ line, preserving input order.
//
// Stage one joins each line's code against the snapshot by exact, case
// sensitive equality. Any line still without a resolved rate (no code match,
// or a code match whose record carries no rate) goes through the fuzzy
// fallback: the single highest-scoring snapshot description wins if it
// reaches the threshold, with ties broken by snapshot storage order. Lines
// the fallback cannot place stay unmatched with a nil rate.
//
// Matching an empty snapshot is an error so callers can distinguish "nothing
// to match against" from "nothing matched".
func (m *Matcher) Match(sor []SorRecord, lines []BoqLine) ([]MatchedLine, error) {
	if len(sor) == 0 {
		return nil, ErrNoPriceList
	}

	byCode := make(map[string]int, len(sor))
	for i, rec := range sor {
		if _, ok := byCode[rec.Code]; !ok {
			byCode[rec.Code] = i
		}
	}

	out := make([]MatchedLine, 0, len(lines))
	for _, line := range lines {
		ml := MatchedLine{
			Code:           line.Code,
			BoqDescription: line.Description,
			Description:    line.Description,
			Quantity:       line.Quantity,
			Method:         MatchUnmatched,
		}

		if i, ok := byCode[line.Code]; ok && sor[i].Rate != nil {
			rec := sor[i]
			ml.Description = rec.Description
			ml.Unit = rec.Unit
			ml.Rate = rec.Rate
			ml.Method = MatchExact
		} else if best := m.bestCandidate(sor, line.Description); best >= 0 {
			rec := sor[best]
			ml.Description = rec.Description
			ml.Unit = rec.Unit
			ml.Rate = rec.Rate
			ml.Method = MatchFuzzy
		}

		if ml.Rate != nil {
			total := ml.Quantity * *ml.Rate
			ml.TotalAmount = &total
		}
		out = append(out, ml)
	}
	return out, nil
}

// bestCandidate returns the index of the highest-scoring snapshot record for
// the given description, or -1 if no candidate reaches the threshold. A
// strictly-greater comparison keeps the first record on equal scores, so
// repeated runs pick the same candidate.
func (m *Matcher) bestCandidate(sor []SorRecord, desc string) int {
	bestScore := -1
	bestIdx := -1
	for i, rec := range sor {
		score := m.scorer(desc, rec.Description)
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	if bestScore < m.Threshold {
		return -1
	}
	return bestIdx
}
