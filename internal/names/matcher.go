package names

import (
	"fmt"
	"strings"
)

// Record is one obituary name record as returned by the search service.
type Record struct {
	FirstName  string
	LastName   string
	MiddleName string
	NickName   string
	MaidenName string
}

// Decision reports whether a candidate matches a record, with a
// human-readable reason kept for audit output. The reason never drives
// control flow.
type Decision struct {
	Match  bool
	Reason string
}

// Match decides whether the candidate (first, last) plausibly refers to the
// same person as the obituary record. Strategies are tried in priority order
// and the first success determines the recorded reason: exact name, middle
// name as first name, nickname as first name, maiden name as last name.
func Match(candidateFirst, candidateLast string, record Record) Decision {
	candidates := Variations(candidateFirst, candidateLast)
	if len(candidates) == 0 {
		return noMatch(candidateFirst, candidateLast, record)
	}

	if v, ok := intersect(candidates, Variations(record.FirstName, record.LastName)); ok {
		return Decision{Match: true, Reason: fmt.Sprintf("exact match: %s %s", v.First, v.Last)}
	}
	if strings.TrimSpace(record.MiddleName) != "" {
		if v, ok := intersect(candidates, Variations(record.MiddleName, record.LastName)); ok {
			return Decision{Match: true, Reason: fmt.Sprintf("middle name match: %s %s", v.First, v.Last)}
		}
	}
	if strings.TrimSpace(record.NickName) != "" {
		if v, ok := intersect(candidates, Variations(record.NickName, record.LastName)); ok {
			return Decision{Match: true, Reason: fmt.Sprintf("nickname match: %s %s", v.First, v.Last)}
		}
	}
	if strings.TrimSpace(record.MaidenName) != "" {
		if v, ok := intersect(candidates, Variations(record.FirstName, record.MaidenName)); ok {
			return Decision{Match: true, Reason: fmt.Sprintf("maiden name match: %s %s", v.First, v.Last)}
		}
	}

	return noMatch(candidateFirst, candidateLast, record)
}

func noMatch(candidateFirst, candidateLast string, record Record) Decision {
	return Decision{
		Match: false,
		Reason: fmt.Sprintf("no match found: candidate %s %s, obituary %s %s",
			candidateFirst, candidateLast, record.FirstName, record.LastName),
	}
}

func intersect(candidates, records []Variant) (Variant, bool) {
	if len(records) == 0 {
		return Variant{}, false
	}
	index := make(map[Variant]struct{}, len(records))
	for _, v := range records {
		index[v] = struct{}{}
	}
	for _, v := range candidates {
		if _, ok := index[v]; ok {
			return v, true
		}
	}
	return Variant{}, false
}
