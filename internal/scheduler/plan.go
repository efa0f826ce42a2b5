package scheduler

import (
	"unicode/utf8"

	"obitcheck/internal/checkpoint"
	"obitcheck/internal/records"
)

// Candidate is one eligible input row queued for an obituary search.
type Candidate struct {
	FirstName string
	LastName  string
	Row       records.Row
}

// PlanOptions control eligibility and resume filtering.
type PlanOptions struct {
	FirstNameColumn   string
	LastNameColumn    string
	ExpirationColumn  string
	MinExpirationYear int
	MinNameLength     int
}

// Plan applies the eligibility and resume filters, returning the candidates
// a run should process in input order. Pure: no I/O, no clock.
//
// A row is eligible when its expiration year parses and is at or past the
// cutoff, and both name fields have at least the minimum length. Rows below
// the checkpoint's last processed index were already handled by an earlier
// run and are skipped.
func Plan(rows []records.Row, state checkpoint.State, opts PlanOptions) []Candidate {
	candidates := make([]Candidate, 0, len(rows))
	for _, row := range rows {
		if row.Index < state.LastProcessedIndex {
			continue
		}
		year, ok := records.ExpirationYear(row.Field(opts.ExpirationColumn))
		if !ok || year < opts.MinExpirationYear {
			continue
		}
		first := row.Field(opts.FirstNameColumn)
		last := row.Field(opts.LastNameColumn)
		// Length is measured in characters, so one accented letter is still
		// one letter.
		if utf8.RuneCountInString(first) < opts.MinNameLength || utf8.RuneCountInString(last) < opts.MinNameLength {
			continue
		}
		candidates = append(candidates, Candidate{FirstName: first, LastName: last, Row: row})
	}
	return candidates
}

// slice into contiguous fixed-size batches preserving input order.
func batches(candidates []Candidate, size int) [][]Candidate {
	if size <= 0 {
		size = 1
	}
	out := make([][]Candidate, 0, (len(candidates)+size-1)/size)
	for start := 0; start < len(candidates); start += size {
		end := start + size
		if end > len(candidates) {
			end = len(candidates)
		}
		out = append(out, candidates[start:end])
	}
	return out
}
