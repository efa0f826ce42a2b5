package scheduler

import (
	"encoding/json"
	"strconv"

	"obitcheck/internal/names"
	"obitcheck/internal/obitsearch"
)

// Removal reasons recorded in the removed output stream.
const (
	ReasonNoResults       = "no obituaries found"
	ReasonNoMatchingNames = "no matching obituary names found"
)

// Augmentation columns appended to the input schema by each output stream.
const (
	ColumnMatchedObituaries = "matched_obituaries"
	ColumnTotalMatches      = "total_matches"
	ColumnTotalFound        = "total_obituaries_found"
	ColumnRemovalReason     = "removal_reason"
)

// KeptColumns returns the column order of the kept output stream.
func KeptColumns(header []string) []string {
	return append(append([]string(nil), header...), ColumnMatchedObituaries, ColumnTotalMatches, ColumnTotalFound)
}

// RemovedColumns returns the column order of the removed output stream.
func RemovedColumns(header []string) []string {
	return append(append([]string(nil), header...), ColumnRemovalReason, ColumnMatchedObituaries, ColumnTotalFound)
}

// EntryVerdict pairs one obituary entry with its match decision.
type EntryVerdict struct {
	Entry    obitsearch.Entry
	Decision names.Decision
}

// SearchOutcome is the fully evaluated result set for one candidate.
type SearchOutcome struct {
	Candidate  Candidate
	FailedOpen bool
	TotalFound int
	Matched    []EntryVerdict
	Unmatched  []EntryVerdict
}

// PartitionedRow is one output row routed to the kept or removed stream.
type PartitionedRow struct {
	Kept   bool
	Fields map[string]string
}

type entryPayload struct {
	Name        obitsearch.Name `json:"name"`
	ID          string          `json:"id"`
	ObituaryURL string          `json:"obituaryUrl"`
	MatchReason string          `json:"match_reason"`
	IsMatch     bool            `json:"is_match"`
}

// Partition classifies one outcome. A candidate is kept when at least one
// obituary name matched; otherwise it is removed with a machine-readable
// reason, and the unmatched entries travel with the removed row for audit.
func Partition(outcome SearchOutcome) PartitionedRow {
	fields := make(map[string]string, len(outcome.Candidate.Row.Fields)+4)
	for column, value := range outcome.Candidate.Row.Fields {
		fields[column] = value
	}

	if len(outcome.Matched) > 0 {
		fields[ColumnMatchedObituaries] = marshalVerdicts(outcome.Matched)
		fields[ColumnTotalMatches] = strconv.Itoa(len(outcome.Matched))
		fields[ColumnTotalFound] = strconv.Itoa(outcome.TotalFound)
		return PartitionedRow{Kept: true, Fields: fields}
	}

	if outcome.TotalFound == 0 {
		fields[ColumnRemovalReason] = ReasonNoResults
		fields[ColumnMatchedObituaries] = "[]"
	} else {
		fields[ColumnRemovalReason] = ReasonNoMatchingNames
		fields[ColumnMatchedObituaries] = marshalVerdicts(outcome.Unmatched)
	}
	fields[ColumnTotalFound] = strconv.Itoa(outcome.TotalFound)
	return PartitionedRow{Kept: false, Fields: fields}
}

func marshalVerdicts(verdicts []EntryVerdict) string {
	payload := make([]entryPayload, 0, len(verdicts))
	for _, v := range verdicts {
		payload = append(payload, entryPayload{
			Name:        v.Entry.Name,
			ID:          v.Entry.ID,
			ObituaryURL: v.Entry.ObituaryURL,
			MatchReason: v.Decision.Reason,
			IsMatch:     v.Decision.Match,
		})
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "[]"
	}
	return string(data)
}
