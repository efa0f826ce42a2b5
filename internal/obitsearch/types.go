package obitsearch

import "encoding/json"

// Name is one obituary name record as returned by the search service.
type Name struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	MiddleName string `json:"middleName,omitempty"`
	NickName   string `json:"nickName,omitempty"`
	MaidenName string `json:"maidenName,omitempty"`
}

// Entry is one obituary notice returned for a search.
type Entry struct {
	ID          string `json:"id"`
	Name        Name   `json:"name"`
	ObituaryURL string `json:"obituaryUrl"`
}

// Result is the outcome of one candidate search. Zero entries is a valid,
// non-error outcome. FailedOpen marks results synthesized after exhausted
// transient retries; they carry no entries and must be treated as "nothing
// found" rather than as an error.
type Result struct {
	TotalRecordCount int
	Entries          []Entry
	FailedOpen       bool
}

type searchResponse struct {
	TotalRecordCount int            `json:"totalRecordCount"`
	SearchResults    []searchResult `json:"searchResults"`
}

type searchResult struct {
	ID    json.Number `json:"id"`
	Name  Name        `json:"name"`
	Links struct {
		ObituaryURL struct {
			Href string `json:"href"`
		} `json:"obituaryUrl"`
	} `json:"links"`
}

func (r searchResult) entry() Entry {
	return Entry{
		ID:          r.ID.String(),
		Name:        r.Name,
		ObituaryURL: r.Links.ObituaryURL.Href,
	}
}
