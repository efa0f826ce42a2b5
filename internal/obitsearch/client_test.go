package obitsearch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"
)

func testConfig(baseURL string) Config {
	return Config{
		BaseURL:       baseURL,
		CountryID:     1,
		RegionID:      41,
		StartDate:     "01-01-2023",
		EndDate:       "12-01-2025",
		Limit:         50,
		NoticeType:    "all",
		UserAgent:     "test-agent",
		Referer:       "https://example.com/search",
		MaxAttempts:   3,
		RateLimitBase: 30 * time.Second,
		TransientWait: 5 * time.Second,
	}
}

const sampleResponse = `{
	"totalRecordCount": 2,
	"searchResults": [
		{
			"id": 101,
			"name": {"firstName": "Mary", "lastName": "Jones", "maidenName": "Smith"},
			"links": {"obituaryUrl": {"href": "https://example.com/obit/101"}}
		},
		{
			"id": 102,
			"name": {"firstName": "Bob", "lastName": "Jones", "nickName": "Bobby"},
			"links": {"obituaryUrl": {"href": "https://example.com/obit/102"}}
		}
	]
}`

func TestSearchSuccess(t *testing.T) {
	var gotQuery atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery.Store(r.URL.Query())
		w.Write([]byte(sampleResponse))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	result, err := client.Search(context.Background(), "Mary", "Jones")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if result.TotalRecordCount != 2 || len(result.Entries) != 2 {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.FailedOpen {
		t.Fatal("successful search must not be marked fail-open")
	}
	if result.Entries[0].ID != "101" || result.Entries[0].Name.MaidenName != "Smith" {
		t.Fatalf("entry not parsed: %+v", result.Entries[0])
	}
	if result.Entries[0].ObituaryURL != "https://example.com/obit/101" {
		t.Fatalf("obituary url not parsed: %+v", result.Entries[0])
	}

	query := gotQuery.Load().(url.Values)
	for key, want := range map[string]string{
		"firstName":     "Mary",
		"lastName":      "Jones",
		"countryIdList": "1",
		"regionIdList":  "41",
		"limit":         "50",
		"noticeType":    "all",
		"startDate":     "01-01-2023",
		"endDate":       "12-01-2025",
	} {
		if got := query[key]; len(got) != 1 || got[0] != want {
			t.Fatalf("query %s = %v, want %q", key, got, want)
		}
	}
}

func TestSearchZeroResultsIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"totalRecordCount": 0, "searchResults": []}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	result, err := client.Search(context.Background(), "Alice", "Nobody")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(result.Entries) != 0 || result.FailedOpen {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestSearchRetriesAfterRateLimit(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"totalRecordCount": 0, "searchResults": []}`))
	}))
	defer server.Close()

	var slept []time.Duration
	client := NewClient(testConfig(server.URL), WithSleeper(func(d time.Duration) {
		slept = append(slept, d)
	}))
	result, err := client.Search(context.Background(), "Mary", "Jones")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if result.FailedOpen {
		t.Fatal("recovered search must not be fail-open")
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 requests, got %d", calls.Load())
	}
	if len(slept) != 1 || slept[0] != 30*time.Second {
		t.Fatalf("expected one 30s backoff sleep, got %v", slept)
	}
}

func TestSearchRateLimitBackoffDoubles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	var slept []time.Duration
	client := NewClient(testConfig(server.URL), WithSleeper(func(d time.Duration) {
		slept = append(slept, d)
	}))
	_, err := client.Search(context.Background(), "Mary", "Jones")
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	want := []time.Duration{30 * time.Second, 60 * time.Second}
	if len(slept) != len(want) {
		t.Fatalf("expected %d sleeps, got %v", len(want), slept)
	}
	for i := range want {
		if slept[i] != want[i] {
			t.Fatalf("sleep[%d] = %v, want %v", i, slept[i], want[i])
		}
	}
}

func TestSearchForbiddenIsTerminal(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), WithSleeper(func(time.Duration) {}))
	_, err := client.Search(context.Background(), "Mary", "Jones")
	if !errors.Is(err, ErrBlocked) {
		t.Fatalf("expected ErrBlocked, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("403 must not be retried, got %d requests", calls.Load())
	}
}

func TestSearchChallengePageIsTerminal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>Please solve this CAPTCHA to continue</html>`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	_, err := client.Search(context.Background(), "Mary", "Jones")
	if !errors.Is(err, ErrBlocked) {
		t.Fatalf("expected ErrBlocked for challenge body, got %v", err)
	}
}

func TestSearchFailsOpenOnPersistentServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	var slept []time.Duration
	client := NewClient(testConfig(server.URL), WithSleeper(func(d time.Duration) {
		slept = append(slept, d)
	}))
	result, err := client.Search(context.Background(), "Mary", "Jones")
	if err != nil {
		t.Fatalf("persistent 5xx must fail open, got error %v", err)
	}
	if !result.FailedOpen {
		t.Fatalf("expected fail-open result, got %+v", result)
	}
	if len(result.Entries) != 0 {
		t.Fatalf("fail-open result must carry no entries, got %+v", result)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls.Load())
	}
	for _, d := range slept {
		if d != 5*time.Second {
			t.Fatalf("transient retries use the fixed wait, got %v", slept)
		}
	}
}

func TestSearchRequiresNames(t *testing.T) {
	client := NewClient(testConfig("http://unused.invalid"))
	if _, err := client.Search(context.Background(), "", "Jones"); err == nil {
		t.Fatal("expected error for empty first name")
	}
	if _, err := client.Search(context.Background(), "Mary", " "); err == nil {
		t.Fatal("expected error for empty last name")
	}
}

func TestSearchHonorsCancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	client := NewClient(testConfig(server.URL), WithSleeper(func(time.Duration) { cancel() }))
	_, err := client.Search(ctx, "Mary", "Jones")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}
