// Package obitsearch queries the remote obituary search endpoint for one
// candidate at a time. The client paces requests with a shared token bucket
// and a randomized pre-request delay, retries transient failures with
// backoff, and classifies session-level failures (HTTP 403, challenge pages,
// exhausted 429 retries) as terminal so the caller can halt the whole run.
// Ordinary retry exhaustion fails open to an empty result instead.
package obitsearch
