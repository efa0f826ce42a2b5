// Package checkpoint persists per-input-file progress so an interrupted run
// can resume where it stopped. One JSON document is kept per input file key;
// saves are atomic (write to temp, then rename) and loads never fail the
// caller; missing or unreadable state starts the run from scratch.
package checkpoint
