// Package records handles the tabular plumbing around the pipeline: reading
// license CSV exports into rows that preserve their original position and
// passthrough columns, extracting expiration years, and appending partitioned
// rows to the kept/removed output streams.
package records
