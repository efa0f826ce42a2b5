// Package names normalizes person names and decides whether a candidate's
// name plausibly refers to the same person as an obituary name record.
//
// Matching is exact-token comparison after normalization, not phonetic or
// edit-distance matching. Normalization strips accents, honorifics, and
// generational or professional suffixes; variation generation expands
// hyphenated names into the forms two independent registries are likely to
// record.
package names
