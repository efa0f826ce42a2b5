package names

import "strings"

// Variant is one normalized (first, last) pairing used for equality checks.
type Variant struct {
	First string
	Last  string
}

// Variations returns the de-duplicated, order-preserving set of name pairs a
// candidate could plausibly appear under: the normalized pair itself, plus
// hyphen-segment and space-joined alternatives for hyphenated names, plus the
// full segment cross-product when both names are hyphenated. License
// registries and obituary notices frequently disagree on which half of a
// hyphenated name they record.
func Variations(first, last string) []Variant {
	hyphFirst := normalizeKeepingHyphens(first)
	hyphLast := normalizeKeepingHyphens(last)
	flatFirst := strings.ReplaceAll(hyphFirst, "-", " ")
	flatLast := strings.ReplaceAll(hyphLast, "-", " ")

	seen := make(map[Variant]struct{}, 4)
	var out []Variant
	add := func(f, l string) {
		if f == "" || l == "" {
			return
		}
		v := Variant{First: f, Last: l}
		if _, dup := seen[v]; dup {
			return
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	add(flatFirst, flatLast)

	firstSegments := hyphenSegments(hyphFirst)
	lastSegments := hyphenSegments(hyphLast)

	for _, seg := range firstSegments {
		add(seg, flatLast)
	}
	for _, seg := range lastSegments {
		add(flatFirst, seg)
	}
	if len(firstSegments) > 0 && len(lastSegments) > 0 {
		for _, fs := range firstSegments {
			for _, ls := range lastSegments {
				add(fs, ls)
			}
		}
	}

	return out
}

// hyphenSegments splits a hyphenated name into its segments. Names without a
// hyphen yield nothing; the plain form is always emitted by the caller.
func hyphenSegments(name string) []string {
	if !strings.Contains(name, "-") {
		return nil
	}
	parts := strings.Split(name, "-")
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		segments = append(segments, part)
	}
	return segments
}
