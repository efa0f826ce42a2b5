package names

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	tokenSplitPattern = regexp.MustCompile(`[.\s-]+`)
	hyphenKeepPattern = regexp.MustCompile(`[.\s]+`)
)

// droppedTokens are honorific prefixes and generational or professional
// suffixes that carry no identity signal.
var droppedTokens = map[string]struct{}{
	"dr": {}, "mr": {}, "mrs": {}, "ms": {}, "miss": {},
	"jr": {}, "sr": {}, "ii": {}, "iii": {}, "iv": {}, "v": {},
	"md": {}, "phd": {}, "rn": {}, "np": {}, "pa": {},
}

// Normalize reduces a raw name to its comparable form: accents stripped,
// lowercased, honorifics and suffixes dropped, tokens rejoined with single
// spaces. Hyphens act as token separators. Total and pure; empty input
// yields the empty string.
func Normalize(raw string) string {
	return normalizeWith(raw, tokenSplitPattern)
}

// normalizeKeepingHyphens is Normalize except hyphens survive inside tokens,
// so variation generation can still see hyphenated names.
func normalizeKeepingHyphens(raw string) string {
	return normalizeWith(raw, hyphenKeepPattern)
}

func normalizeWith(raw string, splitter *regexp.Regexp) string {
	if raw == "" {
		return ""
	}
	lowered := strings.ToLower(stripAccents(raw))
	parts := splitter.Split(lowered, -1)
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.Trim(part, "-")
		if part == "" {
			continue
		}
		if _, drop := droppedTokens[part]; drop {
			continue
		}
		kept = append(kept, part)
	}
	return strings.Join(kept, " ")
}

func stripAccents(s string) string {
	stripper := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(stripper, s)
	if err != nil {
		return s
	}
	return out
}
