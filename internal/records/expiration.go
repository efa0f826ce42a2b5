package records

import (
	"strconv"
	"strings"
)

// ExpirationYear extracts the four-digit year from an expiration date in
// MM/DD/YYYY or YYYY-MM-DD form. The trailing component is preferred; for
// ISO-style dates the leading component carries the year instead. Returns
// false for empty or unparsable values.
func ExpirationYear(value string) (int, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}

	var parts []string
	switch {
	case strings.Contains(value, "/"):
		parts = strings.Split(value, "/")
	case strings.Contains(value, "-"):
		parts = strings.Split(value, "-")
	default:
		return 0, false
	}

	candidate := parts[len(parts)-1]
	if len(parts) > 1 && len(candidate) != 4 && len(parts[0]) == 4 {
		candidate = parts[0]
	}

	year, err := strconv.Atoi(strings.TrimSpace(candidate))
	if err != nil || year <= 0 {
		return 0, false
	}
	return year, true
}
