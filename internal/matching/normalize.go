// Package matching holds the comparison keys used to match product ids, stores,
// brands and categories across snapshot files.
package matching

import (
	"strings"

	"golang.org/x/text/cases"
)

// Key returns the case-folded, trimmed form of s.
// Two values match case-insensitively iff their keys are equal.
func Key(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// Equal reports whether a and b match case-insensitively
func Equal(a, b string) bool {
	return Key(a) == Key(b)
}

// MatchesOptional is true when filter is blank or equals value case-insensitively.
func MatchesOptional(filter, value string) bool {
	if strings.TrimSpace(filter) == "" {
		return true
	}
	return Equal(filter, value)
}
