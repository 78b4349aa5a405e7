// Package suggest finds close matches for misspelled names.
package suggest

import (
	"strings"
	"unicode"

	"github.com/agext/levenshtein"
)

// String returns the candidate closest to want, for "did you mean" hints.
// Case is ignored and '-' or ' ' match '_', so "Fault-Set" finds
// "fault_set".
//
// One edit is tolerated for every five characters of want, and at least one.
// If no candidate is close enough, an empty string is returned.
func String(want string, candidates []string) string {
	key := fold(want)
	limit := len(key) / 5
	if limit < 1 {
		limit = 1
	}

	best, bestDist := "", limit+1
	for _, c := range candidates {
		d := levenshtein.Distance(key, fold(c), nil)
		if d == 0 {
			return c
		}
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func fold(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '-' || r == ' ' {
			return '_'
		}
		return unicode.ToLower(r)
	}, s)
}
