package match

import "strings"

// Normalize folds case and drops '_', '-' and spaces so that "as_native"
// and "AsNative" compare equal.
func Normalize(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '_', '-', ' ':
			return -1
		}

		return r
	}, strings.ToLower(s))
}

// Closest returns the candidate nearest to name after normalization. A
// candidate is only accepted when at most a third of name needs editing
// (at least one edit is always allowed). Ties go to the earlier candidate.
func Closest(name string, candidates []string) (string, bool) {
	norm := Normalize(name)
	limit := max(1, len(norm)/3)

	best, bestDist := "", limit+1

	for _, c := range candidates {
		if d := Levenshtein(norm, Normalize(c)); d < bestDist {
			best, bestDist = c, d
		}
	}

	return best, best != ""
}

// DidYouMean formats a suggestion suffix for an error message, or returns ""
// when nothing is close enough.
func DidYouMean(name string, candidates []string) string {
	if c, ok := Closest(name, candidates); ok {
		return " (did you mean " + c + "?)"
	}

	return ""
}
