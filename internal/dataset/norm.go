package dataset

import (
	"regexp"
	"sort"
	"strings"
)

var spaceRun = regexp.MustCompile(`\s+`)

// Norm collapses whitespace (including non-breaking spaces) and trims.
// Dataset names are compared only after normalization.
func Norm(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return spaceRun.ReplaceAllString(strings.TrimSpace(s), " ")
}

// Key is the case-insensitive identity used for all name comparisons.
func Key(s string) string {
	return strings.ToLower(Norm(s))
}

func sortStrings(s []string) {
	sort.Strings(s)
}

func sortedValues(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
