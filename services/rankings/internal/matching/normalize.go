package matching

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	yearPattern        = regexp.MustCompile(`\(([0-9]{4})\)`)
	punctuationPattern = regexp.MustCompile(`[^\p{L}\p{N}\p{M}_\s\p{Z}\-']`)
	suffixPattern      = regexp.MustCompile(`(?i)\s+(?:season|part|vol)\s+[0-9]+$`)
)

// ExtractYear pulls a parenthesised four digit year out of title. Every
// occurrence of the matched text is removed; year is 0 when none is present.
func ExtractYear(title string) (clean string, year int) {
	m := yearPattern.FindStringSubmatch(title)
	if m == nil {
		return title, 0
	}
	y, err := strconv.Atoi(m[1])
	if err != nil {
		return title, 0
	}
	return strings.TrimSpace(strings.ReplaceAll(title, m[0], "")), y
}

// Normalize prepares a title for searching and comparison: punctuation other
// than hyphens and apostrophes becomes a space, a trailing "Season N",
// "Part N" or "Vol N" is dropped and whitespace is collapsed.
func Normalize(title string) string {
	s := norm.NFC.String(title)
	s = punctuationPattern.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	s = suffixPattern.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}
