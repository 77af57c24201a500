package search

import (
	"strings"
	"unicode"
)

// NormalizeQuery lower-cases the input, drops control characters and collapses runs of
// whitespace. Punctuation is kept so terms like "c++" or "node.js" still match.
func NormalizeQuery(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}
	input = strings.ToLower(input)

	b := strings.Builder{}
	b.Grow(len(input))
	lastWasSpace := false

	for _, r := range input {
		if unicode.IsSpace(r) {
			if b.Len() == 0 || lastWasSpace {
				continue
			}
			b.WriteByte(' ')
			lastWasSpace = true
			continue
		}
		if unicode.IsControl(r) {
			continue
		}
		b.WriteRune(r)
		lastWasSpace = false
	}

	return strings.TrimSpace(b.String())
}

// CollapseSpaces trims the input and squeezes inner whitespace without changing case.
func CollapseSpaces(input string) string {
	return strings.Join(strings.Fields(input), " ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern builds an ILIKE pattern matching s anywhere, with wildcard characters in s
// escaped so they match literally.
func ContainsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// PrefixPattern builds an ILIKE pattern matching values starting with s.
func PrefixPattern(s string) string {
	return likeEscaper.Replace(s) + "%"
}
