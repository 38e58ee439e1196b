package search

import (
	"strings"
	"unicode"
)

// NormalizeQuery trims the input, lowercases it and collapses runs of
// whitespace. Punctuation is kept: skill names such as "C++" or "Node.js"
// depend on it.
func NormalizeQuery(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}

	b := strings.Builder{}
	b.Grow(len(input))
	lastWasSpace := false

	for _, r := range strings.ToLower(input) {
		if unicode.IsSpace(r) {
			if b.Len() == 0 || lastWasSpace {
				continue
			}
			b.WriteByte(' ')
			lastWasSpace = true
			continue
		}
		if !unicode.IsPrint(r) {
			continue
		}
		b.WriteRune(r)
		lastWasSpace = false
	}

	return strings.TrimSpace(b.String())
}

// EscapeLike escapes LIKE/ILIKE wildcards so s matches literally under the
// default backslash escape character.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// ContainsPattern builds an ILIKE pattern matching any value that contains s.
func ContainsPattern(s string) string {
	return "%" + EscapeLike(s) + "%"
}
