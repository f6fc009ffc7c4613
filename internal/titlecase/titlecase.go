package internaltitlecase

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Title converts a captured profile name into a display name.
//
// Words are split on whitespace, underscores, hyphens, lower-to-upper transitions, acronym ends, and letter/digit boundaries.
// Each word gets its first letter upper-cased and the rest lower-cased.
func Title(s string) string {
	words := Words(s)
	caser := cases.Title(language.Und)
	for i, w := range words {
		words[i] = caser.String(w)
	}

	return strings.Join(words, " ")
}

// Words splits s into the words Title operates on.
func Words(s string) []string {
	var (
		words []string
		cur   []rune
	)
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsSpace(r) || r == '_' || r == '-' {
			flush()

			continue
		}
		if len(cur) > 0 && isBoundary(cur[len(cur)-1], r, next(runes, i)) {
			flush()
		}
		cur = append(cur, r)
	}
	flush()

	return words
}

func next(runes []rune, i int) rune {
	if i+1 < len(runes) {
		return runes[i+1]
	}

	return 0
}

func isBoundary(prev, cur, after rune) bool {
	switch {
	case unicode.IsLower(prev) && unicode.IsUpper(cur):
		return true
	// HTTPServer: the S starts a new word
	case unicode.IsUpper(prev) && unicode.IsUpper(cur) && unicode.IsLower(after):
		return true
	case unicode.IsLetter(prev) && unicode.IsDigit(cur):
		return true
	case unicode.IsDigit(prev) && unicode.IsLetter(cur):
		return true
	}

	return false
}
