// Package normalize provides utilities for normalizing text used in
// case-insensitive lookups and search.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Fold converts a string to a canonical lowercase form for case-insensitive
// comparison. Accented characters are decomposed and their combining marks
// dropped, so "Tólkien" and "tolkien" fold to the same value.
// "José García" -> "jose garcia".
func Fold(s string) string {
	// Decompose accented characters (NFKD splits base rune + combining marks).
	s = norm.NFKD.String(s)

	// Drop combining marks.
	s = strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Mn, r) {
			return -1
		}
		return r
	}, s)

	return strings.ToLower(strings.TrimSpace(s))
}

// Username canonicalizes a username for uniqueness checks and index lookups.
// Usernames are compared case-insensitively, so "Alice" and "alice" refer to
// the same account.
func Username(s string) string {
	return Fold(s)
}
