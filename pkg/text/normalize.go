// Package text canonicalizes Polish text for diacritic-insensitive matching.
//
// Normalize is the single comparison key used by every matcher in pkg/search:
//
//	text.Normalize("Łódź") == text.Normalize("lodz") // true
//	text.Matches("Poniedziałek 3 maja", "PONIEDZIALEK") // true
//
// Resource files shipped with the application sometimes carry literal
// backslash escapes (`\xf3`, `\u0119`) instead of the characters they stand
// for. Normalize resolves those itself, so matching never depends on the
// display decoder having run first.
package text

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// folder maps each lower-case Polish diacritic to its closest Latin letter.
var folder = strings.NewReplacer(
	"ą", "a",
	"ć", "c",
	"ę", "e",
	"ł", "l",
	"ń", "n",
	"ó", "o",
	"ś", "s",
	"ź", "z",
	"ż", "z",
)

// Normalize returns the canonical comparison form of s: escapes decoded,
// NFC composed, lower-cased with Polish rules, diacritics folded and
// surrounding whitespace trimmed.
//
// A single pass can expose a new escape (`\X41` lower-cases to `\x41`), so
// passes repeat until the output is stable. The result is a fixpoint, which
// makes Normalize idempotent. Every pass that changes the text shortens it,
// so the loop ends.
func Normalize(s string) string {
	for {
		next := normalizeOnce(s)
		if next == s {
			return s
		}
		s = next
	}
}

func normalizeOnce(s string) string {
	if s == "" {
		return ""
	}
	s = DecodeEscapes(s)
	s = norm.NFC.String(s)
	// cases.Caser keeps internal state, so each call gets its own.
	s = cases.Lower(language.Polish).String(s)
	s = folder.Replace(s)
	return strings.TrimSpace(s)
}

// Matches reports whether the normalized haystack contains the normalized
// query. An empty query matches everything; callers short-circuit blank
// queries before scanning.
func Matches(haystack, query string) bool {
	return strings.Contains(Normalize(haystack), Normalize(query))
}
