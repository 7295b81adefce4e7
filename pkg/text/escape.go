package text

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// DecodeEscapes resolves literal `\xHH` and `\uHHHH` sequences into the
// characters they encode, e.g. `pi\u0119\u0107` becomes "pięć". Text without
// escapes is returned unchanged. Malformed sequences are copied as-is.
// A `\uHHHH` high surrogate followed by a `\uHHHH` low surrogate decodes to
// the single code point of the pair; an unpaired surrogate becomes U+FFFD.
func DecodeEscapes(s string) string {
	if strings.IndexByte(s, '\\') < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != '\\' || i+1 >= len(s) {
			b.WriteByte(s[i])
			i++
			continue
		}

		var width int
		switch s[i+1] {
		case 'x':
			width = 2
		case 'u':
			width = 4
		}
		if width == 0 || i+2+width > len(s) {
			b.WriteByte(s[i])
			i++
			continue
		}

		r, ok := parseHex(s[i+2 : i+2+width])
		if !ok {
			b.WriteByte(s[i])
			i++
			continue
		}
		i += 2 + width
		if width == 4 && utf16.IsSurrogate(r) {
			if low, ok := lowSurrogate(s[i:]); ok {
				if pair := utf16.DecodeRune(r, low); pair != utf8.RuneError {
					r = pair
					i += 6
				}
			}
		}
		if !utf8.ValidRune(r) {
			r = utf8.RuneError
		}
		b.WriteRune(r)
	}
	return b.String()
}

// lowSurrogate parses a `\uHHHH` low surrogate at the start of s.
func lowSurrogate(s string) (rune, bool) {
	if len(s) < 6 || s[0] != '\\' || s[1] != 'u' {
		return 0, false
	}
	r, ok := parseHex(s[2:6])
	if !ok || r < 0xDC00 || r > 0xDFFF {
		return 0, false
	}
	return r, true
}

func parseHex(h string) (rune, bool) {
	var r rune
	for i := 0; i < len(h); i++ {
		c := h[i]
		switch {
		case c >= '0' && c <= '9':
			r = r<<4 | rune(c-'0')
		case c >= 'a' && c <= 'f':
			r = r<<4 | rune(c-'a'+10)
		case c >= 'A' && c <= 'F':
			r = r<<4 | rune(c-'A'+10)
		default:
			return 0, false
		}
	}
	return r, true
}
