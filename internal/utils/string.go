package utils

import (
	"fmt"
	"strings"
	"unicode"
)

// IsOpener checks if a rune opens a quoted or bracketed span.
// Such runes are trimmed from the front of the word under the cursor.
func IsOpener(r rune) bool {
	switch r {
	case '(', '[', '{', '<', '"', '\'', '`':
		return true
	}
	return false
}

// SanitizeDisplay replaces control characters so a string can be drawn on
// a single overlay row
func SanitizeDisplay(s string) string {
	if strings.IndexFunc(s, unicode.IsControl) < 0 {
		return s
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return '?'
		}
		return r
	}, s)
}

// LastField returns the trailing run of non-whitespace runes of s.
func LastField(s string) string {
	i := strings.LastIndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s
	}
	// skip the whitespace rune itself, which may be multi-byte
	for j, r := range s[i:] {
		if !unicode.IsSpace(r) {
			return s[i+j:]
		}
	}
	return ""
}

// FormatWithCommas formats an integer with comma separators
func FormatWithCommas(n int) string {
	str := fmt.Sprintf("%d", n)
	if n < 1000 && n > -1000 {
		return str
	}

	var b strings.Builder
	digits := strings.TrimPrefix(str, "-")
	if len(digits) != len(str) {
		b.WriteByte('-')
	}
	for i, char := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(char)
	}
	return b.String()
}
