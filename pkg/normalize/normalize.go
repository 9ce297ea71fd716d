// Package normalize canonicalizes question text so that superficially
// different phrasings of the same question compare equal.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Gujarati/Devanagari marks that terminate or decorate a sentence but carry
// no meaning for matching. These are not classified as punctuation by
// unicode.IsPunct, so they get their own pass.
var indicMarks = map[rune]struct{}{
	'।': {}, // devanagari danda
	'॥': {}, // devanagari double danda
	'ઃ': {}, // gujarati visarga
	'ઽ': {}, // gujarati avagraha
	'ૠ': {}, // gujarati vocalic rr
	'ૡ': {}, // gujarati vocalic ll
	'૰': {}, // gujarati abbreviation sign
	'૱': {}, // gujarati rupee sign
}

// Normalize returns the canonical comparison form of a question: NFKC
// normalized, Indic sentence marks and all punctuation/symbols replaced by
// spaces, whitespace collapsed, lower-cased. It never fails and is
// idempotent. The result is only ever used for matching, never displayed.
func Normalize(s string) string {
	s = norm.NFKC.String(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if _, ok := indicMarks[r]; ok {
			b.WriteRune(' ')
			continue
		}
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(r)
	}

	return strings.ToLower(strings.Join(strings.Fields(b.String()), " "))
}

// SanitizeBase64 strips a data URI prefix and any rune that cannot appear in
// base64, then restores padding to a multiple of four. Stored payloads pass
// through this before being returned to clients.
func SanitizeBase64(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "data:") {
		if idx := strings.Index(s, ","); idx >= 0 {
			s = s[idx+1:]
		}
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' || r == '/' || r == '=':
			b.WriteRune(r)
		}
	}

	out := b.String()
	switch len(out) % 4 {
	case 2:
		out += "=="
	case 3:
		out += "="
	}
	return out
}
