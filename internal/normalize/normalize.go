// Package normalize coerces noisy, loosely typed import values into the
// strict types the scorer and store expect.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// chileanMobile matches a normalized Chilean mobile number: optional +56
// country code, then a literal 9 and exactly eight more digits.
var chileanMobile = regexp.MustCompile(`^(?:\+?56)?9\d{8}$`)

// searchFolder strips combining marks so accented and plain spellings of a
// name produce the same search string.
var searchFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Phone strips everything except ASCII digits, keeping a single leading
// plus sign if the number carries one.
func Phone(raw string) string {
	var b strings.Builder
	plus := false
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && !plus && b.Len() == 0:
			b.WriteRune('+')
			plus = true
		}
	}
	return b.String()
}

// ValidMobile reports whether a normalized phone number is a Chilean
// mobile number. Landlines and short codes fail; the import pipeline
// rejects those records outright.
func ValidMobile(phone string) bool {
	return chileanMobile.MatchString(phone)
}

// Bool interprets boolean-like import values. Exports deliver claim and
// verification flags as the string "true" or a real boolean serialized to
// text; everything else is false.
func Bool(raw string) bool {
	return strings.TrimSpace(strings.ToLower(raw)) == "true"
}

// LeadingInt parses the leading decimal digits of a value, ignoring any
// trailing junk ("128 reviews" -> 128). Missing or unparseable values
// yield zero.
func LeadingInt(raw string) int {
	s := strings.TrimSpace(raw)
	v := 0
	seen := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			break
		}
		v = v*10 + int(c-'0')
		seen = true
	}
	if !seen {
		return 0
	}
	return v
}

// LeadingFloat parses a leading decimal number ("4.5 stars" -> 4.5).
// Missing or unparseable values yield zero.
func LeadingFloat(raw string) float64 {
	s := strings.TrimSpace(raw)
	intPart := 0.0
	i := 0
	seen := false
	for ; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			break
		}
		intPart = intPart*10 + float64(c-'0')
		seen = true
	}
	if i < len(s) && s[i] == '.' {
		i++
		frac := 0.0
		div := 1.0
		for ; i < len(s); i++ {
			c := s[i]
			if c < '0' || c > '9' {
				break
			}
			frac = frac*10 + float64(c-'0')
			div *= 10
			seen = true
		}
		intPart += frac / div
	}
	if !seen {
		return 0
	}
	return intPart
}

// SearchString builds the lowercase, accent-folded haystack stored with
// each lead for substring search.
func SearchString(parts ...string) string {
	joined := strings.Join(parts, " ")
	folded, _, err := transform.String(searchFolder, joined)
	if err != nil {
		folded = joined
	}
	return strings.ToLower(strings.Join(strings.Fields(folded), " "))
}
