// Package sanitize cleans free-form request fields before they reach
// SQL or storage.
package sanitize

import (
	"html"
	"regexp"
	"strings"
	"unicode"
)

var tagRe = regexp.MustCompile(`<[^>]*>`)

// String trims the value, strips tags and control characters, escapes HTML
// metacharacters and clamps the result to max runes. max <= 0 means no limit.
func String(s string, max int) string {
	s = strings.TrimSpace(s)
	s = tagRe.ReplaceAllString(s, "")
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, s)
	s = html.EscapeString(s)

	if max > 0 {
		runes := []rune(s)
		if len(runes) > max {
			s = string(runes[:max])
		}
	}
	return s
}

// Clamp bounds n to the [min, max] range.
func Clamp(n, min, max int) int {
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}
