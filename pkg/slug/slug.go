// Package slug derives URL-safe identifiers from listing addresses.
package slug

import (
	"strconv"
	"strings"
	"unicode"
)

// Make lowercases s and collapses every run of non-alphanumeric
// characters into a single hyphen: "123 Main St." -> "123-main-st".
func Make(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevHyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			prevHyphen = false
		default:
			if !prevHyphen && b.Len() > 0 {
				b.WriteByte('-')
				prevHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// WithSuffix appends the numbered suffix used to resolve collisions.
// A zero n returns the base unchanged.
func WithSuffix(base string, n int) string {
	if n == 0 {
		return base
	}
	return base + "-" + strconv.Itoa(n)
}
