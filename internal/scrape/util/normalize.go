package util

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

// NameLenOK is the anchor-text heuristic for company names: 2..60 runes.
func NameLenOK(s string) bool {
	n := utf8.RuneCountInString(s)
	return n > 1 && n < 61
}

// Title upper-cases the first letter of every word and lower-cases the rest.
func Title(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToTitle(r))
			}
			prevLetter = true
			continue
		}
		prevLetter = false
		b.WriteRune(r)
	}
	return b.String()
}

// IsUpper reports whether s has cased letters and all of them are upper case.
func IsUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}

// Dedup keeps the first occurrence of each case-insensitive key.
type Dedup struct {
	seen map[string]bool
}

func NewDedup() *Dedup { return &Dedup{seen: map[string]bool{}} }

// First reports whether s was not seen before, and records it.
func (d *Dedup) First(s string) bool {
	k := strings.ToLower(s)
	if d.seen[k] {
		return false
	}
	d.seen[k] = true
	return true
}

// CleanNames applies the anchor-name rules to a free list of candidates:
// whitespace collapsed, 2..60 runes, case-insensitive first-wins.
func CleanNames(raw []string) []string {
	seen := NewDedup()
	var out []string
	for _, n := range raw {
		n = CleanText(n)
		if !NameLenOK(n) || !seen.First(n) {
			continue
		}
		out = append(out, n)
	}
	return out
}
