package cssparse

import "strings"

// NormalizeSelector serializes a prelude: whitespace runs collapse to one
// space and spaces around combinators and commas are dropped, so
// ".a > .b,.c" and ".a>.b, .c" produce the same key.
func NormalizeSelector(prelude string) string {
	fields := strings.Fields(prelude)
	s := strings.Join(fields, " ")
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ' ' {
			prev := byte(0)
			if b.Len() > 0 {
				prev = b.String()[b.Len()-1]
			}
			next := byte(0)
			if i+1 < len(s) {
				next = s[i+1]
			}
			if isCombinator(prev) || isCombinator(next) {
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

func isCombinator(c byte) bool {
	return c == '>' || c == '+' || c == '~' || c == ','
}

// NormalizeValue collapses whitespace in a declaration value.
func NormalizeValue(v string) string {
	return strings.Join(strings.Fields(v), " ")
}

// IsEmptyValue reports whether a value is empty or punctuation only.
func IsEmptyValue(v string) bool {
	return strings.TrimFunc(v, func(r rune) bool {
		return r == ' ' || r == ',' || r == ';' || r == ':' || r == '!'
	}) == ""
}
