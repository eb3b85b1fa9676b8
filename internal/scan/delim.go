// Package scan provides the lexical helpers shared by the analyzers and the
// diff engine: balanced-delimiter matching, literal masking, top-level
// splitting, and tag/attribute tokenizing.
//
// None of the helpers fail. Lookups that cannot complete return NotFound
// and callers skip whatever they were extracting.
package scan

import "strings"

// NotFound is returned when a scan reaches the end of the text first.
const NotFound = -1

// MatchBrace returns the index of the '}' closing a block whose opening
// '{' sits just before start, or NotFound.
func MatchBrace(text string, start int) int {
	return MatchDelim(text, start, '{', '}')
}

// MatchParen returns the index of the ')' closing a group whose opening
// '(' sits just before start, or NotFound.
func MatchParen(text string, start int) int {
	return MatchDelim(text, start, '(', ')')
}

// MatchDelim walks forward from start with depth 1, incrementing on open
// and decrementing on close, and returns the index that brings depth to 0.
// Run it over masked text so delimiters inside literals are ignored.
func MatchDelim(text string, start int, open, closing byte) int {
	if start < 0 {
		return NotFound
	}
	depth := 1
	for i := start; i < len(text); i++ {
		switch text[i] {
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return NotFound
}

// SkipSpace returns the first index at or after i that is not whitespace.
func SkipSpace(text string, i int) int {
	for i < len(text) && isSpace(text[i]) {
		i++
	}
	return i
}

// NormalizeSpace collapses whitespace runs to single spaces and trims the ends.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
