package scan

import "strings"

// regexPrefixWords are keywords after which a '/' starts a regex literal.
var regexPrefixWords = map[string]bool{
	"return": true, "typeof": true, "case": true, "do": true, "else": true,
	"in": true, "of": true, "new": true, "delete": true, "void": true,
	"throw": true, "instanceof": true, "yield": true, "await": true,
}

// MaskScript returns a copy of JS/TS source in which the contents of
// comments, string literals, template literals and regex literals are
// replaced by spaces. Quote characters and newlines are kept, so offsets
// and line numbers stay valid.
//
// Template literal substitutions are masked along with the template text,
// so code inside ${...} is invisible to callers.
func MaskScript(src string) string {
	b := []byte(src)
	last := "" // previous significant token outside literals
	i := 0
	for i < len(b) {
		c := b[i]
		switch {
		case c == '/' && i+1 < len(b) && b[i+1] == '/':
			end := strings.IndexByte(src[i:], '\n')
			if end < 0 {
				end = len(b)
			} else {
				end += i
			}
			blank(b, i, end)
			i = end
		case c == '/' && i+1 < len(b) && b[i+1] == '*':
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				end = len(b)
			} else {
				end += i + 4
			}
			blank(b, i, end)
			i = end
		case c == '\'' || c == '"':
			end := quotedEnd(src, i, c)
			blank(b, i+1, end)
			i = end + 1
			last = "lit"
		case c == '`':
			end := templateEnd(src, i)
			blank(b, i+1, end)
			i = end + 1
			last = "lit"
		case c == '/' && regexAllowed(last):
			end := regexEnd(src, i)
			if end == NotFound {
				last = "/"
				i++
				continue
			}
			blank(b, i+1, end)
			i = end + 1
			last = "lit"
		case isIdentStart(c):
			j := i + 1
			for j < len(b) && isIdentPart(b[j]) {
				j++
			}
			last = src[i:j]
			i = j
		case c >= '0' && c <= '9':
			j := i + 1
			for j < len(b) && (isIdentPart(b[j]) || b[j] == '.') {
				j++
			}
			last = "0"
			i = j
		case isSpace(c):
			i++
		default:
			last = string(c)
			i++
		}
	}
	return string(b)
}

func regexAllowed(last string) bool {
	if last == "" {
		return true
	}
	if len(last) == 1 && strings.Contains("(,=:[!&|?{};+-*%<>~^", last) {
		return true
	}
	return regexPrefixWords[last]
}

// quotedEnd returns the index of the closing quote, or of the newline or
// end of text for unterminated strings.
func quotedEnd(src string, start int, quote byte) int {
	for i := start + 1; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case quote, '\n':
			return i
		}
	}
	return len(src)
}

func templateEnd(src string, start int) int {
	for i := start + 1; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case '`':
			return i
		}
	}
	return len(src)
}

// regexEnd returns the index of the closing '/' of a regex literal that
// starts at start, or NotFound when the line ends first.
func regexEnd(src string, start int) int {
	inClass := false
	for i := start + 1; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '/':
			if !inClass {
				return i
			}
		case '\n':
			return NotFound
		}
	}
	return NotFound
}

// blank replaces b[from:to] with spaces, keeping line breaks.
func blank(b []byte, from, to int) {
	if to > len(b) {
		to = len(b)
	}
	for k := from; k < to; k++ {
		if b[k] != '\n' && b[k] != '\r' {
			b[k] = ' '
		}
	}
}
