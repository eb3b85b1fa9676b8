package scan

// Span is a half-open byte range [Start, End) into the scanned text.
type Span struct {
	Start int
	End   int
}

// Of returns the text covered by the span.
func (s Span) Of(text string) string {
	return text[s.Start:s.End]
}

// SplitTopLevel splits text on sep where it is not nested inside
// (), [] or {}. Run it over masked text and slice the original with the
// returned spans.
func SplitTopLevel(text string, sep byte) []Span {
	var spans []Span
	depth := 0
	start := 0
	for i := 0; i < len(text); i++ {
		switch c := text[i]; c {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		default:
			if c == sep && depth == 0 {
				spans = append(spans, Span{Start: start, End: i})
				start = i + 1
			}
		}
	}
	return append(spans, Span{Start: start, End: len(text)})
}

// StatementEnd returns the index just past the end of the statement that
// starts at start: the first ';' at depth 0, or the first newline at depth 0
// when no semicolon comes first. Returns len(text) at the end of input.
func StatementEnd(text string, start int) int {
	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth == 0 {
				return i
			}
			depth--
		case ';':
			if depth == 0 {
				return i + 1
			}
		case '\n':
			if depth == 0 && i > start && !continues(text, start, i) {
				return i
			}
		}
	}
	return len(text)
}

// continues reports whether the line break at nl is inside an unfinished
// expression: the line ends with an operator or the next line starts with one.
func continues(text string, start, nl int) bool {
	j := nl - 1
	for j >= start && isSpace(text[j]) {
		j--
	}
	if j < start {
		return true
	}
	switch text[j] {
	case '=', ',', '+', '-', '*', '/', '&', '|', '?', ':', '.', '(', '[', '{', '<', '>', '!':
		return true
	}
	k := SkipSpace(text, nl)
	if k < len(text) {
		switch text[k] {
		case '.', '?', ':', '+', '-', '*', '/', '&', '|', ')', ']', '}':
			return true
		}
	}
	return false
}

// DepthAt returns the ()/[]/{} nesting depth at offset.
func DepthAt(text string, offset int) int {
	depth := 0
	if offset > len(text) {
		offset = len(text)
	}
	for i := 0; i < offset; i++ {
		switch text[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		}
	}
	return depth
}
