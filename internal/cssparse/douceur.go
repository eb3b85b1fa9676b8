package cssparse

import (
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
)

// Douceur parses with github.com/aymerick/douceur. It reports no source
// positions, so lines are recovered by searching for each selector and
// property in document order. A syntax error aborts the whole parse.
type Douceur struct{}

// Name implements Parser.
func (Douceur) Name() string { return BackendDouceur }

// Available implements Parser.
func (Douceur) Available() bool { return true }

// Parse implements Parser.
func (Douceur) Parse(text string) (*Stylesheet, []*ParseError) {
	sheet, err := parser.Parse(text)
	if err != nil {
		return &Stylesheet{}, []*ParseError{{Message: err.Error()}}
	}
	loc := &locator{text: text}
	return &Stylesheet{Rules: loc.convert(sheet.Rules)}, nil
}

// locator maps douceur rules back to positions by forward search.
type locator struct {
	text   string
	cursor int
}

func (l *locator) convert(rules []*css.Rule) []*Rule {
	out := make([]*Rule, 0, len(rules))
	for _, r := range rules {
		rule := &Rule{}
		if r.Kind == css.AtRule {
			rule.AtRule = true
			rule.Selector = NormalizeSelector(r.Name + " " + r.Prelude)
			rule.Line, rule.Column = l.find(r.Name)
		} else {
			rule.Selector = NormalizeSelector(r.Prelude)
			rule.Line, rule.Column = l.find(firstLine(r.Prelude))
		}
		for _, d := range r.Declarations {
			line, col := l.find(d.Property)
			rule.Declarations = append(rule.Declarations, Declaration{
				Property:  d.Property,
				Value:     NormalizeValue(d.Value),
				Important: d.Important,
				Line:      line,
				Column:    col,
				Start:     -1,
				End:       -1,
			})
		}
		rule.Children = l.convert(r.Rules)
		out = append(out, rule)
	}
	return out
}

// find locates needle at or after the cursor and advances past it.
// Misses keep the cursor and return the cursor position.
func (l *locator) find(needle string) (line, column int) {
	needle = strings.TrimSpace(needle)
	offset := l.cursor
	if needle != "" {
		if idx := strings.Index(l.text[l.cursor:], needle); idx >= 0 {
			offset = l.cursor + idx
			l.cursor = offset + len(needle)
		}
	}
	line = strings.Count(l.text[:offset], "\n") + 1
	column = offset - strings.LastIndexByte(l.text[:offset], '\n')
	return line, column
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}

var _ Parser = Douceur{}
