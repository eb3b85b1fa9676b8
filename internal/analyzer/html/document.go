package html

import (
	"github.com/wharflab/reval/internal/rules"
	"github.com/wharflab/reval/internal/scan"
	"github.com/wharflab/reval/internal/sourcemap"
)

// document is tokenized markup shared by every check of one run.
type document struct {
	sm     *sourcemap.SourceMap
	tokens []scan.Token
}

func newDocument(src string) *document {
	return &document{sm: sourcemap.New(src), tokens: scan.Tokenize(src)}
}

// issueAt builds an issue positioned at a byte offset.
func (d *document) issueAt(kind rules.Severity, offset int, code, msg string) rules.Issue {
	line, col := d.sm.Position(offset)
	return rules.NewIssue(kind, line, code, msg).
		WithColumn(col).
		WithRange(rules.NewPointRange(line, col))
}

// span converts a [start, end) byte span to an inclusive range.
// ok is false when the span crosses lines.
func (d *document) span(start, end int) (rules.Range, bool) {
	startLine, startCol := d.sm.Position(start)
	endLine, endCol := d.sm.Position(end - 1)
	if startLine != endLine {
		return rules.Range{}, false
	}
	return rules.NewSpanRange(startLine, startCol, endLine, endCol), true
}

// startTags yields start and self-closing tags in document order.
func (d *document) startTags(fn func(tok scan.Token)) {
	for _, tok := range d.tokens {
		if tok.Kind == scan.TokenStartTag || tok.Kind == scan.TokenSelfClosingTag {
			fn(tok)
		}
	}
}

// voidElements never take a closing tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}
