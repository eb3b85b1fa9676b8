package html

import (
	"fmt"
	"strings"

	"github.com/wharflab/reval/internal/rules"
	"github.com/wharflab/reval/internal/scan"
)

// Linter is an optional markup linting backend. When none is configured,
// or the configured one is unavailable, only the built-in checks run.
type Linter interface {
	Name() string
	Available() bool
	Rules() []rules.Rule
	Lint(input rules.Input) []rules.Issue
}

// MarkupLinter is a tokenizer-driven linter with htmlhint-style rules.
type MarkupLinter struct{}

// Name implements Linter.
func (MarkupLinter) Name() string { return markupLinterBackendID }

// Available implements Linter.
func (MarkupLinter) Available() bool { return true }

// Rules implements Linter.
func (MarkupLinter) Rules() []rules.Rule { return linterRules() }

// Lint implements Linter.
func (MarkupLinter) Lint(input rules.Input) []rules.Issue {
	return lintDocument(newDocument(input.Source))
}

var _ Linter = MarkupLinter{}

// rawTextElements hold text the tokenizer does not parse as markup.
var rawTextElements = map[string]bool{
	"script": true, "style": true, "textarea": true, "title": true,
	"xmp": true, "iframe": true, "noembed": true, "noframes": true, "plaintext": true,
}

// resourceAttrs maps elements to the attributes src-not-empty inspects.
var resourceAttrs = map[string][]string{
	"img":    {"src"},
	"script": {"src"},
	"link":   {"href"},
	"iframe": {"src"},
	"embed":  {"src"},
	"source": {"src"},
}

func lintDocument(d *document) []rules.Issue {
	var issues []rules.Issue
	issues = append(issues, lintDoctype(d)...)

	svgDepth := 0
	rawText := false
	for _, tok := range d.tokens {
		switch tok.Kind {
		case scan.TokenStartTag, scan.TokenSelfClosingTag:
			rawText = tok.Kind == scan.TokenStartTag && rawTextElements[tok.Name]
			issues = append(issues, lintTagName(d, tok)...)
			if tok.Name == "svg" && tok.Kind == scan.TokenStartTag {
				svgDepth++
			}
			issues = append(issues, lintAttrs(d, tok, svgDepth > 0)...)
		case scan.TokenEndTag:
			rawText = false
			issues = append(issues, lintTagName(d, tok)...)
			if tok.Name == "svg" && svgDepth > 0 {
				svgDepth--
			}
		case scan.TokenText:
			if !rawText {
				issues = append(issues, lintSpecChars(d, tok)...)
			}
		default:
		}
	}
	return issues
}

// lintDoctype applies to full documents only, those with an <html> tag.
func lintDoctype(d *document) []rules.Issue {
	hasHTML := false
	for _, tok := range d.tokens {
		if tok.IsTag() && tok.Name == "html" {
			hasHTML = true
			break
		}
	}
	if !hasHTML {
		return nil
	}
	for _, tok := range d.tokens {
		switch {
		case tok.Kind == scan.TokenComment:
			continue
		case tok.Kind == scan.TokenText && strings.TrimSpace(tok.Data) == "":
			continue
		case tok.Kind == scan.TokenDoctype:
			return nil
		}
		return []rules.Issue{d.issueAt(rules.SeverityWarning, tok.Start, DoctypeFirstCode,
			"Doctype must be declared first")}
	}
	return nil
}

// lintTagName offers a safe fix that lowercases the name in place.
func lintTagName(d *document, tok scan.Token) []rules.Issue {
	if tok.RawName == strings.ToLower(tok.RawName) {
		return nil
	}
	start := tok.Start + 1
	if tok.Kind == scan.TokenEndTag {
		start++
	}
	issue := d.issueAt(rules.SeverityWarning, start, TagnameLowercaseCode,
		fmt.Sprintf("Tag name '%s' must be lowercase", tok.RawName))
	if r, ok := d.span(start, start+len(tok.RawName)); ok {
		issue = issue.WithFix(&rules.QuickFix{
			Title:      "Lowercase tag name " + tok.RawName,
			Edit:       rules.TextEdit{Range: r, NewText: strings.ToLower(tok.RawName)},
			Confidence: rules.ConfidenceHigh,
			IsSafe:     true,
		})
	}
	return []rules.Issue{issue}
}

// lintAttrs checks attribute case, quoting and empty resource references.
// SVG attributes such as viewBox are camel case by definition.
func lintAttrs(d *document, tok scan.Token, inSVG bool) []rules.Issue {
	var issues []rules.Issue
	for _, a := range tok.Attrs {
		if !inSVG && a.Name != strings.ToLower(a.Name) {
			issues = append(issues, d.issueAt(rules.SeverityWarning, a.Start, AttrLowercaseCode,
				fmt.Sprintf("Attribute name '%s' must be lowercase", a.Name)))
		}
		if a.HasValue && a.Quote != '"' {
			issues = append(issues, d.issueAt(rules.SeverityWarning, a.Start, AttrDoubleQuotesCode,
				fmt.Sprintf("Value of attribute '%s' must be in double quotes", a.Name)))
		}
	}
	for _, name := range resourceAttrs[tok.Name] {
		if a, ok := scan.FindAttr(tok.Attrs, name); ok && strings.TrimSpace(a.Value) == "" {
			issues = append(issues, d.issueAt(rules.SeverityWarning, a.Start, SrcNotEmptyCode,
				fmt.Sprintf("Attribute '%s' of <%s> must not be empty", strings.ToLower(a.Name), tok.Name)))
		}
	}
	return issues
}

func lintSpecChars(d *document, tok scan.Token) []rules.Issue {
	var issues []rules.Issue
	for i := 0; i < len(tok.Raw); i++ {
		if c := tok.Raw[i]; c == '<' || c == '>' {
			issues = append(issues, d.issueAt(rules.SeverityWarning, tok.Start+i, SpecCharEscapeCode,
				fmt.Sprintf("Special character '%c' must be escaped", c)))
		}
	}
	return issues
}
