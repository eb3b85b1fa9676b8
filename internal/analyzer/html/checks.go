package html

import (
	"fmt"
	"strings"

	"github.com/wharflab/reval/internal/rules"
	"github.com/wharflab/reval/internal/scan"
)

type check struct {
	rule rules.RuleMetadata
	run  func(d *document) []rules.Issue
}

// checks run in this order on every document.
var checks = []check{
	{duplicateIDRule, checkDuplicateIDs},
	{imgAltRule, checkImgAlt},
	{duplicateAttrRule, checkDuplicateAttrs},
	{unclosedTagRule, checkUnclosedTags},
}

type idSite struct {
	value  string
	offset int
}

// checkDuplicateIDs reports every occurrence of an id value used more than
// once, each at its own line.
func checkDuplicateIDs(d *document) []rules.Issue {
	var sites []idSite
	counts := make(map[string]int)
	d.startTags(func(tok scan.Token) {
		for _, a := range tok.Attrs {
			if !strings.EqualFold(a.Name, "id") || strings.TrimSpace(a.Value) == "" {
				continue
			}
			v := strings.TrimSpace(a.Value)
			sites = append(sites, idSite{value: v, offset: a.Start})
			counts[v]++
		}
	})

	var issues []rules.Issue
	for _, s := range sites {
		if counts[s.value] < 2 {
			continue
		}
		issues = append(issues, d.issueAt(rules.SeverityWarning, s.offset, DuplicateIDCode,
			fmt.Sprintf("Duplicate id '%s' (used %d times)", s.value, counts[s.value])))
	}
	return issues
}

func checkImgAlt(d *document) []rules.Issue {
	var issues []rules.Issue
	d.startTags(func(tok scan.Token) {
		if tok.Name != "img" {
			return
		}
		if alt, ok := scan.FindAttr(tok.Attrs, "alt"); ok && strings.TrimSpace(alt.Value) != "" {
			return
		}
		issues = append(issues, d.issueAt(rules.SeverityWarning, tok.Start, ImgAltCode, "Image missing alt attribute").
			WithSuggestion(`Add descriptive alt="..." to <img> elements.`))
	})
	return issues
}

// checkDuplicateAttrs reports each repeated attribute within a tag. The
// quick fix removes the repeat together with the whitespace before it.
func checkDuplicateAttrs(d *document) []rules.Issue {
	var issues []rules.Issue
	src := d.sm.Source()
	d.startTags(func(tok scan.Token) {
		seen := make(map[string]bool, len(tok.Attrs))
		for _, a := range tok.Attrs {
			name := strings.ToLower(a.Name)
			if !seen[name] {
				seen[name] = true
				continue
			}
			issue := d.issueAt(rules.SeverityWarning, a.Start, DuplicateAttrCode,
				fmt.Sprintf("Duplicate attribute '%s' on <%s>", name, tok.Name))
			start := a.Start
			for start > tok.Start && (src[start-1] == ' ' || src[start-1] == '\t') {
				start--
			}
			if r, ok := d.span(start, a.End); ok {
				issue = issue.WithFix(&rules.QuickFix{
					Title:      fmt.Sprintf("Remove duplicate attribute %s", name),
					Edit:       rules.TextEdit{Range: r},
					Confidence: rules.ConfidenceMedium,
					IsSafe:     true,
				})
			}
			issues = append(issues, issue)
		}
	})
	return issues
}

// checkUnclosedTags tracks open non-void elements. A closing tag that
// matches an element below the top closes it and reports the elements
// opened after it; a closing tag matching nothing open is ignored.
// Whatever is still open at the end is reported too.
func checkUnclosedTags(d *document) []rules.Issue {
	var stack []scan.Token
	var issues []rules.Issue
	report := func(open []scan.Token) {
		for _, tok := range open {
			issues = append(issues, d.issueAt(rules.SeverityError, tok.Start, UnclosedTagCode,
				fmt.Sprintf("Unclosed tag <%s>", tok.Name)).
				WithSuggestion(fmt.Sprintf("Add a closing </%s> tag.", tok.Name)))
		}
	}

	for _, tok := range d.tokens {
		switch tok.Kind {
		case scan.TokenStartTag:
			if !voidElements[tok.Name] {
				stack = append(stack, tok)
			}
		case scan.TokenEndTag:
			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i].Name == tok.Name {
					report(stack[i+1:])
					stack = stack[:i]
					break
				}
			}
		default:
		}
	}
	report(stack)
	return issues
}
