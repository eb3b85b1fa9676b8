package fix

import (
	"regexp"
	"strings"

	"github.com/wharflab/reval/internal/rules"
	"github.com/wharflab/reval/internal/scan"
	"github.com/wharflab/reval/internal/sourcemap"
)

// heuristic proposes a fix for an issue that carries none.
type heuristic struct {
	ruleIDs []string
	propose func(sm *sourcemap.SourceMap, issue rules.Issue) (*rules.QuickFix, bool)
}

var heuristics = []heuristic{
	{ruleIDs: []string{"css-duplicate-property", "js-redeclare"}, propose: removeDuplicateLine},
	{ruleIDs: []string{"html-duplicate-attr", "attr-no-duplication"}, propose: removeDuplicateAttr},
	{ruleIDs: []string{"css-empty-rule"}, propose: removeEmptyRule},
}

// Heuristic proposes a fix for an issue without one:
//   - css-duplicate-property, js-redeclare: remove the issue's line when an
//     identical trimmed line appears earlier;
//   - html-duplicate-attr, attr-no-duplication: remove the second occurrence
//     of an attribute within a tag on the issue's line;
//   - css-empty-rule: remove the issue's line when it reads "selector { }".
func Heuristic(source string, issue rules.Issue) (*rules.QuickFix, bool) {
	sm := sourcemap.New(source)
	if issue.Line < 1 || issue.Line > sm.LineCount() {
		return nil, false
	}
	for _, h := range heuristics {
		for _, id := range h.ruleIDs {
			if issue.RuleID == id {
				return h.propose(sm, issue)
			}
		}
	}
	return nil, false
}

// lineRemoval returns the range deleting line together with one line break.
func lineRemoval(sm *sourcemap.SourceMap, line int) rules.Range {
	if line < sm.LineCount() {
		return rules.NewSpanRange(line, 1, line+1, 0)
	}
	if line > 1 {
		return rules.NewSpanRange(line-1, rules.WholeLine, line, rules.WholeLine)
	}
	return rules.NewLineRange(line)
}

func removeDuplicateLine(sm *sourcemap.SourceMap, issue rules.Issue) (*rules.QuickFix, bool) {
	target := strings.TrimSpace(sm.Line(issue.Line))
	if target == "" {
		return nil, false
	}
	for l := 1; l < issue.Line; l++ {
		if strings.TrimSpace(sm.Line(l)) == target {
			return &rules.QuickFix{
				Title:      "Remove duplicate line",
				Edit:       rules.TextEdit{Range: lineRemoval(sm, issue.Line)},
				Confidence: rules.ConfidenceMedium,
				IsSafe:     issue.RuleID == "css-duplicate-property",
			}, true
		}
	}
	return nil, false
}

func removeDuplicateAttr(sm *sourcemap.SourceMap, issue rules.Issue) (*rules.QuickFix, bool) {
	text := sm.Line(issue.Line)
	for _, tok := range scan.Tokenize(text) {
		if tok.Kind != scan.TokenStartTag && tok.Kind != scan.TokenSelfClosingTag {
			continue
		}
		seen := make(map[string]bool, len(tok.Attrs))
		for _, a := range tok.Attrs {
			name := strings.ToLower(a.Name)
			if !seen[name] {
				seen[name] = true
				continue
			}
			start := a.Start
			for start > 0 && (text[start-1] == ' ' || text[start-1] == '\t') {
				start--
			}
			return &rules.QuickFix{
				Title:      "Remove duplicate attribute " + name,
				Edit:       rules.TextEdit{Range: rules.NewSpanRange(issue.Line, start+1, issue.Line, a.End)},
				Confidence: rules.ConfidenceMedium,
				IsSafe:     true,
			}, true
		}
	}
	return nil, false
}

var emptyRuleLineRe = regexp.MustCompile(`^\s*[^{}\s][^{}]*\{\s*\}\s*$`)

func removeEmptyRule(sm *sourcemap.SourceMap, issue rules.Issue) (*rules.QuickFix, bool) {
	if !emptyRuleLineRe.MatchString(sm.Line(issue.Line)) {
		return nil, false
	}
	return &rules.QuickFix{
		Title:      "Remove empty rule",
		Edit:       rules.TextEdit{Range: lineRemoval(sm, issue.Line)},
		Confidence: rules.ConfidenceHigh,
		IsSafe:     true,
	}, true
}
