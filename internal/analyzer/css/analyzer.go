package css

import (
	"fmt"
	"strings"

	"github.com/wharflab/reval/internal/analyzer"
	"github.com/wharflab/reval/internal/cssparse"
	"github.com/wharflab/reval/internal/rules"
	"github.com/wharflab/reval/internal/rules/configutil"
	"github.com/wharflab/reval/internal/sourcemap"
)

// Analyzer checks stylesheets.
type Analyzer struct {
	parser cssparse.Parser
}

// New creates a CSS analyzer. A nil or unavailable parser falls back to the
// built-in scanner parser.
func New(parser cssparse.Parser) *Analyzer {
	return &Analyzer{parser: cssparse.Choose(parser)}
}

// Parser returns the backend in use.
func (a *Analyzer) Parser() cssparse.Parser {
	return a.parser
}

// Languages implements rules.Analyzer.
func (a *Analyzer) Languages() []rules.Language {
	return cssOnly
}

// Rules implements rules.Analyzer.
func (a *Analyzer) Rules() []rules.Rule {
	return allRules()
}

// Analyze implements rules.Analyzer. Style rules are checked during one
// traversal; selector-level checks run once the traversal is complete.
func (a *Analyzer) Analyze(input rules.Input) []rules.Issue {
	sheet, errs := a.parser.Parse(input.Source)

	var issues []rules.Issue
	if len(errs) > 0 {
		issues = append(issues, parseErrorIssue(errs[0]))
	}

	sm := sourcemap.New(cssparse.FoldNewlines(input.Source))
	groups := newSelectorGroups()
	sheet.Walk(func(r *cssparse.Rule) {
		if r.AtRule {
			return
		}
		issues = append(issues, analyzer.Guard("css-rule", r.Line, func() []rules.Issue {
			return checkRule(sm, r)
		})...)
		groups.add(r)
	})

	cfg := configutil.Coerce(input.RuleOptions(LargeRuleCode), DefaultLargeRuleConfig())
	issues = append(issues, groups.check(cfg.MaxDeclarations)...)
	return issues
}

func parseErrorIssue(e *cssparse.ParseError) rules.Issue {
	line := max(e.Line, 1)
	return rules.NewIssue(rules.SeverityError, line, ParseErrorCode, e.Message).
		WithColumn(e.Column).
		WithRange(rules.NewPointRange(line, max(e.Column, 1)))
}

// checkRule runs the per-rule checks: empty block, then for each
// declaration an empty-value and a duplicate-property check.
func checkRule(sm *sourcemap.SourceMap, r *cssparse.Rule) []rules.Issue {
	var issues []rules.Issue
	if len(r.Declarations) == 0 && len(r.Children) == 0 {
		issues = append(issues, rules.NewIssue(rules.SeverityWarning, r.Line, EmptyRuleCode,
			fmt.Sprintf("Empty rule '%s'", r.Key())).
			WithColumn(r.Column).
			WithRange(rules.NewPointRange(r.Line, r.Column)).
			WithSuggestion("Remove the empty CSS rule or add declarations."))
	}

	seen := make(map[string]bool, len(r.Declarations))
	for _, d := range r.Declarations {
		if cssparse.IsEmptyValue(d.Value) {
			issues = append(issues, rules.NewIssue(rules.SeverityWarning, d.Line, EmptyDeclarationCode,
				fmt.Sprintf("Empty declaration for '%s'", d.Property)).
				WithColumn(d.Column).
				WithRange(rules.NewPointRange(d.Line, d.Column)).
				WithSuggestion(fmt.Sprintf("Provide a value for '%s' or remove the declaration.", d.Property)))
		}

		key := propertyKey(d.Property)
		if seen[key] {
			issues = append(issues, duplicateIssue(sm, d))
		}
		seen[key] = true
	}
	return issues
}

func duplicateIssue(sm *sourcemap.SourceMap, d cssparse.Declaration) rules.Issue {
	edit := removalRange(sm, d)
	return rules.NewIssue(rules.SeverityWarning, d.Line, DuplicatePropCode,
		fmt.Sprintf("Duplicate property '%s'", d.Property)).
		WithColumn(d.Column).
		WithRange(rules.NewSpanRange(d.Line, d.Column, edit.EndLine, edit.EndColumn)).
		WithSuggestion(fmt.Sprintf("Remove duplicate '%s' or merge values.", d.Property)).
		WithFix(&rules.QuickFix{
			Title:      "Remove duplicate property " + d.Property,
			Edit:       rules.TextEdit{Range: edit},
			Confidence: rules.ConfidenceHigh,
			IsSafe:     true,
		})
}

// removalRange is the whole line when the declaration is alone on it,
// otherwise just the declaration text.
func removalRange(sm *sourcemap.SourceMap, d cssparse.Declaration) rules.Range {
	if !d.HasSpan() {
		return rules.NewLineRange(d.Line)
	}
	startLine, startCol := sm.Position(d.Start)
	endLine, endCol := sm.Position(d.End)
	before := sm.Line(startLine)[:startCol-1]
	after := ""
	if line := sm.Line(endLine); endCol-1 <= len(line) {
		after = line[endCol-1:]
	}
	if startLine == endLine && strings.TrimSpace(before) == "" && strings.TrimSpace(after) == "" {
		return rules.NewLineRange(startLine)
	}
	// End is exclusive; ranges are inclusive.
	endLine, endCol = sm.Position(d.End - 1)
	return rules.NewSpanRange(startLine, startCol, endLine, endCol)
}

// propertyKey folds case except for custom properties, which are case-sensitive.
func propertyKey(p string) string {
	if strings.HasPrefix(p, "--") {
		return p
	}
	return strings.ToLower(p)
}
