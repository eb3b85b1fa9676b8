package html

import (
	"strings"

	"github.com/wharflab/reval/internal/analyzer"
	"github.com/wharflab/reval/internal/rules"
)

// Analyzer checks HTML documents. The built-in checks always run; an
// available Linter adds its findings after them.
type Analyzer struct {
	linter Linter
}

// New creates an HTML analyzer. linter may be nil.
func New(linter Linter) *Analyzer {
	if linter != nil && !linter.Available() {
		linter = nil
	}
	return &Analyzer{linter: linter}
}

// Linter returns the active linter backend, or nil.
func (a *Analyzer) Linter() Linter {
	return a.linter
}

// Languages implements rules.Analyzer.
func (a *Analyzer) Languages() []rules.Language {
	return htmlOnly
}

// Rules implements rules.Analyzer.
func (a *Analyzer) Rules() []rules.Rule {
	out := builtinRules()
	if a.linter != nil {
		out = append(out, a.linter.Rules()...)
	}
	return out
}

// Analyze implements rules.Analyzer.
func (a *Analyzer) Analyze(input rules.Input) []rules.Issue {
	if !strings.Contains(input.Source, "<") {
		return []rules.Issue{
			rules.NewIssue(rules.SeverityWarning, 1, NotMarkupCode, "Content does not appear to be HTML").
				WithRange(rules.NewPointRange(1, 1)).
				WithSuggestion("Check file type or ensure HTML tags are present."),
		}
	}

	d := newDocument(input.Source)
	var issues []rules.Issue
	for _, c := range checks {
		issues = append(issues, analyzer.Guard(c.rule.Code, 1, func() []rules.Issue {
			return c.run(d)
		})...)
	}
	if a.linter != nil {
		issues = append(issues, analyzer.Guard(a.linter.Name(), 1, func() []rules.Issue {
			return a.linter.Lint(input)
		})...)
	}
	return issues
}
