package directive

import "github.com/wharflab/reval/internal/rules"

// FilterResult contains the results of filtering issues through directives.
type FilterResult struct {
	// Issues that were not suppressed.
	Issues []rules.Issue

	// Suppressed issues that were filtered out.
	Suppressed []rules.Issue

	// UnusedDirectives did not suppress any issue.
	UnusedDirectives []Directive
}

// Filter applies directives to issues.
// An issue is suppressed if a directive matches both its rule id and its
// line. Issues without a rule id are never suppressed.
//
// Matching is first-match-wins: when several directives could suppress the
// same issue, only the first is marked Used.
func Filter(issues []rules.Issue, directives []Directive) *FilterResult {
	result := &FilterResult{
		Issues:     make([]rules.Issue, 0, len(issues)),
		Suppressed: make([]rules.Issue, 0),
	}

	ds := make([]Directive, len(directives))
	copy(ds, directives)

	for _, issue := range issues {
		suppressed := false
		for i := range ds {
			d := &ds[i]
			if d.SuppressesLine(issue.Line) && d.SuppressesRule(issue.RuleID) {
				suppressed = true
				d.Used = true
				break
			}
		}

		if suppressed {
			result.Suppressed = append(result.Suppressed, issue)
		} else {
			result.Issues = append(result.Issues, issue)
		}
	}

	for _, d := range ds {
		if !d.Used {
			result.UnusedDirectives = append(result.UnusedDirectives, d)
		}
	}

	return result
}
