// Package testutil provides test helpers for analyzers and rules.
package testutil

import (
	"strings"
	"testing"

	"github.com/wharflab/reval/internal/rules"
)

// MakeInput creates an analyzer input for in-memory source.
func MakeInput(lang rules.Language, content string) rules.Input {
	return rules.Input{
		Source:   content,
		Language: lang,
	}
}

// MakeInputWithOptions creates an input carrying options for one rule.
func MakeInputWithOptions(lang rules.Language, content, code string, options any) rules.Input {
	input := MakeInput(lang, content)
	if options != nil {
		input.Options = map[string]any{code: options}
	}
	return input
}

// AnalyzerTestCase defines a test case for table-driven analyzer tests.
type AnalyzerTestCase struct {
	// Name is the test case name.
	Name string

	// Content is the source text to analyze.
	Content string

	// Language overrides the analyzer's first language.
	Language rules.Language

	// Options are rule options keyed by rule code.
	Options map[string]any

	// WantIssues is the expected number of issues.
	// Use -1 to skip the count check.
	WantIssues int

	// WantCodes is the expected rule ids in issue order.
	WantCodes []string

	// WantLines is the expected lines in issue order.
	WantLines []int

	// WantMessages are substrings expected in issue messages, in order.
	WantMessages []string
}

// RunAnalyzerTests runs a table of test cases against an analyzer.
func RunAnalyzerTests(t *testing.T, a rules.Analyzer, cases []AnalyzerTestCase) {
	t.Helper()

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			lang := tc.Language
			if lang == "" {
				lang = a.Languages()[0]
			}
			input := MakeInput(lang, tc.Content)
			input.Options = tc.Options
			issues := a.Analyze(input)

			if tc.WantIssues >= 0 && len(issues) != tc.WantIssues {
				t.Errorf("got %d issues, want %d", len(issues), tc.WantIssues)
				LogIssues(t, issues)
			}

			if len(tc.WantCodes) > 0 {
				if len(issues) != len(tc.WantCodes) {
					t.Errorf("got %d issues, want %d codes", len(issues), len(tc.WantCodes))
					LogIssues(t, issues)
				} else {
					for i, code := range tc.WantCodes {
						if issues[i].RuleID != code {
							t.Errorf("issue[%d].RuleID = %q, want %q", i, issues[i].RuleID, code)
						}
					}
				}
			}

			for i, line := range tc.WantLines {
				if i >= len(issues) {
					t.Errorf("expected issue[%d] at line %d, but only got %d issues", i, line, len(issues))
					continue
				}
				if issues[i].Line != line {
					t.Errorf("issue[%d].Line = %d, want %d", i, issues[i].Line, line)
				}
			}

			for i, msg := range tc.WantMessages {
				if i >= len(issues) {
					t.Errorf("expected issue[%d] with message containing %q, but only got %d issues", i, msg, len(issues))
					continue
				}
				if !strings.Contains(issues[i].Message, msg) {
					t.Errorf("issue[%d].Message = %q, want substring %q", i, issues[i].Message, msg)
				}
			}
		})
	}
}

// FilterByCode returns the issues reported under code.
func FilterByCode(issues []rules.Issue, code string) []rules.Issue {
	var out []rules.Issue
	for _, issue := range issues {
		if issue.RuleID == code {
			out = append(out, issue)
		}
	}
	return out
}

// LogIssues writes issues to the test log.
func LogIssues(tb testing.TB, issues []rules.Issue) {
	tb.Helper()
	for i, issue := range issues {
		tb.Logf("  [%d] %s line %d: %s", i, issue.RuleID, issue.Line, issue.Message)
	}
}

// AssertNoIssues fails the test if there are any issues.
func AssertNoIssues(tb testing.TB, issues []rules.Issue) {
	tb.Helper()
	if len(issues) > 0 {
		tb.Errorf("expected no issues, got %d:", len(issues))
		LogIssues(tb, issues)
	}
}

// AssertIssueCount fails if the issue count doesn't match.
func AssertIssueCount(tb testing.TB, issues []rules.Issue, want int) {
	tb.Helper()
	if len(issues) != want {
		tb.Errorf("got %d issues, want %d", len(issues), want)
		LogIssues(tb, issues)
	}
}
