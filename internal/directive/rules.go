package directive

import "github.com/wharflab/reval/internal/rules"

// Rule ids for problems with the directives themselves.
const (
	InvalidCode       = "invalid-directive"
	UnusedCode        = "unused-directive"
	MissingReasonCode = "directive-missing-reason"
)

var (
	invalidRule = rules.RuleMetadata{
		Code:            InvalidCode,
		Name:            "Invalid directive",
		Description:     "A reval-ignore comment lists no rules or names unknown rules",
		Languages:       rules.Languages(),
		DefaultSeverity: rules.SeverityWarning,
		Category:        "directives",
	}
	unusedRule = rules.RuleMetadata{
		Code:            UnusedCode,
		Name:            "Unused directive",
		Description:     "A reval-ignore comment suppresses no issue",
		Languages:       rules.Languages(),
		DefaultSeverity: rules.SeverityInfo,
		Category:        "directives",
	}
	missingReasonRule = rules.RuleMetadata{
		Code:            MissingReasonCode,
		Name:            "Directive without reason",
		Description:     "A reval-ignore comment gives no reason= explanation",
		Languages:       rules.Languages(),
		DefaultSeverity: rules.SeverityInfo,
		Category:        "directives",
	}
)

func init() {
	rules.Register(invalidRule)
	rules.Register(unusedRule)
	rules.Register(missingReasonRule)
}

// ParseErrorIssue reports a malformed directive.
func ParseErrorIssue(e ParseError) rules.Issue {
	return rules.NewIssue(rules.SeverityWarning, e.Line, InvalidCode,
		"Invalid reval-ignore directive: "+e.Message).
		WithRange(rules.NewLineRange(e.Line))
}

// UnusedIssue reports a directive that suppressed nothing.
func UnusedIssue(d Directive) rules.Issue {
	return rules.NewIssue(rules.SeverityInfo, d.Line, UnusedCode,
		"Directive suppresses no issue: "+d.RawText).
		WithRange(rules.NewLineRange(d.Line)).
		WithSuggestion("Remove the directive.")
}

// MissingReasonIssue reports a directive without reason=.
func MissingReasonIssue(d Directive) rules.Issue {
	return rules.NewIssue(rules.SeverityInfo, d.Line, MissingReasonCode,
		"Directive has no reason: "+d.RawText).
		WithRange(rules.NewLineRange(d.Line)).
		WithSuggestion("Append reason=<why> to the directive.")
}
